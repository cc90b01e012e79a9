package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wealthsync/wealthsync-backend/internal/apperrors"
	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	"github.com/wealthsync/wealthsync-backend/internal/core/recurrence"
	"github.com/wealthsync/wealthsync-backend/internal/middleware"
)

// executeOrder runs an order through the internal ledger. Business-rule
// failures (wrong state, missing source, unconfigured provider) land the
// order in status failed and are not errors; only repository faults error.
func (s *autopilotService) executeOrder(ctx context.Context, order *domain.PaymentOrder) (*domain.PaymentOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if order.Status.IsTerminal() {
		return order, nil
	}
	if order.Status != domain.OrderApproved && order.Status != domain.OrderProcessing {
		s.failOrder(ctx, order, "Payment must be approved before execution.")
		return order, nil
	}

	now := s.clk.Now().UTC()
	order.Status = domain.OrderProcessing
	order.UpdatedAt = now
	if err := s.orders.UpdateOrder(ctx, *order); err != nil {
		return nil, fmt.Errorf("failed to mark order %s processing: %w", order.ID, err)
	}

	if normalizeProvider(order.Provider) != providerInternalLedger {
		s.failOrder(ctx, order, "External provider execution is not configured. Set PAYMENTS_PROVIDER=internal_ledger or integrate provider credentials.")
		return order, nil
	}

	txn, effect, failReason, err := s.buildLedgerPosting(ctx, order, now)
	if err != nil {
		return nil, err
	}
	if failReason != "" {
		s.failOrder(ctx, order, failReason)
		return order, nil
	}

	order.Status = domain.OrderSucceeded
	order.ExecutedAt = &now
	if order.ProviderReference == nil {
		ref := "internal:" + order.ID
		order.ProviderReference = &ref
	}
	order.FailureReason = nil
	order.TransactionID = &txn.ID
	order.UpdatedAt = now

	if err := s.orders.SettleOrder(ctx, *order, txn, effect); err != nil {
		return nil, fmt.Errorf("failed to settle order %s: %w", order.ID, err)
	}

	logger.Info("Payment order executed",
		slog.String("order_id", order.ID),
		slog.String("source_type", string(order.SourceType)),
		slog.String("transaction_id", txn.ID))

	// The notification links the ledger transaction rather than the order.
	relatedID := order.ID
	if order.TransactionID != nil {
		relatedID = *order.TransactionID
	}
	s.notify(ctx, order.UserID,
		fmt.Sprintf("Payment completed: %s", order.Title),
		fmt.Sprintf("%s %s was paid successfully.", order.Currency, order.Amount.StringFixed(2)),
		notifySuccess, "/dashboard/transactions", relatedID)

	return order, nil
}

// buildLedgerPosting resolves the linked source and assembles the expense
// transaction plus the source mutations that must commit with it. A non-empty
// failReason means a business failure; err means a repository fault.
func (s *autopilotService) buildLedgerPosting(ctx context.Context, order *domain.PaymentOrder, now time.Time) (domain.Transaction, domain.LedgerEffect, string, error) {
	var effect domain.LedgerEffect

	txn := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      order.UserID,
		CategoryID:  order.CategoryID,
		Amount:      order.Amount,
		Type:        domain.TransactionExpense,
		Description: fmt.Sprintf("Autopilot Payment: %s", order.Title),
		OccurredAt:  now,
		Status:      domain.TransactionCompleted,
		CreatedAt:   now,
	}

	switch order.SourceType {
	case domain.SourceBill:
		bill, err := s.bills.FindBillByID(ctx, order.UserID, order.SourceID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return txn, effect, "Linked bill not found.", nil
		}
		if err != nil {
			return txn, effect, "", fmt.Errorf("failed to load bill %s: %w", order.SourceID, err)
		}
		if txn.CategoryID == nil {
			txn.CategoryID = bill.CategoryID
		}
		txn.BillID = &bill.ID
		bill.LastPaidAt = &now
		effect.Bill = bill
		return txn, effect, "", nil

	case domain.SourceSubscription:
		sub, err := s.subscriptions.FindSubscriptionByID(ctx, order.UserID, order.SourceID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return txn, effect, "Linked subscription not found.", nil
		}
		if err != nil {
			return txn, effect, "", fmt.Errorf("failed to load subscription %s: %w", order.SourceID, err)
		}
		if txn.CategoryID == nil {
			txn.CategoryID = sub.CategoryID
		}
		txn.SubscriptionID = &sub.ID

		// Advance one cycle past whichever is later, the stored date or now.
		base := now
		if sub.NextBillingDate != nil && sub.NextBillingDate.After(now) {
			base = *sub.NextBillingDate
		}
		next := base.AddDate(0, 0, recurrence.CycleDays(sub.BillingCycle))
		sub.NextBillingDate = &next
		effect.Subscription = sub
		return txn, effect, "", nil

	case domain.SourceGoal:
		goal, err := s.goals.FindGoalByID(ctx, order.UserID, order.SourceID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return txn, effect, "Linked savings goal not found.", nil
		}
		if err != nil {
			return txn, effect, "", fmt.Errorf("failed to load savings goal %s: %w", order.SourceID, err)
		}
		txn.Description = fmt.Sprintf("Autopilot Goal Contribution: %s", goal.Name)

		goal.CurrentAmount = goal.CurrentAmount.Add(order.Amount)
		if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			goal.IsCompleted = true
		}
		effect.Goal = goal
		effect.SavingsLog = &domain.SavingsLog{
			ID:        uuid.NewString(),
			GoalID:    goal.ID,
			Amount:    order.Amount,
			Note:      "Autopilot contribution",
			CreatedAt: now,
		}
		return txn, effect, "", nil

	default:
		return txn, effect, fmt.Sprintf("Unsupported payment source type: %s", order.SourceType), nil
	}
}
