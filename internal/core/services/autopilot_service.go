package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/shopspring/decimal"

	"github.com/wealthsync/wealthsync-backend/internal/apperrors"
	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/core/recurrence"
	"github.com/wealthsync/wealthsync-backend/internal/dto"
	"github.com/wealthsync/wealthsync-backend/internal/middleware"
	"github.com/wealthsync/wealthsync-backend/internal/platform/config"
)

const (
	providerInternalLedger = "internal_ledger"

	maxPrepareHorizonDays = 90
	maxOrderListLimit     = 200
)

const (
	notifyApprovalRequired = "payment_approval_required"
	notifyApproved         = "payment_approved"
	notifySuccess          = "payment_success"
)

// orderKey is the dedup natural key within one user's preparation window.
type orderKey struct {
	sourceType domain.PaymentSourceType
	sourceID   string
	dueOn      string
}

func keyFor(sourceType domain.PaymentSourceType, sourceID string, dueOn time.Time) orderKey {
	return orderKey{sourceType: sourceType, sourceID: sourceID, dueOn: dueOn.Format(time.DateOnly)}
}

// autopilotService prepares, approves and executes payment orders.
type autopilotService struct {
	orders        portsrepo.PaymentOrderRepositoryFacade
	bills         portsrepo.BillRepository
	subscriptions portsrepo.SubscriptionRepository
	goals         portsrepo.SavingsGoalRepository
	notifications portsrepo.NotificationRepository
	cfg           config.Autopilot
	clk           clock.Clock
}

// NewAutopilotService creates the autopilot payment engine.
func NewAutopilotService(
	orders portsrepo.PaymentOrderRepositoryFacade,
	bills portsrepo.BillRepository,
	subscriptions portsrepo.SubscriptionRepository,
	goals portsrepo.SavingsGoalRepository,
	notifications portsrepo.NotificationRepository,
	cfg config.Autopilot,
	clk clock.Clock,
) portssvc.AutopilotSvcFacade {
	return &autopilotService{
		orders:        orders,
		bills:         bills,
		subscriptions: subscriptions,
		goals:         goals,
		notifications: notifications,
		cfg:           cfg,
		clk:           clk,
	}
}

var _ portssvc.AutopilotSvcFacade = (*autopilotService)(nil)

func clampHorizon(daysAhead int) int {
	if daysAhead < 0 {
		return 0
	}
	if daysAhead > maxPrepareHorizonDays {
		return maxPrepareHorizonDays
	}
	return daysAhead
}

// notify inserts a notification record; delivery is someone else's job and
// a failed insert never fails the calling operation.
func (s *autopilotService) notify(ctx context.Context, userID, title, message, notificationType string, actionURL, relatedID string) {
	n := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		ActionURL: &actionURL,
		RelatedID: &relatedID,
		CreatedAt: s.clk.Now().UTC(),
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to create notification", slog.String("type", notificationType), slog.String("error", err.Error()))
	}
}

// PrepareOrders materializes payment orders for the user's due-eligible
// sources within [today, today+daysAhead]. Re-running within the same cycle
// creates nothing: candidates already present in the window are skipped via
// the natural-key set, and races lost to a concurrent preparation surface as
// unique-constraint violations which are likewise skipped.
func (s *autopilotService) PrepareOrders(ctx context.Context, userID string, daysAhead int) ([]domain.PaymentOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.clk.Now().UTC()
	today := recurrence.StartOfDay(now)
	horizon := today.AddDate(0, 0, clampHorizon(daysAhead))

	existing, err := s.orders.ListActiveOrdersInWindow(ctx, userID, today, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing payment orders: %w", err)
	}
	seen := make(map[orderKey]struct{}, len(existing))
	for _, order := range existing {
		seen[keyFor(order.SourceType, order.SourceID, order.DueOn)] = struct{}{}
	}

	created := []domain.PaymentOrder{}

	bills, err := s.bills.ListAutopayBills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load autopay bills: %w", err)
	}
	for _, bill := range bills {
		dueOn := recurrence.NextRecurringDate(now, bill.DueDay)
		if dueOn.Before(today) || dueOn.After(horizon) {
			continue
		}
		key := keyFor(domain.SourceBill, bill.ID, dueOn)
		if _, ok := seen[key]; ok {
			continue
		}

		frequency := bill.Frequency
		if frequency == "" {
			frequency = "monthly"
		}
		order := s.newOrder(userID, domain.SourceBill, bill.ID, bill.Name, bill.AmountEstimated, dueOn, bill.CategoryID, map[string]any{
			"autopay_enabled": bill.AutopayEnabled,
			"frequency":       frequency,
		})

		switch err := s.orders.CreateOrder(ctx, order); {
		case errors.Is(err, apperrors.ErrDuplicate):
			// Lost a race with a concurrent preparation for the same cycle.
			seen[key] = struct{}{}
			continue
		case err != nil:
			return nil, fmt.Errorf("failed to create payment order for bill %s: %w", bill.ID, err)
		}

		seen[key] = struct{}{}
		created = append(created, order)

		s.notify(ctx, userID,
			fmt.Sprintf("Approval needed: %s", bill.Name),
			fmt.Sprintf("Approve %s %s for %s (due %s).", order.Currency, order.Amount.StringFixed(2), bill.Name, dueOn.Format(time.DateOnly)),
			notifyApprovalRequired, "/dashboard", order.ID)
	}

	subscriptions, err := s.subscriptions.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active subscriptions: %w", err)
	}
	for _, sub := range subscriptions {
		dueAt := recurrence.NextSubscriptionDueDate(now, sub.NextBillingDate, sub.BillingCycle)
		if sub.NextBillingDate == nil {
			// Lazy initialization happens even when no order results.
			if err := s.subscriptions.UpdateNextBillingDate(ctx, sub.ID, dueAt); err != nil {
				logger.Warn("Failed to initialize subscription next billing date", slog.String("subscription_id", sub.ID), slog.String("error", err.Error()))
			}
		}
		dueOn := recurrence.StartOfDay(dueAt)
		if dueOn.Before(today) || dueOn.After(horizon) {
			continue
		}
		key := keyFor(domain.SourceSubscription, sub.ID, dueOn)
		if _, ok := seen[key]; ok {
			continue
		}

		billingCycle := sub.BillingCycle
		if billingCycle == "" {
			billingCycle = "monthly"
		}
		order := s.newOrder(userID, domain.SourceSubscription, sub.ID, sub.Name, sub.Amount, dueOn, sub.CategoryID, map[string]any{
			"billing_cycle": billingCycle,
		})

		switch err := s.orders.CreateOrder(ctx, order); {
		case errors.Is(err, apperrors.ErrDuplicate):
			seen[key] = struct{}{}
			continue
		case err != nil:
			return nil, fmt.Errorf("failed to create payment order for subscription %s: %w", sub.ID, err)
		}

		seen[key] = struct{}{}
		created = append(created, order)

		s.notify(ctx, userID,
			fmt.Sprintf("Approval needed: %s", sub.Name),
			fmt.Sprintf("Approve %s %s for %s (due %s).", order.Currency, order.Amount.StringFixed(2), sub.Name, dueOn.Format(time.DateOnly)),
			notifyApprovalRequired, "/dashboard", order.ID)
	}

	if len(created) > 0 {
		logger.Info("Payment orders prepared", slog.Int("created", len(created)), slog.Int("days_ahead", daysAhead))
	}
	return created, nil
}

func (s *autopilotService) newOrder(userID string, sourceType domain.PaymentSourceType, sourceID, title string, amount decimal.Decimal, dueOn time.Time, categoryID *string, meta map[string]any) domain.PaymentOrder {
	now := s.clk.Now().UTC()
	return domain.PaymentOrder{
		ID:               uuid.NewString(),
		UserID:           userID,
		SourceType:       sourceType,
		SourceID:         sourceID,
		Title:            title,
		Amount:           amount,
		Currency:         s.cfg.DefaultCurrency,
		DueOn:            dueOn,
		Status:           domain.OrderApprovalRequired,
		ApprovalRequired: true,
		Provider:         s.cfg.Provider,
		CategoryID:       categoryID,
		Meta:             meta,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// PrepareOrdersForAllUsers runs preparation for every user owning an autopay
// bill or active subscription. Used by the scheduled job; one user's failure
// never aborts the rest.
func (s *autopilotService) PrepareOrdersForAllUsers(ctx context.Context, daysAhead int) (*dto.BatchPrepareResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	billUsers, err := s.bills.ListAutopayUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list autopay bill users: %w", err)
	}
	subscriptionUsers, err := s.subscriptions.ListActiveUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscription users: %w", err)
	}

	userIDs := make(map[string]struct{}, len(billUsers)+len(subscriptionUsers))
	for _, id := range billUsers {
		userIDs[id] = struct{}{}
	}
	for _, id := range subscriptionUsers {
		userIDs[id] = struct{}{}
	}

	ordersCreated := 0
	for userID := range userIDs {
		created, err := s.PrepareOrders(ctx, userID, daysAhead)
		if err != nil {
			logger.Error("Order preparation failed for user", slog.String("prepare_user_id", userID), slog.String("error", err.Error()))
			continue
		}
		ordersCreated += len(created)
	}

	logger.Info("Batch order preparation completed", slog.Int("users", len(userIDs)), slog.Int("orders_created", ordersCreated))
	return &dto.BatchPrepareResponse{UsersProcessed: len(userIDs), OrdersCreated: ordersCreated}, nil
}

// ListOrders retrieves a user's payment orders ordered by due date.
func (s *autopilotService) ListOrders(ctx context.Context, userID string, status *domain.OrderStatus, limit int) ([]domain.PaymentOrder, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxOrderListLimit {
		limit = maxOrderListLimit
	}
	orders, err := s.orders.ListOrdersByUser(ctx, userID, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", err)
	}
	return orders, nil
}

// ApproveOrder moves an order to approved and, when both the caller and the
// auto-execute configuration ask for it, chains straight into execution.
// Already terminal orders are returned unchanged.
func (s *autopilotService) ApproveOrder(ctx context.Context, userID string, orderID string, executeNow bool) (*domain.PaymentOrder, error) {
	order, err := s.orders.FindOrderByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(domain.OrderApproved) {
		return order, nil
	}

	now := s.clk.Now().UTC()
	order.Status = domain.OrderApproved
	order.ApprovedAt = &now
	order.FailureReason = nil
	order.UpdatedAt = now
	if err := s.orders.UpdateOrder(ctx, *order); err != nil {
		return nil, fmt.Errorf("failed to approve payment order %s: %w", orderID, err)
	}

	s.notify(ctx, userID,
		fmt.Sprintf("Payment approved: %s", order.Title),
		fmt.Sprintf("%s %s is approved for autopilot execution.", order.Currency, order.Amount.StringFixed(2)),
		notifyApproved, "/dashboard", order.ID)

	if executeNow && s.cfg.AutoExecuteOnApproval {
		return s.executeOrder(ctx, order)
	}
	return order, nil
}

// ExecuteOrder executes a specific order on behalf of its owner.
func (s *autopilotService) ExecuteOrder(ctx context.Context, userID string, orderID string) (*domain.PaymentOrder, error) {
	order, err := s.orders.FindOrderByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.executeOrder(ctx, order)
}

// CancelOrder cancels any order that has not already succeeded.
func (s *autopilotService) CancelOrder(ctx context.Context, userID string, orderID string, reason *string) (*domain.PaymentOrder, error) {
	order, err := s.orders.FindOrderByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderSucceeded {
		// Succeeded is terminal; the money moved.
		return order, nil
	}

	now := s.clk.Now().UTC()
	order.Status = domain.OrderCancelled
	order.CancelledAt = &now
	if reason != nil && *reason != "" {
		order.FailureReason = reason
	}
	order.UpdatedAt = now
	if err := s.orders.UpdateOrder(ctx, *order); err != nil {
		return nil, fmt.Errorf("failed to cancel payment order %s: %w", orderID, err)
	}
	return order, nil
}

// ExecuteDueApprovedOrders executes all approved orders due today or earlier,
// across all users. Each order is an independent unit of work.
func (s *autopilotService) ExecuteDueApprovedOrders(ctx context.Context) (*dto.BatchExecutionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	today := recurrence.StartOfDay(s.clk.Now().UTC())

	due, err := s.orders.ListDueApprovedOrders(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list due approved orders: %w", err)
	}

	resp := &dto.BatchExecutionResponse{}
	for i := range due {
		result, err := s.executeOrder(ctx, &due[i])
		if err != nil {
			logger.Error("Due order execution errored", slog.String("order_id", due[i].ID), slog.String("error", err.Error()))
			resp.Failed++
			continue
		}
		switch result.Status {
		case domain.OrderSucceeded:
			resp.Executed++
		case domain.OrderFailed:
			resp.Failed++
		}
	}

	logger.Info("Due order execution completed", slog.Int("executed", resp.Executed), slog.Int("failed", resp.Failed))
	return resp, nil
}

// ExecuteDueApprovedOrdersForUser executes the caller's own approved orders
// that are due today or earlier.
func (s *autopilotService) ExecuteDueApprovedOrdersForUser(ctx context.Context, userID string) (*dto.BatchExecutionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	today := recurrence.StartOfDay(s.clk.Now().UTC())

	approved := domain.OrderApproved
	orders, err := s.orders.ListOrdersByUser(ctx, userID, &approved, maxOrderListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved orders: %w", err)
	}

	resp := &dto.BatchExecutionResponse{}
	for i := range orders {
		if orders[i].DueOn.After(today) {
			continue
		}
		result, err := s.executeOrder(ctx, &orders[i])
		if err != nil {
			logger.Error("Order execution errored", slog.String("order_id", orders[i].ID), slog.String("error", err.Error()))
			resp.Failed++
			continue
		}
		switch result.Status {
		case domain.OrderSucceeded:
			resp.Executed++
		case domain.OrderFailed:
			resp.Failed++
		}
	}
	return resp, nil
}

// RunDailyAutopilot is the scheduled job body: refresh orders for everyone at
// the configured horizon, then execute whatever is approved and due.
func (s *autopilotService) RunDailyAutopilot(ctx context.Context) (*dto.DailyJobResponse, error) {
	prepared, err := s.PrepareOrdersForAllUsers(ctx, s.cfg.PrepareDaysAhead)
	if err != nil {
		return nil, err
	}
	executed, err := s.ExecuteDueApprovedOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DailyJobResponse{
		UsersProcessed: prepared.UsersProcessed,
		OrdersCreated:  prepared.OrdersCreated,
		Executed:       executed.Executed,
		Failed:         executed.Failed,
	}, nil
}

// failOrder transitions an order to failed with a human-readable reason.
// Business failures are terminal order states, not errors to the caller.
func (s *autopilotService) failOrder(ctx context.Context, order *domain.PaymentOrder, reason string) {
	now := s.clk.Now().UTC()
	order.Status = domain.OrderFailed
	order.FailureReason = &reason
	order.UpdatedAt = now
	if err := s.orders.UpdateOrder(ctx, *order); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to persist order failure", slog.String("order_id", order.ID), slog.String("error", err.Error()))
	}
}

func normalizeProvider(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		return providerInternalLedger
	}
	return p
}
