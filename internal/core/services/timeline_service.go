package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/shopspring/decimal"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/core/recurrence"
	"github.com/wealthsync/wealthsync-backend/internal/dto"
)

const (
	maxTimelinePastDays   = 90
	maxTimelineFutureDays = 365
)

const (
	eventTypeTransaction  = "TRANSACTION"
	eventTypeBillDue      = "BILL_DUE"
	eventTypeSubscription = "SUBSCRIPTION"
	eventTypeSalary       = "SALARY"
	eventTypeGoal         = "GOAL_CONTRIBUTION"
	eventTypeProjection   = "PROJECTION"
)

// timelineEntry pairs the serialized event with its exact amount so the
// projection and summary aggregate without float drift.
type timelineEntry struct {
	event  dto.TimelineEvent
	amount decimal.Decimal
}

// timelineService merges ledger history with projected obligations into one
// chronological feed.
type timelineService struct {
	preparation   portssvc.OrderPreparationSvc
	orders        portsrepo.PaymentOrderRepositoryFacade
	bills         portsrepo.BillRepository
	subscriptions portsrepo.SubscriptionRepository
	goals         portsrepo.SavingsGoalRepository
	incomes       portsrepo.IncomeSourceRepository
	transactions  portsrepo.TransactionRepository
	budgets       portsrepo.BudgetRepository
	clk           clock.Clock
}

// NewTimelineService creates the timeline feed builder.
func NewTimelineService(
	preparation portssvc.OrderPreparationSvc,
	orders portsrepo.PaymentOrderRepositoryFacade,
	bills portsrepo.BillRepository,
	subscriptions portsrepo.SubscriptionRepository,
	goals portsrepo.SavingsGoalRepository,
	incomes portsrepo.IncomeSourceRepository,
	transactions portsrepo.TransactionRepository,
	budgets portsrepo.BudgetRepository,
	clk clock.Clock,
) portssvc.TimelineSvcFacade {
	return &timelineService{
		preparation:   preparation,
		orders:        orders,
		bills:         bills,
		subscriptions: subscriptions,
		goals:         goals,
		incomes:       incomes,
		transactions:  transactions,
		budgets:       budgets,
		clk:           clk,
	}
}

var _ portssvc.TimelineSvcFacade = (*timelineService)(nil)

func clampTimelineWindow(daysPast, daysFuture int) (int, int) {
	if daysPast < 0 {
		daysPast = 0
	}
	if daysPast > maxTimelinePastDays {
		daysPast = maxTimelinePastDays
	}
	if daysFuture < 1 {
		daysFuture = 1
	}
	if daysFuture > maxTimelineFutureDays {
		daysFuture = maxTimelineFutureDays
	}
	return daysPast, daysFuture
}

// TimelineEvents builds the merged feed. Order preparation runs first so the
// projected bill and subscription entries can link to live payment orders.
func (s *timelineService) TimelineEvents(ctx context.Context, userID string, daysPast, daysFuture int) (*dto.TimelineResponse, error) {
	daysPast, daysFuture = clampTimelineWindow(daysPast, daysFuture)

	now := s.clk.Now().UTC()
	today := recurrence.StartOfDay(now)
	start := now.AddDate(0, 0, -daysPast)
	end := now.AddDate(0, 0, daysFuture)

	if _, err := s.preparation.PrepareOrders(ctx, userID, daysFuture); err != nil {
		return nil, err
	}

	categories, err := s.budgets.ListBudgetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget categories: %w", err)
	}
	categoryNames := make(map[string]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
	}

	orders, err := s.orders.ListOrdersInWindow(ctx, userID, recurrence.StartOfDay(start), recurrence.StartOfDay(end))
	if err != nil {
		return nil, fmt.Errorf("failed to load payment orders: %w", err)
	}
	orderByKey := make(map[orderKey]*domain.PaymentOrder, len(orders))
	for i := range orders {
		order := &orders[i]
		orderByKey[keyFor(order.SourceType, order.SourceID, order.DueOn)] = order
	}

	entries := []timelineEntry{}

	txns, err := s.transactions.ListTransactionsInRange(ctx, userID, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	for _, txn := range txns {
		amount := txn.Amount
		if txn.Type == domain.TransactionExpense {
			amount = amount.Neg()
		}
		title := txn.Description
		if title == "" {
			title = "Transaction"
		}
		categoryName := "Uncategorized"
		if txn.CategoryID != nil {
			if name, ok := categoryNames[*txn.CategoryID]; ok {
				categoryName = name
			}
		}
		entries = append(entries, timelineEntry{
			amount: amount,
			event: dto.TimelineEvent{
				Date:        txn.OccurredAt.Format(time.DateOnly),
				Type:        eventTypeTransaction,
				Title:       title,
				Amount:      dto.Money(amount),
				IsAutomatic: false,
				IsCompleted: true,
				Details: map[string]any{
					"category":         categoryName,
					"transaction_type": string(txn.Type),
				},
			},
		})
	}

	allTxns, err := s.transactions.ListAllTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	currentBalance := decimal.Zero
	for _, txn := range allTxns {
		switch txn.Type {
		case domain.TransactionIncome:
			currentBalance = currentBalance.Add(txn.Amount)
		case domain.TransactionExpense:
			currentBalance = currentBalance.Sub(txn.Amount)
		}
	}

	bills, err := s.bills.ListBillsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	for _, bill := range bills {
		dueOn := recurrence.NextRecurringDate(now, bill.DueDay)
		if dueOn.After(end) {
			continue
		}
		linked := orderByKey[keyFor(domain.SourceBill, bill.ID, dueOn)]
		amount := bill.AmountEstimated.Neg()
		entries = append(entries, timelineEntry{
			amount: amount,
			event: dto.TimelineEvent{
				Date:        dueOn.Format(time.DateOnly),
				Type:        eventTypeBillDue,
				Title:       bill.Name,
				Amount:      dto.Money(amount),
				IsAutomatic: bill.AutopayEnabled,
				IsCompleted: linked != nil && linked.Status == domain.OrderSucceeded,
				Details: map[string]any{
					"bill_name":           bill.Name,
					"due_day":             bill.DueDay,
					"autopay_enabled":     bill.AutopayEnabled,
					"payment_order_id":    orderID(linked),
					"payment_status":      orderStatus(linked),
					"provider_action_url": orderActionURL(linked),
				},
			},
		})
	}

	subscriptions, err := s.subscriptions.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, sub := range subscriptions {
		dueOn := recurrence.StartOfDay(recurrence.NextSubscriptionDueDate(now, sub.NextBillingDate, sub.BillingCycle))
		if dueOn.After(end) {
			continue
		}
		linked := orderByKey[keyFor(domain.SourceSubscription, sub.ID, dueOn)]
		amount := sub.Amount.Neg()
		entries = append(entries, timelineEntry{
			amount: amount,
			event: dto.TimelineEvent{
				Date:        dueOn.Format(time.DateOnly),
				Type:        eventTypeSubscription,
				Title:       sub.Name,
				Amount:      dto.Money(amount),
				IsAutomatic: true,
				IsCompleted: linked != nil && linked.Status == domain.OrderSucceeded,
				Details: map[string]any{
					"subscription_name":   sub.Name,
					"billing_cycle":       sub.BillingCycle,
					"payment_order_id":    orderID(linked),
					"payment_status":      orderStatus(linked),
					"provider_action_url": orderActionURL(linked),
				},
			},
		})
	}

	goals, err := s.goals.ListUnfinishedGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings goals: %w", err)
	}
	incomeSources, err := s.incomes.ListIncomeSourcesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load income sources: %w", err)
	}

	var salaryDates []time.Time
	for _, income := range incomeSources {
		if !income.Active || income.Payday == nil {
			continue
		}
		payday, ok := recurrence.ParsePayday(*income.Payday)
		if !ok {
			// Salary events need an explicit payday.
			continue
		}
		salaryDate := recurrence.NextRecurringDate(now, payday)
		if salaryDate.After(end) {
			continue
		}
		salaryDates = append(salaryDates, salaryDate)

		prepared := []map[string]any{}
		preparedTotal := decimal.Zero
		for _, bill := range bills {
			prepared = append(prepared, map[string]any{"name": bill.Name, "amount": dto.Money(bill.AmountEstimated)})
			preparedTotal = preparedTotal.Add(bill.AmountEstimated)
		}
		for _, sub := range subscriptions {
			prepared = append(prepared, map[string]any{"name": sub.Name, "amount": dto.Money(sub.Amount)})
			preparedTotal = preparedTotal.Add(sub.Amount)
		}
		for _, goal := range goals {
			if goal.MonthlyContribution.IsPositive() {
				prepared = append(prepared, map[string]any{"name": goal.Name, "amount": dto.Money(goal.MonthlyContribution)})
				preparedTotal = preparedTotal.Add(goal.MonthlyContribution)
			}
		}

		frequency := income.Frequency
		if frequency == "" {
			frequency = "monthly"
		}
		entries = append(entries, timelineEntry{
			amount: income.Amount,
			event: dto.TimelineEvent{
				Date:        salaryDate.Format(time.DateOnly),
				Type:        eventTypeSalary,
				Title:       "Salary Credited",
				Amount:      dto.Money(income.Amount),
				IsAutomatic: false,
				IsCompleted: !salaryDate.After(today),
				Details: map[string]any{
					"source":                 fmt.Sprintf("Income (%s)", strings.ToLower(frequency)),
					"auto_prepared_payments": prepared,
					"remaining_after":        dto.Money(income.Amount.Sub(preparedTotal)),
				},
			},
		})
	}

	var nextSalary *time.Time
	for i := range salaryDates {
		if nextSalary == nil || salaryDates[i].Before(*nextSalary) {
			nextSalary = &salaryDates[i]
		}
	}

	if nextSalary != nil {
		contributionDate := nextSalary.Format(time.DateOnly)
		for _, goal := range goals {
			if !goal.MonthlyContribution.IsPositive() {
				continue
			}
			progress := 0
			if goal.TargetAmount.IsPositive() {
				progress = int(goal.CurrentAmount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).IntPart())
			}
			amount := goal.MonthlyContribution.Neg()
			entries = append(entries, timelineEntry{
				amount: amount,
				event: dto.TimelineEvent{
					Date:        contributionDate,
					Type:        eventTypeGoal,
					Title:       goal.Name,
					Amount:      dto.Money(amount),
					IsAutomatic: true,
					IsCompleted: false,
					Details: map[string]any{
						"goal_name": goal.Name,
						"progress":  progress,
						"target":    dto.Money(goal.TargetAmount),
					},
				},
			})
		}
	}

	projectionDate := recurrence.MonthEnd(now)
	if !projectionDate.After(today) {
		projectionDate = recurrence.MonthEnd(recurrence.StartOfMonth(now).AddDate(0, 1, 0))
	}
	if !projectionDate.After(recurrence.StartOfDay(end)) {
		cutoff := projectionDate.Format(time.DateOnly)
		projectedIncome := decimal.Zero
		projectedCommitments := decimal.Zero
		for _, entry := range entries {
			if entry.event.Date > cutoff {
				continue
			}
			if entry.event.Type == eventTypeSalary {
				projectedIncome = projectedIncome.Add(entry.amount)
			}
			if entry.amount.IsNegative() && !entry.event.IsCompleted {
				projectedCommitments = projectedCommitments.Add(entry.amount.Abs())
			}
		}
		projectedBalance := currentBalance.Add(projectedIncome).Sub(projectedCommitments)

		daysToProjection := int(projectionDate.Sub(today).Hours() / 24)
		if daysToProjection < 0 {
			daysToProjection = 0
		}
		var confidence string
		var confidenceScore int
		switch {
		case daysToProjection <= 21:
			confidence, confidenceScore = "high", 85
		case daysToProjection <= 45:
			confidence, confidenceScore = "medium", 65
		default:
			confidence, confidenceScore = "low", 45
		}

		entries = append(entries, timelineEntry{
			amount: projectedBalance,
			event: dto.TimelineEvent{
				Date:        cutoff,
				Type:        eventTypeProjection,
				Title:       "Projected Balance",
				Amount:      dto.Money(projectedBalance),
				IsAutomatic: false,
				IsCompleted: false,
				Details: map[string]any{
					"confidence":       confidence,
					"confidence_score": confidenceScore,
				},
			},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].event.Date != entries[j].event.Date {
			return entries[i].event.Date < entries[j].event.Date
		}
		return entries[i].event.Type < entries[j].event.Type
	})

	upcoming := decimal.Zero
	events := make([]dto.TimelineEvent, 0, len(entries))
	for _, entry := range entries {
		if entry.amount.IsNegative() && !entry.event.IsCompleted {
			upcoming = upcoming.Add(entry.amount.Abs())
		}
		events = append(events, entry.event)
	}

	summary := dto.TimelineSummary{UpcomingCommitments: dto.Money(upcoming)}
	if nextSalary != nil {
		date := nextSalary.Format(time.DateOnly)
		days := int(nextSalary.Sub(today).Hours() / 24)
		summary.NextSalaryDate = &date
		summary.DaysUntilSalary = &days
	}

	return &dto.TimelineResponse{
		Events:  events,
		Today:   now.Format(time.DateOnly),
		Summary: summary,
	}, nil
}

func orderID(order *domain.PaymentOrder) any {
	if order == nil {
		return nil
	}
	return order.ID
}

func orderStatus(order *domain.PaymentOrder) any {
	if order == nil {
		return nil
	}
	return string(order.Status)
}

func orderActionURL(order *domain.PaymentOrder) any {
	if order == nil || order.ProviderActionURL == nil {
		return nil
	}
	return *order.ProviderActionURL
}
