package services

import (
	"context"
	"fmt"

	"github.com/juju/clock"
	"github.com/shopspring/decimal"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/core/recurrence"
	"github.com/wealthsync/wealthsync-backend/internal/dto"
)

// spendingService derives the monthly free budget and the daily spending orb.
type spendingService struct {
	bills         portsrepo.BillRepository
	subscriptions portsrepo.SubscriptionRepository
	goals         portsrepo.SavingsGoalRepository
	incomes       portsrepo.IncomeSourceRepository
	transactions  portsrepo.TransactionRepository
	clk           clock.Clock
}

// NewSpendingService creates the safe-to-spend calculator.
func NewSpendingService(
	bills portsrepo.BillRepository,
	subscriptions portsrepo.SubscriptionRepository,
	goals portsrepo.SavingsGoalRepository,
	incomes portsrepo.IncomeSourceRepository,
	transactions portsrepo.TransactionRepository,
	clk clock.Clock,
) portssvc.SpendingSvcFacade {
	return &spendingService{
		bills:         bills,
		subscriptions: subscriptions,
		goals:         goals,
		incomes:       incomes,
		transactions:  transactions,
		clk:           clk,
	}
}

var _ portssvc.SpendingSvcFacade = (*spendingService)(nil)

// SafeToSpend computes the monthly discretionary budget: resolved income
// minus unpaid bills, active subscriptions and goal contributions, minus what
// was already spent this month. Both budget figures clamp at zero.
func (s *spendingService) SafeToSpend(ctx context.Context, userID string) (*dto.SafeToSpendResponse, error) {
	now := s.clk.Now().UTC()
	startOfMonth := recurrence.StartOfMonth(now)

	incomeSources, err := s.incomes.ListIncomeSourcesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load income sources: %w", err)
	}
	incomeFromSources := monthlyIncomeFromSources(incomeSources)

	incomeTxns, err := s.transactions.ListTransactionsByTypeSince(ctx, userID, domain.TransactionIncome, startOfMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load income transactions: %w", err)
	}
	incomeFromTransactions := decimal.Zero
	for _, txn := range incomeTxns {
		incomeFromTransactions = incomeFromTransactions.Add(txn.Amount)
	}

	monthlyIncome := incomeFromSources
	incomeBasis := "income_sources"
	if incomeFromTransactions.IsPositive() {
		monthlyIncome = incomeFromTransactions
		incomeBasis = "income_transactions"
	}

	bills, err := s.bills.ListBillsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	unpaidBills := decimal.Zero
	for _, bill := range bills {
		paidThisMonth := bill.LastPaidAt != nil && !bill.LastPaidAt.Before(startOfMonth)
		if paidThisMonth {
			continue
		}
		unpaidBills = unpaidBills.Add(bill.AmountEstimated.Mul(recurrence.MonthlyMultiplier(bill.Frequency)))
	}

	subscriptions, err := s.subscriptions.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	subscriptionsAmount := decimal.Zero
	for _, sub := range subscriptions {
		subscriptionsAmount = subscriptionsAmount.Add(sub.Amount.Mul(recurrence.MonthlyMultiplier(sub.BillingCycle)))
	}

	goals, err := s.goals.ListUnfinishedGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings goals: %w", err)
	}
	goalsAmount := decimal.Zero
	for _, goal := range goals {
		goalsAmount = goalsAmount.Add(goal.MonthlyContribution)
	}

	totalCommitments := unpaidBills.Add(subscriptionsAmount).Add(goalsAmount)

	expenseTxns, err := s.transactions.ListTransactionsByTypeSince(ctx, userID, domain.TransactionExpense, startOfMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense transactions: %w", err)
	}
	spentThisMonth := decimal.Zero
	for _, txn := range expenseTxns {
		spentThisMonth = spentThisMonth.Add(txn.Amount)
	}

	monthlyFreeBudget := decimal.Max(decimal.Zero, monthlyIncome.Sub(totalCommitments))
	safeToSpend := decimal.Max(decimal.Zero, monthlyFreeBudget.Sub(spentThisMonth))

	return &dto.SafeToSpendResponse{
		TotalIncome:         dto.Money(monthlyIncome),
		TotalCommitted:      dto.Money(totalCommitments),
		TotalSpentMonth:     dto.Money(spentThisMonth),
		UpcomingCommitments: dto.Money(totalCommitments),
		MonthlyFreeBudget:   dto.Money(monthlyFreeBudget),
		SafeToSpend:         dto.Money(safeToSpend),
		IncomeBasis:         incomeBasis,
		Breakdown: dto.SafeToSpendBreakdown{
			UnpaidBills:            dto.Money(unpaidBills),
			Subscriptions:          dto.Money(subscriptionsAmount),
			SavingsGoals:           dto.Money(goalsAmount),
			IncomeFromTransactions: dto.Money(incomeFromTransactions),
			IncomeFromSources:      dto.Money(incomeFromSources),
		},
	}, nil
}

// DailySafeToSpend spreads the remaining monthly budget over the days left in
// the month and bands the result for the spending orb.
func (s *spendingService) DailySafeToSpend(ctx context.Context, userID string) (*dto.DailySafeToSpendResponse, error) {
	now := s.clk.Now().UTC()
	daysInMonth := recurrence.DaysInMonth(now)
	daysRemaining := daysInMonth - now.Day() + 1
	if daysRemaining < 1 {
		daysRemaining = 1
	}

	monthly, err := s.SafeToSpend(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthlyIncome := decimal.NewFromFloat(monthly.TotalIncome)
	monthlyCommitted := decimal.NewFromFloat(monthly.TotalCommitted)
	monthlySafeTotal := decimal.NewFromFloat(monthly.MonthlyFreeBudget)
	remainingBudget := decimal.NewFromFloat(monthly.SafeToSpend)

	dailyLimit := remainingBudget.Div(decimal.NewFromInt(int64(daysRemaining)))
	ratio := decimal.Zero
	if monthlySafeTotal.IsPositive() {
		ratio = remainingBudget.Div(monthlySafeTotal).Mul(decimal.NewFromInt(100))
	}

	// Banding uses the raw ratio; the reported percentage is rounded for display.
	var colorState, statusMessage string
	switch {
	case ratio.GreaterThan(decimal.NewFromInt(50)):
		colorState = "carefree"
		statusMessage = "You are doing great. Spend freely."
	case ratio.GreaterThan(decimal.NewFromInt(20)):
		colorState = "mindful"
		statusMessage = "Mindful spending keeps you on track."
	default:
		colorState = "careful"
		statusMessage = "Easy does it. You are close to the edge."
	}
	percentage, _ := ratio.Round(0).Float64()

	startOfToday := recurrence.StartOfDay(now)
	todayTxns, err := s.transactions.ListTransactionsByTypeSince(ctx, userID, domain.TransactionExpense, startOfToday)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's expenses: %w", err)
	}
	spentToday := decimal.Zero
	for _, txn := range todayTxns {
		spentToday = spentToday.Add(txn.Amount)
	}

	days := decimal.NewFromInt(int64(daysInMonth))
	return &dto.DailySafeToSpendResponse{
		DailyLimit:       dto.Money(dailyLimit),
		DaysLeftInMonth:  daysRemaining,
		MonthlySafeTotal: dto.Money(monthlySafeTotal),
		Percentage:       percentage,
		ColorState:       colorState,
		StatusMessage:    statusMessage,
		Breakdown: dto.DailyBreakdown{
			IncomeToday:      dto.Money(monthlyIncome.Div(days)),
			CommittedToday:   dto.Money(monthlyCommitted.Div(days)),
			SpentToday:       dto.Money(spentToday),
			RemainingToday:   dto.Money(dailyLimit),
			MonthlyIncome:    dto.Money(monthlyIncome),
			MonthlyCommitted: dto.Money(monthlyCommitted),
			SpentThisMonth:   dto.Money(decimal.NewFromFloat(monthly.TotalSpentMonth)),
			RemainingBudget:  dto.Money(remainingBudget),
		},
	}, nil
}
