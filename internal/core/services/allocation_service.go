package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/juju/clock"
	"github.com/shopspring/decimal"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/core/recurrence"
	"github.com/wealthsync/wealthsync-backend/internal/dto"
)

const (
	commitmentPriorityBill         = 100
	commitmentPrioritySubscription = 90

	defaultFreeMoneyFloorPercent = 20.0
	maxFreeMoneyFloorPercent     = 80.0
)

// allocationService implements the salary rule split: commitments first, then
// planned expenses, then goals by priority, with a protected free-money floor.
type allocationService struct {
	bills         portsrepo.BillRepository
	subscriptions portsrepo.SubscriptionRepository
	goals         portsrepo.SavingsGoalRepository
	incomes       portsrepo.IncomeSourceRepository
	transactions  portsrepo.TransactionRepository
	budgets       portsrepo.BudgetRepository
	clk           clock.Clock
}

// NewAllocationService creates the salary allocation engine.
func NewAllocationService(
	bills portsrepo.BillRepository,
	subscriptions portsrepo.SubscriptionRepository,
	goals portsrepo.SavingsGoalRepository,
	incomes portsrepo.IncomeSourceRepository,
	transactions portsrepo.TransactionRepository,
	budgets portsrepo.BudgetRepository,
	clk clock.Clock,
) portssvc.AllocationSvcFacade {
	return &allocationService{
		bills:         bills,
		subscriptions: subscriptions,
		goals:         goals,
		incomes:       incomes,
		transactions:  transactions,
		budgets:       budgets,
		clk:           clk,
	}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

func clampFloorPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > maxFreeMoneyFloorPercent {
		return maxFreeMoneyFloorPercent
	}
	return percent
}

// monthlyIncomeFromSources sums active income sources normalized to monthly.
func monthlyIncomeFromSources(sources []domain.IncomeSource) decimal.Decimal {
	total := decimal.Zero
	for _, source := range sources {
		if !source.Active {
			continue
		}
		total = total.Add(source.Amount.Mul(recurrence.MonthlyMultiplier(source.Frequency)))
	}
	return total
}

func (s *allocationService) currentMonthIncomeFromTransactions(ctx context.Context, userID string) (decimal.Decimal, error) {
	startOfMonth := recurrence.StartOfMonth(s.clk.Now().UTC())
	txns, err := s.transactions.ListTransactionsByTypeSince(ctx, userID, domain.TransactionIncome, startOfMonth)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load income transactions: %w", err)
	}
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.Amount)
	}
	return total, nil
}

// allocateGoalsByPriority funds goals from the available budget in priority
// order, highest first, ties broken by name then id.
func allocateGoalsByPriority(goals []domain.SavingsGoal, availableBudget decimal.Decimal) ([]dto.GoalAllocation, decimal.Decimal) {
	remaining := decimal.Max(decimal.Zero, availableBudget)

	sorted := make([]domain.SavingsGoal, len(goals))
	copy(sorted, goals)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Priority, sorted[j].Priority
		if pi < 0 {
			pi = 0
		}
		if pj < 0 {
			pj = 0
		}
		if pi != pj {
			return pi > pj
		}
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	allocations := make([]dto.GoalAllocation, 0, len(sorted))
	totalAllocated := decimal.Zero
	for _, goal := range sorted {
		requested := decimal.Max(decimal.Zero, goal.MonthlyContribution)
		allocated := decimal.Min(requested, remaining)
		remaining = remaining.Sub(allocated)
		totalAllocated = totalAllocated.Add(allocated)
		shortfall := decimal.Max(decimal.Zero, requested.Sub(allocated))

		allocations = append(allocations, dto.GoalAllocation{
			GoalID:        goal.ID,
			GoalName:      goal.Name,
			Priority:      goal.Priority,
			Requested:     dto.Money(requested),
			Allocated:     dto.Money(allocated),
			Shortfall:     dto.Money(shortfall),
			IsFullyFunded: shortfall.IsZero(),
		})
	}
	return allocations, totalAllocated
}

// SalaryRuleSplit resolves the salary figure and distributes it across
// commitments, planned expenses and goals. Commitments are informational
// totals; the floor and the later buckets are funded from what remains.
func (s *allocationService) SalaryRuleSplit(ctx context.Context, userID string, salaryOverride *float64, freeMoneyMinPercent float64) (*dto.SalaryRuleSplitResponse, error) {
	now := s.clk.Now().UTC()
	startOfMonth := recurrence.StartOfMonth(now)
	floorPercent := clampFloorPercent(freeMoneyMinPercent)

	incomeSources, err := s.incomes.ListIncomeSourcesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load income sources: %w", err)
	}
	salaryFromSources := monthlyIncomeFromSources(incomeSources)

	salaryFromTransactions, err := s.currentMonthIncomeFromTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	var salaryConsidered decimal.Decimal
	var salarySource string
	switch {
	case salaryOverride != nil:
		salaryConsidered = decimal.Max(decimal.Zero, decimal.NewFromFloat(*salaryOverride))
		salarySource = "salary_override"
	case salaryFromTransactions.IsPositive():
		salaryConsidered = salaryFromTransactions
		salarySource = "income_transactions"
	default:
		salaryConsidered = decimal.Max(decimal.Zero, salaryFromSources)
		salarySource = "income_sources"
	}

	bills, err := s.bills.ListBillsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}

	commitmentItems := []dto.CommitmentItem{}
	commitmentsTotal := decimal.Zero
	for _, bill := range bills {
		paidThisMonth := bill.LastPaidAt != nil && !bill.LastPaidAt.Before(startOfMonth)
		if paidThisMonth {
			continue
		}
		amount := decimal.Max(decimal.Zero, bill.AmountEstimated.Mul(recurrence.MonthlyMultiplier(bill.Frequency)))
		commitmentsTotal = commitmentsTotal.Add(amount)
		commitmentItems = append(commitmentItems, dto.CommitmentItem{
			Type:     string(domain.SourceBill),
			Name:     bill.Name,
			Amount:   dto.Money(amount),
			Priority: commitmentPriorityBill,
			Metadata: map[string]any{
				"due_day":         bill.DueDay,
				"autopay_enabled": bill.AutopayEnabled,
			},
		})
	}

	subscriptions, err := s.subscriptions.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, sub := range subscriptions {
		amount := decimal.Max(decimal.Zero, sub.Amount.Mul(recurrence.MonthlyMultiplier(sub.BillingCycle)))
		commitmentsTotal = commitmentsTotal.Add(amount)
		commitmentItems = append(commitmentItems, dto.CommitmentItem{
			Type:     string(domain.SourceSubscription),
			Name:     sub.Name,
			Amount:   dto.Money(amount),
			Priority: commitmentPrioritySubscription,
			Metadata: map[string]any{
				"billing_cycle": sub.BillingCycle,
			},
		})
	}

	goals, err := s.goals.ListUnfinishedGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings goals: %w", err)
	}

	categories, err := s.budgets.ListBudgetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget categories: %w", err)
	}
	categoryNames := make(map[string]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
	}

	rules, err := s.budgets.ListBudgetRules(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget rules: %w", err)
	}

	type plannedExpense struct {
		item      dto.PlannedExpenseItem
		requested decimal.Decimal
	}
	plannedExpenses := []plannedExpense{}
	plannedRequestedTotal := decimal.Zero
	for _, rule := range rules {
		if !rule.MonthlyLimit.IsPositive() {
			continue
		}
		plannedRequestedTotal = plannedRequestedTotal.Add(rule.MonthlyLimit)
		categoryName, ok := categoryNames[rule.CategoryID]
		if !ok {
			categoryName = "Uncategorized"
		}
		plannedExpenses = append(plannedExpenses, plannedExpense{
			requested: rule.MonthlyLimit,
			item: dto.PlannedExpenseItem{
				RuleID:       rule.ID,
				CategoryID:   rule.CategoryID,
				CategoryName: categoryName,
				Requested:    dto.Money(rule.MonthlyLimit),
			},
		})
	}

	freeMoneyFloor := salaryConsidered.Mul(decimal.NewFromFloat(floorPercent)).Div(decimal.NewFromInt(100))
	remainingAfterCommitments := salaryConsidered.Sub(commitmentsTotal)

	goalRequestedTotal := decimal.Zero
	for _, goal := range goals {
		goalRequestedTotal = goalRequestedTotal.Add(decimal.Max(decimal.Zero, goal.MonthlyContribution))
	}

	var (
		goalAllocations  []dto.GoalAllocation
		allocatedToGoals decimal.Decimal
		plannedAllocated decimal.Decimal
		plannedShortfall decimal.Decimal
		freeMoney        decimal.Decimal
		floorMet         bool
	)

	if !remainingAfterCommitments.IsPositive() {
		// Underwater: nothing past commitments gets funded.
		goalAllocations = make([]dto.GoalAllocation, 0, len(goals))
		for _, goal := range goals {
			requested := decimal.Max(decimal.Zero, goal.MonthlyContribution)
			goalAllocations = append(goalAllocations, dto.GoalAllocation{
				GoalID:        goal.ID,
				GoalName:      goal.Name,
				Priority:      goal.Priority,
				Requested:     dto.Money(requested),
				Allocated:     0,
				Shortfall:     dto.Money(requested),
				IsFullyFunded: false,
			})
		}
		plannedShortfall = plannedRequestedTotal
	} else {
		allocatableAfterFloor := decimal.Max(decimal.Zero, remainingAfterCommitments.Sub(freeMoneyFloor))
		budgetForPlanned := decimal.Min(plannedRequestedTotal, allocatableAfterFloor)
		plannedShortfall = decimal.Max(decimal.Zero, plannedRequestedTotal.Sub(budgetForPlanned))

		// Fund rules in load order until the planned budget is exhausted.
		pool := budgetForPlanned
		for i := range plannedExpenses {
			allocated := decimal.Min(plannedExpenses[i].requested, pool)
			pool = pool.Sub(allocated)
			plannedAllocated = plannedAllocated.Add(allocated)
			plannedExpenses[i].item.Allocated = dto.Money(allocated)
			plannedExpenses[i].item.Shortfall = dto.Money(plannedExpenses[i].requested.Sub(allocated))
		}

		goalsBudgetCap := decimal.Max(decimal.Zero, remainingAfterCommitments.Sub(freeMoneyFloor).Sub(plannedAllocated))
		budgetForGoals := decimal.Min(goalRequestedTotal, goalsBudgetCap)
		goalAllocations, allocatedToGoals = allocateGoalsByPriority(goals, budgetForGoals)

		freeMoney = decimal.Max(decimal.Zero, remainingAfterCommitments.Sub(plannedAllocated).Sub(allocatedToGoals))
		floorMet = freeMoney.GreaterThanOrEqual(freeMoneyFloor) || remainingAfterCommitments.LessThanOrEqual(freeMoneyFloor)
	}

	goalShortfall := decimal.Max(decimal.Zero, goalRequestedTotal.Sub(allocatedToGoals))
	commitmentsCovered := salaryConsidered.GreaterThanOrEqual(commitmentsTotal)

	var statusMessage string
	switch {
	case !commitmentsCovered:
		statusMessage = "Salary does not fully cover commitments. Autopilot should require manual approval."
	case plannedShortfall.IsPositive():
		statusMessage = "Commitments are covered. Planned expenses are partially funded."
	case goalShortfall.IsPositive():
		statusMessage = "Commitments are covered. Goals are partially funded by priority."
	case floorMet:
		statusMessage = "Commitments and goals are funded. Free-money floor is protected."
	default:
		statusMessage = "Commitments and goals are funded, but free-money floor is below target."
	}

	warnings := []string{}
	if !commitmentsCovered {
		deficit := commitmentsTotal.Sub(salaryConsidered)
		warnings = append(warnings, fmt.Sprintf("Commitment deficit: %v", dto.Money(deficit)))
	}
	if goalShortfall.IsPositive() {
		warnings = append(warnings, fmt.Sprintf("Goal shortfall: %v", dto.Money(goalShortfall)))
	}
	if plannedShortfall.IsPositive() {
		warnings = append(warnings, fmt.Sprintf("Planned expense shortfall: %v", dto.Money(plannedShortfall)))
	}
	if !floorMet {
		warnings = append(warnings, "Free-money floor not fully met.")
	}

	coverageRatio := 0.0
	if commitmentsTotal.IsPositive() {
		coverageRatio = dto.Money(salaryConsidered.Div(commitmentsTotal))
	}

	plannedItems := make([]dto.PlannedExpenseItem, 0, len(plannedExpenses))
	for _, expense := range plannedExpenses {
		plannedItems = append(plannedItems, expense.item)
	}

	return &dto.SalaryRuleSplitResponse{
		SalaryConsidered: dto.Money(salaryConsidered),
		SalarySource:     salarySource,
		SalaryCandidates: dto.SalaryCandidates{
			FromIncomeTransactions: dto.Money(salaryFromTransactions),
			FromIncomeSources:      dto.Money(salaryFromSources),
		},
		RulesConfig: dto.RulesConfig{
			CommitmentsFirst:                true,
			PlannedExpensesAfterCommitments: true,
			GoalStrategy:                    "priority_desc",
			FreeMoneyMinPercent:             floorPercent,
		},
		Allocation: dto.AllocationSummary{
			Commitments:          dto.Money(decimal.Max(decimal.Zero, commitmentsTotal)),
			PlannedExpenses:      dto.Money(decimal.Max(decimal.Zero, plannedAllocated)),
			Goals:                dto.Money(decimal.Max(decimal.Zero, allocatedToGoals)),
			FreeMoney:            dto.Money(decimal.Max(decimal.Zero, freeMoney)),
			FreeMoneyFloorTarget: dto.Money(decimal.Max(decimal.Zero, freeMoneyFloor)),
			FreeMoneyFloorMet:    floorMet,
		},
		Buckets: dto.AllocationBuckets{
			Commitments:     commitmentItems,
			PlannedExpenses: plannedItems,
			Goals:           goalAllocations,
		},
		Totals: dto.AllocationTotals{
			PlannedExpensesRequested: dto.Money(plannedRequestedTotal),
			PlannedExpensesAllocated: dto.Money(plannedAllocated),
			PlannedExpensesShortfall: dto.Money(plannedShortfall),
			GoalRequested:            dto.Money(goalRequestedTotal),
			GoalAllocated:            dto.Money(allocatedToGoals),
			GoalShortfall:            dto.Money(goalShortfall),
			CommitmentCoverageRatio:  coverageRatio,
		},
		StatusMessage: statusMessage,
		Warnings:      warnings,
	}, nil
}
