package dto

// SalaryCandidates exposes both income figures the resolver chose between.
type SalaryCandidates struct {
	FromIncomeTransactions float64 `json:"from_income_transactions"`
	FromIncomeSources      float64 `json:"from_income_sources"`
}

// RulesConfig echoes the allocation rules in force for the split.
type RulesConfig struct {
	CommitmentsFirst                bool    `json:"commitments_first"`
	PlannedExpensesAfterCommitments bool    `json:"planned_expenses_after_commitments"`
	GoalStrategy                    string  `json:"goal_strategy"`
	FreeMoneyMinPercent             float64 `json:"free_money_min_percent"`
}

// AllocationSummary carries the per-bucket totals of the split.
type AllocationSummary struct {
	Commitments          float64 `json:"commitments"`
	PlannedExpenses      float64 `json:"planned_expenses"`
	Goals                float64 `json:"goals"`
	FreeMoney            float64 `json:"free_money"`
	FreeMoneyFloorTarget float64 `json:"free_money_floor_target"`
	FreeMoneyFloorMet    bool    `json:"free_money_floor_met"`
}

// CommitmentItem is one bill or subscription inside the commitments bucket.
type CommitmentItem struct {
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	Amount   float64        `json:"amount"`
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata"`
}

// PlannedExpenseItem is one budget rule inside the planned-expenses bucket.
type PlannedExpenseItem struct {
	RuleID       string  `json:"rule_id"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Requested    float64 `json:"requested"`
	Allocated    float64 `json:"allocated"`
	Shortfall    float64 `json:"shortfall"`
}

// GoalAllocation is one goal's funding result, in priority order.
type GoalAllocation struct {
	GoalID        string  `json:"goal_id"`
	GoalName      string  `json:"goal_name"`
	Priority      int     `json:"priority"`
	Requested     float64 `json:"requested"`
	Allocated     float64 `json:"allocated"`
	Shortfall     float64 `json:"shortfall"`
	IsFullyFunded bool    `json:"is_fully_funded"`
}

// AllocationBuckets itemizes every bucket of the split.
type AllocationBuckets struct {
	Commitments     []CommitmentItem     `json:"commitments"`
	PlannedExpenses []PlannedExpenseItem `json:"planned_expenses"`
	Goals           []GoalAllocation     `json:"goals"`
}

// AllocationTotals carries requested/allocated/shortfall aggregates.
type AllocationTotals struct {
	PlannedExpensesRequested float64 `json:"planned_expenses_requested"`
	PlannedExpensesAllocated float64 `json:"planned_expenses_allocated"`
	PlannedExpensesShortfall float64 `json:"planned_expenses_shortfall"`
	GoalRequested            float64 `json:"goal_requested"`
	GoalAllocated            float64 `json:"goal_allocated"`
	GoalShortfall            float64 `json:"goal_shortfall"`
	CommitmentCoverageRatio  float64 `json:"commitment_coverage_ratio"`
}

// SalaryRuleSplitResponse is the full output of the salary allocation engine.
type SalaryRuleSplitResponse struct {
	SalaryConsidered float64           `json:"salary_considered"`
	SalarySource     string            `json:"salary_source"`
	SalaryCandidates SalaryCandidates  `json:"salary_candidates"`
	RulesConfig      RulesConfig       `json:"rules_config"`
	Allocation       AllocationSummary `json:"allocation"`
	Buckets          AllocationBuckets `json:"buckets"`
	Totals           AllocationTotals  `json:"totals"`
	StatusMessage    string            `json:"status_message"`
	Warnings         []string          `json:"warnings"`
}
