package dto

// SafeToSpendBreakdown itemizes the monthly free-budget computation.
type SafeToSpendBreakdown struct {
	UnpaidBills            float64 `json:"unpaid_bills"`
	Subscriptions          float64 `json:"subscriptions"`
	SavingsGoals           float64 `json:"savings_goals"`
	IncomeFromTransactions float64 `json:"income_from_transactions"`
	IncomeFromSources      float64 `json:"income_from_sources"`
}

// SafeToSpendResponse is the monthly discretionary-budget projection.
type SafeToSpendResponse struct {
	TotalIncome         float64              `json:"total_income"`
	TotalCommitted      float64              `json:"total_committed"`
	TotalSpentMonth     float64              `json:"total_spent_month"`
	UpcomingCommitments float64              `json:"upcoming_commitments"`
	MonthlyFreeBudget   float64              `json:"monthly_free_budget"`
	SafeToSpend         float64              `json:"safe_to_spend"`
	IncomeBasis         string               `json:"income_basis"`
	Breakdown           SafeToSpendBreakdown `json:"breakdown"`
}

// DailyBreakdown itemizes the daily limit computation.
type DailyBreakdown struct {
	IncomeToday      float64 `json:"income_today"`
	CommittedToday   float64 `json:"committed_today"`
	SpentToday       float64 `json:"spent_today"`
	RemainingToday   float64 `json:"remaining_today"`
	MonthlyIncome    float64 `json:"monthly_income"`
	MonthlyCommitted float64 `json:"monthly_committed"`
	SpentThisMonth   float64 `json:"spent_this_month"`
	RemainingBudget  float64 `json:"remaining_budget"`
}

// DailySafeToSpendResponse drives the daily spending orb.
type DailySafeToSpendResponse struct {
	DailyLimit       float64        `json:"daily_limit"`
	DaysLeftInMonth  int            `json:"days_left_in_month"`
	MonthlySafeTotal float64        `json:"monthly_safe_total"`
	Percentage       float64        `json:"percentage"`
	ColorState       string         `json:"color_state"`
	StatusMessage    string         `json:"status_message"`
	Breakdown        DailyBreakdown `json:"breakdown"`
}
