package dto

// TimelineEvent is one entry of the merged financial timeline. Amount is
// signed: expenses and future obligations are negative, income positive.
type TimelineEvent struct {
	Date        string         `json:"date"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Amount      float64        `json:"amount"`
	IsAutomatic bool           `json:"is_automatic"`
	IsCompleted bool           `json:"is_completed"`
	Details     map[string]any `json:"details"`
}

// TimelineSummary aggregates the feed for the header widgets.
type TimelineSummary struct {
	UpcomingCommitments float64 `json:"upcoming_commitments"`
	NextSalaryDate      *string `json:"next_salary_date"`
	DaysUntilSalary     *int    `json:"days_until_salary"`
}

// TimelineResponse is the chronological event feed.
type TimelineResponse struct {
	Events  []TimelineEvent `json:"events"`
	Today   string          `json:"today"`
	Summary TimelineSummary `json:"summary"`
}
