package domain

import "time"

// Notification is a fire-and-forget record enqueued for the delivery system.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      string
	Read      bool
	ActionURL *string
	RelatedID *string
	CreatedAt time.Time
}
