package dto

import (
	"time"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
)

// PaymentOrderResponse is the wire representation of a payment order.
type PaymentOrderResponse struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	SourceType        string         `json:"source_type"`
	SourceID          string         `json:"source_id"`
	Title             string         `json:"title"`
	Amount            float64        `json:"amount"`
	Currency          string         `json:"currency"`
	DueOn             string         `json:"due_on"`
	Status            string         `json:"status"`
	ApprovalRequired  bool           `json:"approval_required"`
	Provider          string         `json:"provider"`
	ProviderReference *string        `json:"provider_reference"`
	ProviderActionURL *string        `json:"provider_action_url"`
	FailureReason     *string        `json:"failure_reason"`
	ApprovedAt        *time.Time     `json:"approved_at"`
	ExecutedAt        *time.Time     `json:"executed_at"`
	CancelledAt       *time.Time     `json:"cancelled_at"`
	CategoryID        *string        `json:"category_id"`
	TransactionID     *string        `json:"transaction_id"`
	Meta              map[string]any `json:"meta"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ToPaymentOrderResponse maps a domain order to its wire representation.
func ToPaymentOrderResponse(order *domain.PaymentOrder) PaymentOrderResponse {
	meta := order.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return PaymentOrderResponse{
		ID:                order.ID,
		UserID:            order.UserID,
		SourceType:        string(order.SourceType),
		SourceID:          order.SourceID,
		Title:             order.Title,
		Amount:            Money(order.Amount),
		Currency:          order.Currency,
		DueOn:             order.DueOn.Format(time.DateOnly),
		Status:            string(order.Status),
		ApprovalRequired:  order.ApprovalRequired,
		Provider:          order.Provider,
		ProviderReference: order.ProviderReference,
		ProviderActionURL: order.ProviderActionURL,
		FailureReason:     order.FailureReason,
		ApprovedAt:        order.ApprovedAt,
		ExecutedAt:        order.ExecutedAt,
		CancelledAt:       order.CancelledAt,
		CategoryID:        order.CategoryID,
		TransactionID:     order.TransactionID,
		Meta:              meta,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

// ToPaymentOrderResponses maps a slice of domain orders.
func ToPaymentOrderResponses(orders []domain.PaymentOrder) []PaymentOrderResponse {
	out := make([]PaymentOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPaymentOrderResponse(&orders[i])
	}
	return out
}

// PaymentOrderListResponse wraps a list of orders.
type PaymentOrderListResponse struct {
	Items []PaymentOrderResponse `json:"items"`
}

// PreparePaymentOrdersResponse reports the orders created by a preparation run.
type PreparePaymentOrdersResponse struct {
	CreatedCount int                    `json:"created_count"`
	Items        []PaymentOrderResponse `json:"items"`
}

// ApprovePaymentOrderRequest carries the approve options. An omitted
// execute_now counts as true.
type ApprovePaymentOrderRequest struct {
	ExecuteNow *bool `json:"execute_now"`
}

// CancelPaymentOrderRequest carries the optional cancellation reason.
type CancelPaymentOrderRequest struct {
	Reason *string `json:"reason"`
}

// BatchPrepareResponse summarizes a prepare-for-all-users pass.
type BatchPrepareResponse struct {
	UsersProcessed int `json:"users_processed"`
	OrdersCreated  int `json:"orders_created"`
}

// BatchExecutionResponse summarizes a due-order execution pass.
type BatchExecutionResponse struct {
	Executed int `json:"executed"`
	Failed   int `json:"failed"`
}

// DailyJobResponse summarizes one scheduled autopilot run.
type DailyJobResponse struct {
	UsersProcessed int `json:"users_processed"`
	OrdersCreated  int `json:"orders_created"`
	Executed       int `json:"executed"`
	Failed         int `json:"failed"`
}
