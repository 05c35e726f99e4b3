package usecase

import (
	"context"
	"time"

	"shop-service/internal/domain/entities"

	"github.com/shopspring/decimal"
)

type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close()
}

// IdempotencyStore guards createOrder against resubmission. Scope is the user
// id, key is the client supplied Idempotency-Key.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, orderID string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Type           string               `json:"type"`
	OrderID        string               `json:"orderId"`
	UserID         string               `json:"userId"`
	Status         entities.OrderStatus `json:"status"`
	ProgressStatus int                  `json:"progressStatus"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	OccurredAt     time.Time            `json:"occurredAt"`
}

func newOrderEvent(eventType string, order *entities.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:           eventType,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         order.Status,
		ProgressStatus: order.ProgressStatus,
		TotalAmount:    order.TotalAmount,
		OccurredAt:     at,
	}
}
