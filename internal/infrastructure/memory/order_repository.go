package memory

import (
	"context"
	"sync"
	"time"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
)

type OrderRepositoryMemory struct {
	mu     sync.RWMutex
	orders map[string]*entities.Order
	now    func() time.Time
}

func NewOrderRepositoryMemory() *OrderRepositoryMemory {
	return &OrderRepositoryMemory{
		orders: make(map[string]*entities.Order),
		now:    time.Now,
	}
}

func (r *OrderRepositoryMemory) Create(ctx context.Context, order *entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return repositories.ErrOrderAlreadyExists
	}
	if order.IdempotencyKey != "" {
		for _, existing := range r.orders {
			if existing.UserID == order.UserID && existing.IdempotencyKey == order.IdempotencyKey {
				return repositories.ErrOrderAlreadyExists
			}
		}
	}

	r.orders[order.ID] = copyOrder(order)
	onRollback(ctx, func() {
		r.mu.Lock()
		delete(r.orders, order.ID)
		r.mu.Unlock()
	})
	return nil
}

func (r *OrderRepositoryMemory) ListByUser(ctx context.Context, userID string) ([]*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, copyOrder(order))
		}
	}
	return result, nil
}

func (r *OrderRepositoryMemory) GetForUser(ctx context.Context, userID, orderID string) (*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[orderID]
	if !exists || order.UserID != userID {
		return nil, repositories.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (r *OrderRepositoryMemory) GetByIdempotencyKey(ctx context.Context, userID, key string) (*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.UserID == userID && order.IdempotencyKey == key {
			return copyOrder(order), nil
		}
	}
	return nil, repositories.ErrOrderNotFound
}

func (r *OrderRepositoryMemory) Cancel(ctx context.Context, userID, orderID string, reason entities.CancelReason, description string) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[orderID]
	if !exists || order.UserID != userID || !order.Cancellable() {
		return nil, repositories.ErrOrderNotFound
	}

	order.Status = entities.StatusCancelled
	order.ProgressStatus, _ = entities.Progress(entities.StatusCancelled)
	order.CancelReason = reason
	order.CancelDescription = description
	order.UpdatedAt = r.now().UTC()
	return copyOrder(order), nil
}

func (r *OrderRepositoryMemory) UpdateStatusForSeller(ctx context.Context, sellerID, orderID string, status entities.OrderStatus, progress int) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[orderID]
	if !exists || order.Status == entities.StatusCancelled || !order.AttributedTo(sellerID) {
		return nil, repositories.ErrOrderNotFound
	}

	order.Status = status
	order.ProgressStatus = progress
	order.UpdatedAt = r.now().UTC()
	return copyOrder(order), nil
}

func copyOrder(order *entities.Order) *entities.Order {
	orderCopy := *order
	orderCopy.Lines = append([]entities.OrderLine(nil), order.Lines...)
	return &orderCopy
}
