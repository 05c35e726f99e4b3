package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
	"shop-service/internal/infrastructure/logger"
	"shop-service/internal/metrics"

	"github.com/google/uuid"
)

const releaseTimeout = 3 * time.Second

type OrderUseCase struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	tx          repositories.Transactor
	idem        IdempotencyStore
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewOrderUseCase(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	tx repositories.Transactor,
	idem IdempotencyStore,
	publisher EventPublisher,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		tx:          tx,
		idem:        idem,
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

// OrderView is an order plus the live catalog entries its lines point to.
// Lines whose product was deleted have no entry in Products.
type OrderView struct {
	Order    *entities.Order
	Products map[string]*entities.Product
}

func (uc *OrderUseCase) CreateOrder(ctx context.Context, identity entities.Identity, address entities.DeliveryAddress, idempotencyKey string) (*entities.Order, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if missing := address.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidAddress, strings.Join(missing, ", "))
	}

	userID := identity.UserID
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" {
		if err := uc.claimSubmission(ctx, userID, idempotencyKey); err != nil {
			return nil, err
		}
	}

	order, err := uc.placeOrder(ctx, userID, address, idempotencyKey)
	if err != nil {
		if idempotencyKey != "" {
			uc.releaseSubmission(ctx, userID, idempotencyKey)
		}
		return nil, err
	}

	if idempotencyKey != "" {
		if err := uc.idem.Remember(ctx, userID, idempotencyKey, order.ID); err != nil {
			uc.logger.Warn("Failed to remember idempotency key", "order_id", order.ID, "error", err)
		}
	}

	metrics.OrdersCreated.Inc()
	uc.logger.Info("Order created",
		"order_id", order.ID,
		"user_id", userID,
		"lines", len(order.Lines),
		"total_amount", order.TotalAmount.String())

	uc.publishAsync(newOrderEvent(EventOrderCreated, order, order.OrderDate))

	return order, nil
}

// claimSubmission rejects keys that already produced an order or that are
// currently being processed by another request.
func (uc *OrderUseCase) claimSubmission(ctx context.Context, userID, key string) error {
	orderID, ok, err := uc.idem.Recall(ctx, userID, key)
	if err != nil {
		return fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if ok {
		if existing, err := uc.orderRepo.GetForUser(ctx, userID, orderID); err == nil {
			metrics.DuplicateSubmissions.Inc()
			return &DuplicateOrderError{Order: existing}
		}
	}

	existing, err := uc.orderRepo.GetByIdempotencyKey(ctx, userID, key)
	switch {
	case err == nil:
		metrics.DuplicateSubmissions.Inc()
		return &DuplicateOrderError{Order: existing}
	case !errors.Is(err, repositories.ErrOrderNotFound):
		return fmt.Errorf("failed to check idempotency key: %w", err)
	}

	locked, err := uc.idem.TryLock(ctx, userID, key)
	if err != nil {
		return fmt.Errorf("failed to lock idempotency key: %w", err)
	}
	if !locked {
		metrics.DuplicateSubmissions.Inc()
		return ErrSubmissionInProgress
	}
	return nil
}

// releaseSubmission frees the key for a retry. It runs detached from the
// request context, which is usually what just expired.
func (uc *OrderUseCase) releaseSubmission(ctx context.Context, userID, key string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := uc.idem.Release(releaseCtx, userID, key); err != nil {
		uc.logger.Warn("Failed to release idempotency key", "user_id", userID, "error", err)
	}
}

func (uc *OrderUseCase) placeOrder(ctx context.Context, userID string, address entities.DeliveryAddress, idempotencyKey string) (*entities.Order, error) {
	cart, err := uc.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.Empty() {
		return nil, ErrEmptyCart
	}

	products, err := uc.productRepo.GetByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	lines := make([]entities.OrderLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			uc.logger.Debug("Dropping cart line with missing product", "user_id", userID, "product_id", line.ProductID)
			continue
		}
		lines = append(lines, entities.OrderLine{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := entities.NewOrder(uuid.New().String(), userID, lines, address, uc.now().UTC())
	order.IdempotencyKey = idempotencyKey

	err = uc.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := uc.cartRepo.Clear(txCtx, userID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (uc *OrderUseCase) GetUserOrders(ctx context.Context, identity entities.Identity) ([]OrderView, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}

	orders, err := uc.orderRepo.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})

	var ids []string
	for _, order := range orders {
		ids = append(ids, order.ProductIDs()...)
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load order products: %w", err)
	}

	views := make([]OrderView, len(orders))
	for i, order := range orders {
		views[i] = OrderView{Order: order, Products: products}
	}
	return views, nil
}

func (uc *OrderUseCase) GetOrderDetails(ctx context.Context, identity entities.Identity, orderID string) (*OrderView, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	order, err := uc.orderRepo.GetForUser(ctx, identity.UserID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	products, err := uc.productRepo.GetByIDs(ctx, order.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load order products: %w", err)
	}

	return &OrderView{Order: order, Products: products}, nil
}

func (uc *OrderUseCase) CancelOrder(ctx context.Context, identity entities.Identity, orderID string, reason entities.CancelReason, description string) (*entities.Order, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	description = strings.TrimSpace(description)
	if reason == "" || description == "" {
		return nil, ErrMissingCancelDetails
	}
	if !entities.ValidCancelReason(reason) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCancelReason, reason)
	}

	order, err := uc.orderRepo.Cancel(ctx, identity.UserID, orderID, reason, description)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	metrics.OrdersCancelled.WithLabelValues(string(reason)).Inc()
	uc.logger.Info("Order cancelled", "order_id", order.ID, "user_id", order.UserID, "reason", reason)
	uc.publishAsync(newOrderEvent(EventOrderCancelled, order, uc.now().UTC()))

	return order, nil
}

func (uc *OrderUseCase) UpdateOrderStatusAsSeller(ctx context.Context, identity entities.Identity, orderID string, status entities.OrderStatus) (*entities.Order, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if !identity.IsSeller {
		return nil, ErrSellerOnly
	}
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if !entities.SellerSettable(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	progress, _ := entities.Progress(status)

	order, err := uc.orderRepo.UpdateStatusForSeller(ctx, identity.UserID, orderID, status, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	metrics.OrderStatusUpdates.WithLabelValues(string(status)).Inc()
	uc.logger.Info("Order status updated by seller",
		"order_id", order.ID,
		"seller_id", identity.UserID,
		"status", status,
		"progress", progress)
	uc.publishAsync(newOrderEvent(EventOrderStatusChanged, order, uc.now().UTC()))

	return order, nil
}

func (uc *OrderUseCase) publishAsync(event OrderEvent) {
	if uc.publisher == nil {
		return
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := uc.publisher.Publish(pubCtx, event); err != nil {
			metrics.EventPublishFailures.WithLabelValues(event.Type).Inc()
			uc.logger.Warn("Failed to publish order event", "type", event.Type, "order_id", event.OrderID, "error", err)
		}
	}()
}
