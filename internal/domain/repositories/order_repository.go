package repositories

import (
	"context"
	"errors"

	"shop-service/internal/domain/entities"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	ListByUser(ctx context.Context, userID string) ([]*entities.Order, error)
	GetForUser(ctx context.Context, userID, orderID string) (*entities.Order, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*entities.Order, error)
	// Cancel matches id + owner + one of the cancellable statuses in a single
	// predicate and returns the updated order.
	Cancel(ctx context.Context, userID, orderID string, reason entities.CancelReason, description string) (*entities.Order, error)
	// UpdateStatusForSeller matches id + a line attributed to sellerID + not
	// cancelled and returns the updated order.
	UpdateStatusForSeller(ctx context.Context, sellerID, orderID string, status entities.OrderStatus, progress int) (*entities.Order, error)
}

var (
	ErrOrderNotFound        = &RepositoryError{"order not found"}
	ErrOrderAlreadyExists   = &RepositoryError{"order already exists"}
	ErrProductNotFound      = &RepositoryError{"product not found"}
	ErrProductAlreadyExists = &RepositoryError{"product already exists"}
	ErrCartLineNotFound     = &RepositoryError{"product is not in the cart"}
	ErrWishlistNotFound     = &RepositoryError{"product is not in the wishlist"}
)

type RepositoryError struct {
	message string
}

func (e *RepositoryError) Error() string {
	return e.message
}

// IsNotFound reports whether err is one of the not-found repository errors.
func IsNotFound(err error) bool {
	for _, target := range []error{ErrOrderNotFound, ErrProductNotFound, ErrCartLineNotFound, ErrWishlistNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
