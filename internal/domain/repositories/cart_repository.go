package repositories

import (
	"context"

	"shop-service/internal/domain/entities"
)

type CartRepository interface {
	// GetByUser returns an empty cart when the user has none yet.
	GetByUser(ctx context.Context, userID string) (*entities.Cart, error)
	Save(ctx context.Context, cart *entities.Cart) error
	Clear(ctx context.Context, userID string) error
}

type WishlistRepository interface {
	GetByUser(ctx context.Context, userID string) (*entities.Wishlist, error)
	AddProduct(ctx context.Context, userID, productID string) error
	RemoveProduct(ctx context.Context, userID, productID string) error
}
