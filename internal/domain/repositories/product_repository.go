package repositories

import (
	"context"

	"shop-service/internal/domain/entities"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, productID string) (*entities.Product, error)
	// GetByIDs skips ids that do not resolve.
	GetByIDs(ctx context.Context, productIDs []string) (map[string]*entities.Product, error)
	List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error)
	UpdateForSeller(ctx context.Context, sellerID string, product *entities.Product) error
	DeleteForSeller(ctx context.Context, sellerID, productID string) error
}
