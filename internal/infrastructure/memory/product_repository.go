package memory

import (
	"context"
	"sort"
	"sync"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
)

type ProductRepositoryMemory struct {
	mu       sync.RWMutex
	products map[string]*entities.Product
}

func NewProductRepositoryMemory() *ProductRepositoryMemory {
	return &ProductRepositoryMemory{
		products: make(map[string]*entities.Product),
	}
}

func (r *ProductRepositoryMemory) Create(ctx context.Context, product *entities.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		return repositories.ErrProductAlreadyExists
	}

	productCopy := *product
	r.products[product.ID] = &productCopy
	return nil
}

func (r *ProductRepositoryMemory) GetByID(ctx context.Context, productID string) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[productID]
	if !exists {
		return nil, repositories.ErrProductNotFound
	}

	productCopy := *product
	return &productCopy, nil
}

func (r *ProductRepositoryMemory) GetByIDs(ctx context.Context, productIDs []string) (map[string]*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*entities.Product, len(productIDs))
	for _, id := range productIDs {
		if product, exists := r.products[id]; exists {
			productCopy := *product
			result[id] = &productCopy
		}
	}
	return result, nil
}

func (r *ProductRepositoryMemory) List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Product, 0, len(r.products))
	for _, product := range r.products {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if filter.Subcategory != "" && product.Subcategory != filter.Subcategory {
			continue
		}
		if filter.SellerID != "" && product.SellerID != filter.SellerID {
			continue
		}
		productCopy := *product
		result = append(result, &productCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ProductRepositoryMemory) UpdateForSeller(ctx context.Context, sellerID string, product *entities.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.products[product.ID]
	if !exists || existing.SellerID != sellerID {
		return repositories.ErrProductNotFound
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.Category = product.Category
	existing.Subcategory = product.Subcategory
	existing.ImageURL = product.ImageURL
	existing.InStock = product.InStock
	existing.UpdatedAt = product.UpdatedAt
	return nil
}

func (r *ProductRepositoryMemory) DeleteForSeller(ctx context.Context, sellerID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.products[productID]
	if !exists || existing.SellerID != sellerID {
		return repositories.ErrProductNotFound
	}

	delete(r.products, productID)
	return nil
}
