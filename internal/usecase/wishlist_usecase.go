package usecase

import (
	"context"
	"fmt"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
)

type WishlistUseCase struct {
	wishlistRepo repositories.WishlistRepository
	productRepo  repositories.ProductRepository
}

func NewWishlistUseCase(wishlistRepo repositories.WishlistRepository, productRepo repositories.ProductRepository) *WishlistUseCase {
	return &WishlistUseCase{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// List resolves the wishlist against the catalog, skipping deleted products.
func (uc *WishlistUseCase) List(ctx context.Context, identity entities.Identity) ([]*entities.Product, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}

	wishlist, err := uc.wishlistRepo.GetByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	products, err := uc.productRepo.GetByIDs(ctx, wishlist.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist products: %w", err)
	}

	result := make([]*entities.Product, 0, len(wishlist.ProductIDs))
	for _, id := range wishlist.ProductIDs {
		if product, ok := products[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

func (uc *WishlistUseCase) Add(ctx context.Context, identity entities.Identity, productID string) ([]*entities.Product, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if productID == "" {
		return nil, ErrInvalidProductID
	}

	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if err := uc.wishlistRepo.AddProduct(ctx, identity.UserID, productID); err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return uc.List(ctx, identity)
}

func (uc *WishlistUseCase) Remove(ctx context.Context, identity entities.Identity, productID string) ([]*entities.Product, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if productID == "" {
		return nil, ErrInvalidProductID
	}

	if err := uc.wishlistRepo.RemoveProduct(ctx, identity.UserID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return uc.List(ctx, identity)
}
