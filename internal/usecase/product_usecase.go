package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
	"shop-service/internal/infrastructure/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductUseCase struct {
	productRepo repositories.ProductRepository
	logger      *logger.Logger
	now         func() time.Time
}

func NewProductUseCase(productRepo repositories.ProductRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, logger: log, now: time.Now}
}

// ProductInput carries the seller editable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    entities.Category
	Subcategory entities.Subcategory
	ImageURL    string
	InStock     bool
}

func (in ProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case in.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case !entities.ValidCategory(in.Category):
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, in.Category)
	case !entities.ValidSubcategory(in.Subcategory):
		return fmt.Errorf("%w: unknown subcategory %q", ErrInvalidProduct, in.Subcategory)
	}
	return nil
}

func (uc *ProductUseCase) List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	if filter.Category != "" && !entities.ValidCategory(filter.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, filter.Category)
	}
	if filter.Subcategory != "" && !entities.ValidSubcategory(filter.Subcategory) {
		return nil, fmt.Errorf("%w: unknown subcategory %q", ErrValidation, filter.Subcategory)
	}

	products, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (uc *ProductUseCase) Get(ctx context.Context, productID string) (*entities.Product, error) {
	if productID == "" {
		return nil, ErrInvalidProductID
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (uc *ProductUseCase) Create(ctx context.Context, identity entities.Identity, input ProductInput) (*entities.Product, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if !identity.IsSeller {
		return nil, ErrSellerOnly
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	product := &entities.Product{
		ID:        uuid.New().String(),
		SellerID:  identity.UserID,
		CreatedAt: now,
	}
	apply(product, input, now)

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	uc.logger.Info("Product created", "product_id", product.ID, "seller_id", product.SellerID)
	return product, nil
}

func (uc *ProductUseCase) Update(ctx context.Context, identity entities.Identity, productID string, input ProductInput) (*entities.Product, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if !identity.IsSeller {
		return nil, ErrSellerOnly
	}
	if productID == "" {
		return nil, ErrInvalidProductID
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &entities.Product{ID: productID, SellerID: identity.UserID}
	apply(product, input, uc.now().UTC())

	if err := uc.productRepo.UpdateForSeller(ctx, identity.UserID, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	updated, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	uc.logger.Info("Product updated", "product_id", productID, "seller_id", identity.UserID)
	return updated, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, identity entities.Identity, productID string) error {
	if !identity.Authenticated() {
		return ErrInvalidUserID
	}
	if !identity.IsSeller {
		return ErrSellerOnly
	}
	if productID == "" {
		return ErrInvalidProductID
	}

	if err := uc.productRepo.DeleteForSeller(ctx, identity.UserID, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	uc.logger.Info("Product deleted", "product_id", productID, "seller_id", identity.UserID)
	return nil
}

func apply(product *entities.Product, input ProductInput, now time.Time) {
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.Category = input.Category
	product.Subcategory = input.Subcategory
	product.ImageURL = input.ImageURL
	product.InStock = input.InStock
	product.UpdatedAt = now
}
