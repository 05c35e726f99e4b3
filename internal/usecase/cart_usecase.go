package usecase

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
	"shop-service/internal/infrastructure/logger"

	"github.com/shopspring/decimal"
)

type CartUseCase struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	logger      *logger.Logger
	now         func() time.Time
}

func NewCartUseCase(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, log *logger.Logger) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      log,
		now:         time.Now,
	}
}

type CartItemView struct {
	Product  *entities.Product
	Quantity int
}

// CartView only holds lines whose product still exists.
type CartView struct {
	UserID    string
	Items     []CartItemView
	Subtotal  decimal.Decimal
	UpdatedAt time.Time
}

func (uc *CartUseCase) GetCart(ctx context.Context, identity entities.Identity) (*CartView, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}

	cart, err := uc.cartRepo.GetByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return uc.view(ctx, cart)
}

func (uc *CartUseCase) AddItem(ctx context.Context, identity entities.Identity, productID string, quantity int) (*CartView, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if productID == "" {
		return nil, ErrInvalidProductID
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !product.InStock {
		return nil, ErrOutOfStock
	}

	return uc.mutate(ctx, identity.UserID, func(cart *entities.Cart) error {
		cart.Add(productID, quantity)
		return nil
	})
}

func (uc *CartUseCase) UpdateItem(ctx context.Context, identity entities.Identity, productID string, quantity int) (*CartView, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if productID == "" {
		return nil, ErrInvalidProductID
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	return uc.mutate(ctx, identity.UserID, func(cart *entities.Cart) error {
		if !cart.Set(productID, quantity) {
			return repositories.ErrCartLineNotFound
		}
		return nil
	})
}

func (uc *CartUseCase) RemoveItem(ctx context.Context, identity entities.Identity, productID string) (*CartView, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}
	if productID == "" {
		return nil, ErrInvalidProductID
	}

	return uc.mutate(ctx, identity.UserID, func(cart *entities.Cart) error {
		if !cart.Remove(productID) {
			return repositories.ErrCartLineNotFound
		}
		return nil
	})
}

func (uc *CartUseCase) Clear(ctx context.Context, identity entities.Identity) (*CartView, error) {
	if !identity.Authenticated() {
		return nil, ErrInvalidUserID
	}

	if err := uc.cartRepo.Clear(ctx, identity.UserID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	return &CartView{UserID: identity.UserID, Items: []CartItemView{}, UpdatedAt: uc.now().UTC()}, nil
}

func (uc *CartUseCase) mutate(ctx context.Context, userID string, change func(cart *entities.Cart) error) (*CartView, error) {
	cart, err := uc.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if err := change(cart); err != nil {
		return nil, err
	}

	cart.UserID = userID
	cart.UpdatedAt = uc.now().UTC()
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	uc.logger.Debug("Cart updated", "user_id", userID, "lines", len(cart.Lines))
	return uc.view(ctx, cart)
}

func (uc *CartUseCase) view(ctx context.Context, cart *entities.Cart) (*CartView, error) {
	products, err := uc.productRepo.GetByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	view := &CartView{
		UserID:    cart.UserID,
		Items:     make([]CartItemView, 0, len(cart.Lines)),
		Subtotal:  decimal.Zero,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, line := range cart.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		view.Items = append(view.Items, CartItemView{Product: product, Quantity: line.Quantity})
		view.Subtotal = view.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return view, nil
}
