package memory

import (
	"context"
	"sync"
	"time"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
)

type CartRepositoryMemory struct {
	mu    sync.RWMutex
	carts map[string]*entities.Cart
	now   func() time.Time
}

func NewCartRepositoryMemory() *CartRepositoryMemory {
	return &CartRepositoryMemory{
		carts: make(map[string]*entities.Cart),
		now:   time.Now,
	}
}

func (r *CartRepositoryMemory) GetByUser(ctx context.Context, userID string) (*entities.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, exists := r.carts[userID]
	if !exists {
		return &entities.Cart{UserID: userID, Lines: []entities.CartLine{}}, nil
	}
	return copyCart(cart), nil
}

func (r *CartRepositoryMemory) Save(ctx context.Context, cart *entities.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.carts[cart.UserID]
	r.carts[cart.UserID] = copyCart(cart)
	onRollback(ctx, func() { r.restore(cart.UserID, previous, existed) })
	return nil
}

// Clear empties the lines but keeps the cart record.
func (r *CartRepositoryMemory) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.carts[userID]
	r.carts[userID] = &entities.Cart{UserID: userID, Lines: []entities.CartLine{}, UpdatedAt: r.now().UTC()}
	onRollback(ctx, func() { r.restore(userID, previous, existed) })
	return nil
}

func (r *CartRepositoryMemory) restore(userID string, previous *entities.Cart, existed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existed {
		r.carts[userID] = previous
	} else {
		delete(r.carts, userID)
	}
}

func copyCart(cart *entities.Cart) *entities.Cart {
	cartCopy := *cart
	cartCopy.Lines = append([]entities.CartLine{}, cart.Lines...)
	return &cartCopy
}

type WishlistRepositoryMemory struct {
	mu        sync.RWMutex
	wishlists map[string][]string
}

func NewWishlistRepositoryMemory() *WishlistRepositoryMemory {
	return &WishlistRepositoryMemory{
		wishlists: make(map[string][]string),
	}
}

func (r *WishlistRepositoryMemory) GetByUser(ctx context.Context, userID string) (*entities.Wishlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &entities.Wishlist{
		UserID:     userID,
		ProductIDs: append([]string{}, r.wishlists[userID]...),
	}, nil
}

func (r *WishlistRepositoryMemory) AddProduct(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := entities.Wishlist{UserID: userID, ProductIDs: r.wishlists[userID]}
	if current.Contains(productID) {
		return nil
	}
	r.wishlists[userID] = append(current.ProductIDs, productID)
	return nil
}

func (r *WishlistRepositoryMemory) RemoveProduct(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.wishlists[userID]
	for i, id := range ids {
		if id == productID {
			r.wishlists[userID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return repositories.ErrWishlistNotFound
}
