package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(id, userID, sellerID string) *entities.Order {
	lines := []entities.OrderLine{{ProductID: "p1", SellerID: sellerID, Quantity: 1, Price: decimal.NewFromInt(10)}}
	return entities.NewOrder(id, userID, lines, entities.DeliveryAddress{}, time.Now().UTC())
}

func TestOrderRepositoryMemory_OwnershipPredicate(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestOrder("o1", "alice", "s1")))
	assert.ErrorIs(t, repo.Create(ctx, newTestOrder("o1", "alice", "s1")), repositories.ErrOrderAlreadyExists)

	_, err := repo.GetForUser(ctx, "bob", "o1")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	got, err := repo.GetForUser(ctx, "alice", "o1")
	require.NoError(t, err)
	got.Lines[0].Price = decimal.NewFromInt(999)

	again, _ := repo.GetForUser(ctx, "alice", "o1")
	assert.Equal(t, "10", again.Lines[0].Price.String())
}

func TestOrderRepositoryMemory_Cancel(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTestOrder("o1", "alice", "s1")))

	_, err := repo.Cancel(ctx, "bob", "o1", entities.ReasonOther, "x")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	order, err := repo.Cancel(ctx, "alice", "o1", entities.ReasonOther, "x")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCancelled, order.Status)
	assert.Equal(t, 0, order.ProgressStatus)
	assert.Equal(t, "x", order.CancelDescription)

	_, err = repo.Cancel(ctx, "alice", "o1", entities.ReasonOther, "again")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestOrderRepositoryMemory_CancelByStatus(t *testing.T) {
	tests := []struct {
		status  entities.OrderStatus
		wantErr error
	}{
		{status: entities.StatusPending},
		{status: entities.StatusProcessing},
		{status: entities.StatusShipped, wantErr: repositories.ErrOrderNotFound},
		{status: entities.StatusDelivered, wantErr: repositories.ErrOrderNotFound},
		{status: entities.StatusSuccess, wantErr: repositories.ErrOrderNotFound},
		{status: entities.StatusCancelled, wantErr: repositories.ErrOrderNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			repo := NewOrderRepositoryMemory()
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, newTestOrder("o1", "alice", "s1")))

			switch tt.status {
			case entities.StatusPending:
			case entities.StatusCancelled:
				_, err := repo.Cancel(ctx, "alice", "o1", entities.ReasonChangedMind, "first")
				require.NoError(t, err)
			default:
				progress, _ := entities.Progress(tt.status)
				_, err := repo.UpdateStatusForSeller(ctx, "s1", "o1", tt.status, progress)
				require.NoError(t, err)
			}

			order, err := repo.Cancel(ctx, "alice", "o1", entities.ReasonOther, "second")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				stored, err := repo.GetForUser(ctx, "alice", "o1")
				require.NoError(t, err)
				assert.Equal(t, tt.status, stored.Status)
				assert.NotEqual(t, "second", stored.CancelDescription)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, entities.StatusCancelled, order.Status)
			assert.Equal(t, 0, order.ProgressStatus)
			assert.Equal(t, entities.ReasonOther, order.CancelReason)
			assert.Equal(t, "second", order.CancelDescription)
		})
	}
}

func TestOrderRepositoryMemory_UpdateStatusForSeller(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTestOrder("o1", "alice", "s1")))

	_, err := repo.UpdateStatusForSeller(ctx, "s2", "o1", entities.StatusShipped, 75)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	order, err := repo.UpdateStatusForSeller(ctx, "s1", "o1", entities.StatusShipped, 75)
	require.NoError(t, err)
	assert.Equal(t, 75, order.ProgressStatus)

	// Buyer can no longer cancel once shipped.
	_, err = repo.Cancel(ctx, "alice", "o1", entities.ReasonOther, "x")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	// Back to processing, then cancelled, then the seller is locked out.
	_, err = repo.UpdateStatusForSeller(ctx, "s1", "o1", entities.StatusProcessing, 50)
	require.NoError(t, err)
	_, err = repo.Cancel(ctx, "alice", "o1", entities.ReasonOther, "x")
	require.NoError(t, err)
	_, err = repo.UpdateStatusForSeller(ctx, "s1", "o1", entities.StatusDelivered, 100)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestOrderRepositoryMemory_IdempotencyKeyUnique(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()

	first := newTestOrder("o1", "alice", "s1")
	first.IdempotencyKey = "k"
	require.NoError(t, repo.Create(ctx, first))

	second := newTestOrder("o2", "alice", "s1")
	second.IdempotencyKey = "k"
	assert.ErrorIs(t, repo.Create(ctx, second), repositories.ErrOrderAlreadyExists)

	other := newTestOrder("o3", "bob", "s1")
	other.IdempotencyKey = "k"
	assert.NoError(t, repo.Create(ctx, other))

	found, err := repo.GetByIdempotencyKey(ctx, "alice", "k")
	require.NoError(t, err)
	assert.Equal(t, "o1", found.ID)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	orders := NewOrderRepositoryMemory()
	carts := NewCartRepositoryMemory()
	tx := NewTransactor()
	ctx := context.Background()

	cart := &entities.Cart{UserID: "alice", Lines: []entities.CartLine{{ProductID: "p1", Quantity: 2}}}
	require.NoError(t, carts.Save(ctx, cart))

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := orders.Create(txCtx, newTestOrder("o1", "alice", "s1")); err != nil {
			return err
		}
		if err := carts.Clear(txCtx, "alice"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = orders.GetForUser(ctx, "alice", "o1")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	restored, err := carts.GetByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, restored.Lines, 1)
}

func TestTransactor_Commit(t *testing.T) {
	orders := NewOrderRepositoryMemory()
	carts := NewCartRepositoryMemory()
	tx := NewTransactor()
	ctx := context.Background()

	require.NoError(t, carts.Save(ctx, &entities.Cart{UserID: "alice", Lines: []entities.CartLine{{ProductID: "p1", Quantity: 1}}}))

	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := orders.Create(txCtx, newTestOrder("o1", "alice", "s1")); err != nil {
			return err
		}
		return carts.Clear(txCtx, "alice")
	})
	require.NoError(t, err)

	cart, _ := carts.GetByUser(ctx, "alice")
	assert.True(t, cart.Empty())
	_, err = orders.GetForUser(ctx, "alice", "o1")
	assert.NoError(t, err)
}

func TestProductRepositoryMemory(t *testing.T) {
	repo := NewProductRepositoryMemory()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Product{ID: "p1", SellerID: "s1", Name: "Tee", Category: entities.CategoryClothing, Subcategory: entities.SubcategoryMen}))
	require.NoError(t, repo.Create(ctx, &entities.Product{ID: "p2", SellerID: "s2", Name: "Scent", Category: entities.CategoryPerfume, Subcategory: entities.SubcategoryWomen}))

	found, err := repo.GetByIDs(ctx, []string{"p1", "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	list, err := repo.List(ctx, entities.ProductFilter{Category: entities.CategoryPerfume})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ID)

	assert.ErrorIs(t, repo.UpdateForSeller(ctx, "s2", &entities.Product{ID: "p1", Name: "Stolen"}), repositories.ErrProductNotFound)
	assert.ErrorIs(t, repo.DeleteForSeller(ctx, "s2", "p1"), repositories.ErrProductNotFound)
	require.NoError(t, repo.DeleteForSeller(ctx, "s1", "p1"))

	_, err = repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestWishlistRepositoryMemory(t *testing.T) {
	repo := NewWishlistRepositoryMemory()
	ctx := context.Background()

	require.NoError(t, repo.AddProduct(ctx, "alice", "p1"))
	require.NoError(t, repo.AddProduct(ctx, "alice", "p1"))
	require.NoError(t, repo.AddProduct(ctx, "alice", "p2"))

	wl, err := repo.GetByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, wl.ProductIDs)

	require.NoError(t, repo.RemoveProduct(ctx, "alice", "p1"))
	assert.ErrorIs(t, repo.RemoveProduct(ctx, "alice", "p1"), repositories.ErrWishlistNotFound)
}

func TestIdempotencyStore(t *testing.T) {
	store := NewIdempotencyStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := store.TryLock(ctx, "alice", "k")
	assert.True(t, ok)
	ok, _ = store.TryLock(ctx, "alice", "k")
	assert.False(t, ok)

	_, found, _ := store.Recall(ctx, "alice", "k")
	assert.False(t, found)

	require.NoError(t, store.Remember(ctx, "alice", "k", "o1"))
	require.NoError(t, store.Release(ctx, "alice", "k"))
	id, found, _ := store.Recall(ctx, "alice", "k")
	assert.True(t, found)
	assert.Equal(t, "o1", id)

	now = now.Add(2 * time.Minute)
	_, found, _ = store.Recall(ctx, "alice", "k")
	assert.False(t, found)
	ok, _ = store.TryLock(ctx, "alice", "k")
	assert.True(t, ok)
}
