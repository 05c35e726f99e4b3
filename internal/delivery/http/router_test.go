package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/domain/entities"
	"shop-service/internal/infrastructure/logger"
	"shop-service/internal/infrastructure/memory"
	"shop-service/internal/security"
	"shop-service/internal/usecase"
)

const (
	testSecret   = "router-test-secret"
	testIssuer   = "shop-auth"
	testAudience = "shop-service"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	issuer *security.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orders := memory.NewOrderRepositoryMemory()
	carts := memory.NewCartRepositoryMemory()
	products := memory.NewProductRepositoryMemory()
	wishlists := memory.NewWishlistRepositoryMemory()
	log := logger.Discard()

	now := time.Now().UTC()
	require.NoError(t, products.Create(context.Background(), &entities.Product{
		ID: "p1", SellerID: "s1", Name: "Linen shirt", Price: decimal.NewFromInt(10), InStock: true,
		Category: entities.CategoryClothing, Subcategory: entities.SubcategoryMen, CreatedAt: now,
	}))
	require.NoError(t, products.Create(context.Background(), &entities.Product{
		ID: "p2", SellerID: "s2", Name: "Cedar", Price: decimal.NewFromInt(5), InStock: true,
		Category: entities.CategoryPerfume, Subcategory: entities.SubcategoryUnisex, CreatedAt: now,
	}))

	timeout := 5 * time.Second
	orderUC := usecase.NewOrderUseCase(orders, carts, products, memory.NewTransactor(),
		memory.NewIdempotencyStore(time.Hour), nil, log)

	router := NewRouter(Handlers{
		Orders:   NewOrderHandler(orderUC, timeout),
		Cart:     NewCartHandler(usecase.NewCartUseCase(carts, products, log), timeout),
		Wishlist: NewWishlistHandler(usecase.NewWishlistUseCase(wishlists, products), timeout),
		Products: NewProductHandler(usecase.NewProductUseCase(products, log), timeout),
	}, security.NewTokenVerifier(testSecret, testIssuer, testAudience), log)

	return &testServer{
		t:      t,
		router: router,
		issuer: security.NewTokenIssuer(testSecret, testIssuer, testAudience, time.Hour),
	}
}

func (s *testServer) token(userID string, seller bool) string {
	tok, err := s.issuer.Issue(entities.Identity{UserID: userID, IsSeller: seller})
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

var testAddress = map[string]any{
	"street": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "62701", "country": "US",
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodGet, "/api/orders", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
	assert.Equal(t, "missing bearer token", body["message"])

	w, _ = s.do(http.MethodGet, "/api/orders", "garbage", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/products", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_OrderLifecycle(t *testing.T) {
	s := newTestServer(t)
	buyer := s.token("alice", false)

	w, cart := s.do(http.MethodPost, "/api/cart", buyer, map[string]any{"productId": "p1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, cart = s.do(http.MethodPost, "/api/cart", buyer, map[string]any{"productId": "p1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := cart["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 2, items[0].(map[string]any)["quantity"])

	w, _ = s.do(http.MethodPost, "/api/cart", buyer, map[string]any{"productId": "p2", "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	idem := map[string]string{IdempotencyKeyHeader: "checkout-1"}
	w, created := s.do(http.MethodPost, "/api/orders", buyer, map[string]any{"deliveryAddress": testAddress}, idem)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := created["order"].(map[string]any)
	orderID := order["_id"].(string)
	assert.EqualValues(t, 25, order["totalAmount"])
	assert.Equal(t, "pending", order["status"])
	assert.EqualValues(t, 25, order["progressStatus"])

	w, dup := s.do(http.MethodPost, "/api/orders", buyer, map[string]any{"deliveryAddress": testAddress}, idem)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, orderID, dup["order"].(map[string]any)["_id"])

	w, cart = s.do(http.MethodGet, "/api/cart", buyer, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cart["items"])

	w, _ = s.do(http.MethodPost, "/api/orders", buyer, map[string]any{"deliveryAddress": testAddress}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	statusPath := "/api/orders/" + orderID + "/seller-status"

	w, _ = s.do(http.MethodPatch, statusPath, s.token("s1", true), map[string]any{"status": "PAID"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPatch, statusPath, s.token("s3", true), map[string]any{"status": "shipped"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPatch, statusPath, buyer, map[string]any{"status": "shipped"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, updated := s.do(http.MethodPatch, statusPath, s.token("s2", true), map[string]any{"status": "shipped"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 75, updated["order"].(map[string]any)["progressStatus"])

	cancelBody := map[string]any{"cancelReason": "changed_mind", "cancelDescription": "no longer needed"}
	w, _ = s.do(http.MethodPost, "/api/orders/"+orderID+"/cancel", buyer, cancelBody, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, details := s.do(http.MethodGet, "/api/orders/"+orderID, buyer, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shipped", details["status"])
	lines := details["products"].([]any)
	require.Len(t, lines, 2)
	assert.Equal(t, "Linen shirt", lines[0].(map[string]any)["product"].(map[string]any)["name"])

	w, _ = s.do(http.MethodGet, "/api/orders/"+orderID, s.token("mallory", false), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CancelOrder(t *testing.T) {
	s := newTestServer(t)
	buyer := s.token("bob", false)

	s.do(http.MethodPost, "/api/cart", buyer, map[string]any{"productId": "p1", "quantity": 3}, nil)
	w, created := s.do(http.MethodPost, "/api/orders", buyer, map[string]any{"deliveryAddress": testAddress}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := created["order"].(map[string]any)["_id"].(string)
	cancelPath := "/api/orders/" + orderID + "/cancel"

	w, _ = s.do(http.MethodPost, cancelPath, buyer, map[string]any{"cancelReason": "bored", "cancelDescription": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, cancelPath, buyer, map[string]any{"cancelReason": "other"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, cancelled := s.do(http.MethodPost, cancelPath, buyer, map[string]any{"cancelReason": "other", "cancelDescription": "moved"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := cancelled["order"].(map[string]any)
	assert.Equal(t, "cancelled", order["status"])
	assert.EqualValues(t, 0, order["progressStatus"])

	w, _ = s.do(http.MethodPatch, "/api/orders/"+orderID+"/seller-status", s.token("s1", true), map[string]any{"status": "processing"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ProductOwnership(t *testing.T) {
	s := newTestServer(t)

	newProduct := map[string]any{
		"name": "Runner", "price": 40, "category": "shoe", "subcategory": "women",
	}

	w, _ := s.do(http.MethodPost, "/api/products", s.token("alice", false), newProduct, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, created := s.do(http.MethodPost, "/api/products", s.token("s1", true), newProduct, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	product := created["product"].(map[string]any)
	assert.Equal(t, "s1", product["seller"])
	assert.Equal(t, true, product["inStock"])
	productID := product["_id"].(string)

	w, _ = s.do(http.MethodPut, "/api/products/"+productID, s.token("s2", true), newProduct, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/products/"+productID, s.token("s2", true), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/products/"+productID, s.token("s1", true), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/products/"+productID, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodGet, "/api/products?category=hats", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Wishlist(t *testing.T) {
	s := newTestServer(t)
	buyer := s.token("carol", false)

	w, _ := s.do(http.MethodPost, "/api/wishlist", buyer, map[string]any{"productId": "missing"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/wishlist", buyer, map[string]any{"productId": "p2"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/wishlist/p2", buyer, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/wishlist/p2", buyer, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MoneyIsExact(t *testing.T) {
	s := newTestServer(t)
	seller := s.token("s3", true)
	buyer := s.token("dave", false)

	for _, price := range []string{"0.1", "0.2"} {
		w, created := s.do(http.MethodPost, "/api/products", seller, map[string]any{
			"name": "Sample " + price, "price": json.Number(price), "category": "perfume", "subcategory": "unisex",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		productID := created["product"].(map[string]any)["_id"].(string)

		w, _ = s.do(http.MethodPost, "/api/cart", buyer, map[string]any{"productId": productID}, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, _ := s.do(http.MethodGet, "/api/cart", buyer, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subtotal":0.3`)

	w, _ = s.do(http.MethodPost, "/api/orders", buyer, map[string]any{"deliveryAddress": testAddress},
		map[string]string{IdempotencyKeyHeader: "exact-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"totalAmount":0.3`)
}
