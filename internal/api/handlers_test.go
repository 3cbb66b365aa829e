package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-storefront/internal/auth"
	"github.com/example/ec-storefront/internal/command"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/infrastructure/store/mocks"
	"github.com/example/ec-storefront/internal/payment"
)

type stubBroker struct {
	url string
}

func (b *stubBroker) CreateSession(ctx context.Context, lines []payment.CheckoutLine, successURL, cancelURL string) (string, error) {
	return b.url, nil
}

type apiFixture struct {
	router http.Handler
	store  *mocks.MockStore
	jwt    *auth.JWTService
}

func newAPIFixture() *apiFixture {
	st := mocks.NewMockStore()
	jwtService := auth.NewJWTService("test-secret-key", 15*time.Minute)
	cmdHandler := command.NewHandler(st, st, st, &stubBroker{url: "https://checkout.example.com/c/cs_test_123"}, nil, 40)
	router := NewRouter(RouterConfig{
		Handlers:   NewHandlers(cmdHandler),
		JWTService: jwtService,
	})
	return &apiFixture{router: router, store: st, jwt: jwtService}
}

func (f *apiFixture) tokenFor(userID, role string) string {
	token, _, _ := f.jwt.GenerateAccessToken(userID, userID+"@example.com", role)
	return token
}

func (f *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) seedShopper(userID string) {
	f.store.SeedUser(&store.User{ID: userID, Name: "Asha Rao", Email: userID + "@example.com"})
	f.store.SeedProduct(&store.Product{ID: "P1", Name: "Plain Tee", Price: 25})
}

func shippingAddress() map[string]string {
	return map[string]string{
		"first_name": "Asha",
		"last_name":  "Rao",
		"email":      "asha@example.com",
		"street":     "12 MG Road",
		"city":       "Bengaluru",
		"state":      "Karnataka",
		"zipcode":    "560001",
		"country":    "India",
		"phone":      "+91-9876543210",
	}
}

// ============================================
// Auth Tests
// ============================================

func TestAPI_MissingToken(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(http.MethodGet, "/cart", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_AdminEndpointForbiddenForCustomer(t *testing.T) {
	f := newAPIFixture()
	token := f.tokenFor("user-1", "customer")

	rec := f.do(http.MethodGet, "/admin/orders", token, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ============================================
// Cart Tests
// ============================================

func TestAPI_AddToCartAndGetCart(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	token := f.tokenFor("user-1", "customer")

	rec := f.do(http.MethodPost, "/cart/items", token, map[string]string{
		"product_id": "P1", "size": "M",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Cart map[string]map[string]int `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Cart["P1"]["M"])
}

func TestAPI_UpdateCartRequiresQuantity(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	token := f.tokenFor("user-1", "customer")

	rec := f.do(http.MethodPut, "/cart/items", token, map[string]string{
		"product_id": "P1", "size": "M",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_AddToCartWithoutSize(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	token := f.tokenFor("user-1", "customer")

	rec := f.do(http.MethodPost, "/cart/items", token, map[string]string{
		"product_id": "P1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================
// Order Tests
// ============================================

func TestAPI_PlaceOrderCOD(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	token := f.tokenFor("user-1", "customer")

	rec := f.do(http.MethodPost, "/cart/items", token, map[string]string{"product_id": "P1", "size": "M"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/orders", token, map[string]any{
		"address":        shippingAddress(),
		"payment_method": "cod",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order order.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 25+40, resp.Order.Amount)
	assert.Equal(t, order.StatusPlaced, resp.Order.Status)

	// Checkout emptied the cart
	rec = f.do(http.MethodGet, "/cart", token, nil)
	var cartResp struct {
		Cart map[string]map[string]int `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartResp))
	assert.Empty(t, cartResp.Cart)
}

func TestAPI_PlaceOrderEmptyCart(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	token := f.tokenFor("user-1", "customer")

	rec := f.do(http.MethodPost, "/orders", token, map[string]any{
		"address":        shippingAddress(),
		"payment_method": "cod",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_PlaceOrderUnknownMethod(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	token := f.tokenFor("user-1", "customer")

	rec := f.do(http.MethodPost, "/orders", token, map[string]any{
		"address":        shippingAddress(),
		"payment_method": "barter",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_PlaceOrderStripeReturnsSessionURL(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	token := f.tokenFor("user-1", "customer")

	rec := f.do(http.MethodPost, "/cart/items", token, map[string]string{"product_id": "P1", "size": "M"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/orders", token, map[string]any{
		"address":        shippingAddress(),
		"payment_method": "stripe",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order      order.Order `json:"order"`
		SessionURL string      `json:"session_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://checkout.example.com/c/cs_test_123", resp.SessionURL)
	assert.False(t, resp.Order.Payment)

	// Hosted checkout leaves the cart intact
	rec = f.do(http.MethodGet, "/cart", token, nil)
	var cartResp struct {
		Cart map[string]map[string]int `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartResp))
	assert.Equal(t, 1, cartResp.Cart["P1"]["M"])
}

func TestAPI_VerifyPaymentFailureDeletesOrder(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	token := f.tokenFor("user-1", "customer")

	f.do(http.MethodPost, "/cart/items", token, map[string]string{"product_id": "P1", "size": "M"})
	rec := f.do(http.MethodPost, "/orders", token, map[string]any{
		"address":        shippingAddress(),
		"payment_method": "stripe",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order order.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = f.do(http.MethodPost, "/orders/verify", token, map[string]any{
		"order_id": resp.Order.ID, "success": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, fmt.Sprintf("/orders/%s/track", resp.Order.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_TrackOrderOwnershipEnforced(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	f.store.SeedUser(&store.User{ID: "user-2", Email: "user-2@example.com"})
	ownerToken := f.tokenFor("user-1", "customer")
	otherToken := f.tokenFor("user-2", "customer")
	adminToken := f.tokenFor("admin-1", "admin")

	f.do(http.MethodPost, "/cart/items", ownerToken, map[string]string{"product_id": "P1", "size": "M"})
	rec := f.do(http.MethodPost, "/orders", ownerToken, map[string]any{
		"address":        shippingAddress(),
		"payment_method": "cod",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order order.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	trackPath := fmt.Sprintf("/orders/%s/track", resp.Order.ID)

	rec = f.do(http.MethodPost, trackPath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, trackPath, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, order.StatusPacking, resp.Order.Status)

	// Admins may track any order
	rec = f.do(http.MethodPost, trackPath, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ============================================
// Admin Tests
// ============================================

func TestAPI_AdminListAndStatusUpdate(t *testing.T) {
	f := newAPIFixture()
	f.seedShopper("user-1")
	customerToken := f.tokenFor("user-1", "customer")
	adminToken := f.tokenFor("admin-1", "admin")

	f.do(http.MethodPost, "/cart/items", customerToken, map[string]string{"product_id": "P1", "size": "M"})
	rec := f.do(http.MethodPost, "/orders", customerToken, map[string]any{
		"address":        shippingAddress(),
		"payment_method": "cod",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed struct {
		Order order.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	rec = f.do(http.MethodGet, "/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Orders []order.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Orders, 1)

	rec = f.do(http.MethodPost, "/admin/orders/status", adminToken, map[string]string{
		"order_id": placed.Order.ID, "status": "Shipped",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/orders", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Orders, 1)
	assert.Equal(t, order.StatusShipped, listResp.Orders[0].Status)
}

func TestAPI_AdminStatusRejectsUnknownValue(t *testing.T) {
	f := newAPIFixture()
	adminToken := f.tokenFor("admin-1", "admin")

	rec := f.do(http.MethodPost, "/admin/orders/status", adminToken, map[string]string{
		"order_id": "whatever", "status": "Teleported",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
