package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/command"
	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/payment"
)

type Handlers struct {
	cmdHandler *command.Handler
}

func NewHandlers(cmdHandler *command.Handler) *Handlers {
	return &Handlers{cmdHandler: cmdHandler}
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	items, err := h.cmdHandler.GetCart(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cart": items})
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		ProductID string `json:"product_id"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.cmdHandler.AddToCart(r.Context(), command.AddToCart{
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cart": items})
}

func (h *Handlers) UpdateCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		ProductID string `json:"product_id"`
		Size      string `json:"size"`
		Quantity  *int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity == nil {
		http.Error(w, "quantity is required", http.StatusBadRequest)
		return
	}

	items, err := h.cmdHandler.UpdateCart(r.Context(), command.UpdateCart{
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cart": items})
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		Address       order.Address `json:"address"`
		PaymentMethod string        `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.PlaceOrder{
		UserID:  userID,
		Address: req.Address,
		Origin:  r.Header.Get("Origin"),
	}

	switch order.PaymentMethod(req.PaymentMethod) {
	case order.MethodStripe:
		o, sessionURL, err := h.cmdHandler.PlaceOrderHosted(r.Context(), cmd)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{"order": o, "session_url": sessionURL})
	case order.MethodCOD, "":
		o, err := h.cmdHandler.PlaceOrder(r.Context(), cmd)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{"order": o})
	default:
		http.Error(w, "unknown payment method", http.StatusBadRequest)
	}
}

func (h *Handlers) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		OrderID string `json:"order_id"`
		Success bool   `json:"success"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.cmdHandler.VerifyPayment(r.Context(), command.VerifyPayment{
		UserID:  userID,
		OrderID: req.OrderID,
		Success: req.Success,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": req.Success})
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	orders, err := h.cmdHandler.ListUserOrders(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handlers) TrackOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/orders/"), "/track")

	o, err := h.cmdHandler.GetOrder(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	// Users may only track their own orders
	userID := getUserID(r)
	if o.UserID != userID && !isAdmin(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	o, err = h.cmdHandler.TrackOrder(r.Context(), command.TrackOrder{OrderID: id})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"order": o})
}

// Admin Handlers

func (h *Handlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.cmdHandler.ListAllOrders(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.cmdHandler.UpdateStatus(r.Context(), command.UpdateStatus{
		OrderID: req.OrderID,
		Status:  order.Status(req.Status),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondDomainError maps domain errors to HTTP statuses: validation 400,
// missing entities 404, processor failures 502, everything else 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, cart.ErrSizeRequired),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidAddress),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidUser):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, store.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, payment.ErrSessionCreate):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// getUserID extracts user ID from JWT context
func getUserID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}

// isAdmin checks if the current user has admin role
func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == "admin"
}
