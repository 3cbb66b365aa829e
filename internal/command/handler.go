package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/event"
	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/payment"
)

// Publisher sends domain events to the notification stream. Publishing is
// best-effort: the stores are the system of record.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Handler executes the write-side flows: cart reconciliation, the
// cart-to-order transition, payment verification and delivery-status
// changes.
type Handler struct {
	users       store.UserStore
	orders      store.OrderStore
	catalog     store.Catalog
	broker      payment.SessionBroker
	publisher   Publisher
	deliveryFee int
}

func NewHandler(
	users store.UserStore,
	orders store.OrderStore,
	catalog store.Catalog,
	broker payment.SessionBroker,
	publisher Publisher,
	deliveryFee int,
) *Handler {
	return &Handler{
		users:       users,
		orders:      orders,
		catalog:     catalog,
		broker:      broker,
		publisher:   publisher,
		deliveryFee: deliveryFee,
	}
}

// Cart flows
//
// Every mutation is a read-modify-write over the whole cart document with
// no concurrency token; concurrent requests for the same user race
// last-writer-wins.

// AddToCart increments the quantity for (product, size), inserting the pair
// with quantity 1 if absent, and writes the cart back in full.
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) (cart.Items, error) {
	u, err := h.users.GetUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	items, err := cart.Add(u.CartData, cmd.ProductID, cmd.Size)
	if err != nil {
		return nil, err
	}

	if err := h.users.SaveCart(ctx, cmd.UserID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateCart overwrites the quantity for (product, size). Quantity zero
// removes the whole product entry.
func (h *Handler) UpdateCart(ctx context.Context, cmd UpdateCart) (cart.Items, error) {
	u, err := h.users.GetUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	items, err := cart.SetQuantity(u.CartData, cmd.ProductID, cmd.Size, cmd.Quantity)
	if err != nil {
		return nil, err
	}

	if err := h.users.SaveCart(ctx, cmd.UserID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetCart returns the durable cart contents.
func (h *Handler) GetCart(ctx context.Context, userID string) (cart.Items, error) {
	u, err := h.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.CartData, nil
}

// Order flows

// PlaceOrder creates a cash-on-delivery order from the user's cart and then
// empties the cart. The two writes are not atomic: if the cart-clear fails
// the order still stands, and the stale cart heals on the next successful
// checkout.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*order.Order, error) {
	o, err := h.buildOrder(ctx, cmd, order.MethodCOD)
	if err != nil {
		return nil, err
	}

	if err := h.orders.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	h.clearCart(ctx, cmd.UserID)
	h.publishPlaced(ctx, o)
	return o, nil
}

// PlaceOrderHosted creates an unpaid order and opens a hosted checkout
// session for it, returning the redirect URL. The cart is NOT cleared here;
// that happens only when the payment is verified. If the session cannot be
// created the order stays unpaid in the store; only an explicit failed
// verification removes it.
func (h *Handler) PlaceOrderHosted(ctx context.Context, cmd PlaceOrder) (*order.Order, string, error) {
	o, err := h.buildOrder(ctx, cmd, order.MethodStripe)
	if err != nil {
		return nil, "", err
	}

	if err := h.orders.Insert(ctx, o); err != nil {
		return nil, "", fmt.Errorf("failed to place order: %w", err)
	}

	lines := payment.LinesFor(o.Items, h.deliveryFee)
	successURL := fmt.Sprintf("%s/verify?success=true&orderId=%s", cmd.Origin, o.ID)
	cancelURL := fmt.Sprintf("%s/verify?success=false&orderId=%s", cmd.Origin, o.ID)

	sessionURL, err := h.broker.CreateSession(ctx, lines, successURL, cancelURL)
	if err != nil {
		return nil, "", err
	}

	h.publishPlaced(ctx, o)
	return o, sessionURL, nil
}

// VerifyPayment settles or voids an order from the client-supplied
// confirmation signal. Success marks the order paid and empties the user's
// cart; failure deletes the order outright, leaving no record of the
// attempt.
func (h *Handler) VerifyPayment(ctx context.Context, cmd VerifyPayment) error {
	o, err := h.orders.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}

	if !cmd.Success {
		if err := h.orders.Delete(ctx, cmd.OrderID); err != nil {
			return err
		}
		h.publish(ctx, o.ID, order.EventOrderVoided, order.OrderVoided{
			OrderID:  o.ID,
			UserID:   o.UserID,
			VoidedAt: time.Now(),
		})
		return nil
	}

	if err := h.orders.SetPayment(ctx, cmd.OrderID, true); err != nil {
		return err
	}

	h.clearCart(ctx, cmd.UserID)
	h.publish(ctx, o.ID, order.EventOrderPaid, order.OrderPaid{
		OrderID: o.ID,
		UserID:  o.UserID,
		PaidAt:  time.Now(),
	})
	return nil
}

// UpdateStatus overwrites the delivery status to any enumerated value.
// Backward moves are allowed so administrators can correct mistakes.
func (h *Handler) UpdateStatus(ctx context.Context, cmd UpdateStatus) error {
	if !cmd.Status.Valid() {
		return fmt.Errorf("%w: %q", order.ErrInvalidStatus, cmd.Status)
	}
	if err := h.orders.SetStatus(ctx, cmd.OrderID, cmd.Status); err != nil {
		return err
	}

	h.publish(ctx, cmd.OrderID, order.EventOrderStatusChanged, order.OrderStatusChanged{
		OrderID:   cmd.OrderID,
		Status:    cmd.Status,
		ChangedAt: time.Now(),
	})
	return nil
}

// TrackOrder advances the delivery status one step along the customer flow.
// Terminal and out-of-flow statuses are left untouched.
func (h *Handler) TrackOrder(ctx context.Context, cmd TrackOrder) (*order.Order, error) {
	o, err := h.orders.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	next := order.Next(o.Status)
	if next == o.Status {
		return o, nil
	}

	if err := h.orders.SetStatus(ctx, cmd.OrderID, next); err != nil {
		return nil, err
	}
	o.Status = next

	h.publish(ctx, o.ID, order.EventOrderStatusChanged, order.OrderStatusChanged{
		OrderID:   o.ID,
		Status:    next,
		ChangedAt: time.Now(),
	})
	return o, nil
}

// ListUserOrders returns the orders belonging to one user.
func (h *Handler) ListUserOrders(ctx context.Context, userID string) ([]order.Order, error) {
	return h.orders.ListByUser(ctx, userID)
}

// ListAllOrders returns every order (admin surface).
func (h *Handler) ListAllOrders(ctx context.Context) ([]order.Order, error) {
	return h.orders.ListAll(ctx)
}

// GetOrder returns one order by ID.
func (h *Handler) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	return h.orders.Get(ctx, orderID)
}

// buildOrder snapshots the cart into an immutable order: prices are read
// from the catalog once, frozen into the line items, and never re-read.
func (h *Handler) buildOrder(ctx context.Context, cmd PlaceOrder, method order.PaymentMethod) (*order.Order, error) {
	if err := cmd.Address.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetUser(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, order.ErrInvalidUser
		}
		return nil, err
	}

	items, err := h.snapshotItems(ctx, u.CartData)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, order.ErrEmptyOrder
	}

	return &order.Order{
		ID:            uuid.New().String(),
		UserID:        cmd.UserID,
		Items:         items,
		Address:       cmd.Address,
		Amount:        order.AmountOf(items, h.deliveryFee),
		PaymentMethod: method,
		Payment:       false,
		Status:        order.StatusPlaced,
		CreatedAt:     time.Now(),
	}, nil
}

// snapshotItems converts the cart map into ordered line items at current
// catalog prices. Products that left the catalog since they were carted are
// skipped.
func (h *Handler) snapshotItems(ctx context.Context, items cart.Items) ([]order.LineItem, error) {
	productIDs := make([]string, 0, len(items))
	for productID := range items {
		productIDs = append(productIDs, productID)
	}
	sort.Strings(productIDs)

	var lines []order.LineItem
	for _, productID := range productIDs {
		p, err := h.catalog.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		sizes := make([]string, 0, len(items[productID]))
		for size := range items[productID] {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)

		for _, size := range sizes {
			qty := items[productID][size]
			if qty <= 0 {
				continue
			}
			lines = append(lines, order.LineItem{
				ProductID: productID,
				Name:      p.Name,
				Size:      size,
				Quantity:  qty,
				Price:     p.Price,
			})
		}
	}
	return lines, nil
}

// clearCart is the compensating action after an order is created or paid.
// It is not atomic with the order write; a failure here leaves a stale cart
// but must not fail the order.
func (h *Handler) clearCart(ctx context.Context, userID string) {
	if err := h.users.SaveCart(ctx, userID, cart.Items{}); err != nil {
		log.Printf("[Command] Failed to clear cart for user %s: %v", userID, err)
	}
}

func (h *Handler) publishPlaced(ctx context.Context, o *order.Order) {
	h.publish(ctx, o.ID, order.EventOrderPlaced, order.OrderPlaced{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Items:         o.Items,
		Amount:        o.Amount,
		PaymentMethod: o.PaymentMethod,
		PlacedAt:      o.CreatedAt,
	})
}

func (h *Handler) publish(ctx context.Context, key, eventType string, data any) {
	if h.publisher == nil {
		return
	}
	env, err := event.New(eventType, data)
	if err != nil {
		log.Printf("[Command] Failed to build %s event: %v", eventType, err)
		return
	}
	if err := h.publisher.Publish(ctx, key, env); err != nil {
		log.Printf("[Command] Failed to publish %s event: %v", eventType, err)
	}
}
