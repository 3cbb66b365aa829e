package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/email"
	"github.com/example/ec-storefront/internal/event"
	"github.com/example/ec-storefront/internal/infrastructure/store"
)

// Sender delivers order confirmations. Implemented by email.Service.
type Sender interface {
	SendOrderConfirmation(to, orderID string, amount int, items []email.OrderItem) error
}

// Handler processes events from the order stream and sends notifications
type Handler struct {
	sender Sender
	users  store.UserStore
}

// NewHandler creates a new notification handler
func NewHandler(sender Sender, users store.UserStore) *Handler {
	return &Handler{
		sender: sender,
		users:  users,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var env event.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	// Only order placements trigger an email
	if env.EventType == order.EventOrderPlaced {
		return h.handleOrderPlaced(ctx, env)
	}

	return nil
}

func (h *Handler) handleOrderPlaced(ctx context.Context, env event.Envelope) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(env.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced event for order %s, user %s", e.OrderID, e.UserID)

	u, err := h.users.GetUser(ctx, e.UserID)
	if err != nil {
		// No user document means nowhere to send; do not retry
		log.Printf("[Notifier] Could not load user %s: %v", e.UserID, err)
		return nil
	}

	emailItems := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		emailItems[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err := h.sender.SendOrderConfirmation(u.Email, e.OrderID, e.Amount, emailItems); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", u.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", u.Email, e.OrderID)
	return nil
}
