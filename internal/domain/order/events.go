package order

import "time"

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderPaid          = "OrderPaid"
	EventOrderVoided        = "OrderVoided"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type OrderPlaced struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	Items         []LineItem    `json:"items"`
	Amount        int           `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PlacedAt      time.Time     `json:"placed_at"`
}

type OrderPaid struct {
	OrderID string    `json:"order_id"`
	UserID  string    `json:"user_id"`
	PaidAt  time.Time `json:"paid_at"`
}

type OrderVoided struct {
	OrderID  string    `json:"order_id"`
	UserID   string    `json:"user_id"`
	VoidedAt time.Time `json:"voided_at"`
}

type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}
