package command

import "github.com/example/ec-storefront/internal/domain/order"

// Cart Commands
type AddToCart struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
}

type UpdateCart struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// Order Commands
type PlaceOrder struct {
	UserID        string              `json:"user_id"`
	Address       order.Address       `json:"address"`
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	// Origin is the caller's base URL, used to build the hosted-checkout
	// callback targets.
	Origin string `json:"origin"`
}

type VerifyPayment struct {
	UserID  string `json:"user_id"`
	OrderID string `json:"order_id"`
	Success bool   `json:"success"`
}

type UpdateStatus struct {
	OrderID string       `json:"order_id"`
	Status  order.Status `json:"status"`
}

type TrackOrder struct {
	OrderID string `json:"order_id"`
}
