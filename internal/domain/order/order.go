package order

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrEmptyOrder     = errors.New("order must have at least one item")
	ErrInvalidUser    = errors.New("user not found")
	ErrInvalidAddress = errors.New("address is incomplete")
	ErrInvalidStatus  = errors.New("invalid order status")
)

type PaymentMethod string

const (
	MethodCOD    PaymentMethod = "cod"
	MethodStripe PaymentMethod = "stripe"
)

// LineItem is one ordered position. Price is the unit price captured at
// order time; later catalog changes never alter it.
type LineItem struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	Size      string `json:"size" bson:"size"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	Price     int    `json:"price" bson:"price"`
}

type Address struct {
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
	Email     string `json:"email" bson:"email"`
	Street    string `json:"street" bson:"street"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state" bson:"state"`
	Zipcode   string `json:"zipcode" bson:"zipcode"`
	Country   string `json:"country" bson:"country"`
	Phone     string `json:"phone" bson:"phone"`
}

// Validate checks that every address field is filled in and reports the
// first missing one by name.
func (a Address) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"email", a.Email},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zipcode", a.Zipcode},
		{"country", a.Country},
		{"phone", a.Phone},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidAddress, f.name)
		}
	}
	return nil
}

// Order is an immutable snapshot of a cart plus address and payment
// metadata, created once at checkout. Payment reports whether the payment
// is settled; COD orders stay false (the amount is collected on delivery).
type Order struct {
	ID            string        `json:"id" bson:"_id"`
	UserID        string        `json:"user_id" bson:"user_id"`
	Items         []LineItem    `json:"items" bson:"items"`
	Address       Address       `json:"address" bson:"address"`
	Amount        int           `json:"amount" bson:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method"`
	Payment       bool          `json:"payment" bson:"payment"`
	Status        Status        `json:"status" bson:"status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

// AmountOf computes the order total: captured line prices plus the flat
// delivery fee.
func AmountOf(items []LineItem, deliveryFee int) int {
	total := deliveryFee
	for _, item := range items {
		total += item.Price * item.Quantity
	}
	return total
}
