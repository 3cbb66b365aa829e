package store

import (
	"context"
	"errors"

	"github.com/example/ec-storefront/internal/domain/order"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
)

// User is the durable user document. CartData holds the whole cart, keyed by
// product ID then size label.
type User struct {
	ID       string                    `json:"id" bson:"_id"`
	Name     string                    `json:"name" bson:"name"`
	Email    string                    `json:"email" bson:"email"`
	CartData map[string]map[string]int `json:"cart_data" bson:"cart_data"`
}

// Product is the catalog view read at checkout time. Price is the current
// unit price; callers freeze it into orders themselves.
type Product struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Price int    `json:"price" bson:"price"`
}

// UserStore reads user documents and overwrites their cart in full.
// SaveCart is a whole-document write with no concurrency token: two
// concurrent mutations to the same user's cart race last-writer-wins.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*User, error)
	SaveCart(ctx context.Context, userID string, items map[string]map[string]int) error
}

// OrderStore persists order records. Lookups for a missing order return
// order.ErrOrderNotFound.
type OrderStore interface {
	Insert(ctx context.Context, o *order.Order) error
	Get(ctx context.Context, id string) (*order.Order, error)
	SetPayment(ctx context.Context, id string, paid bool) error
	SetStatus(ctx context.Context, id string, status order.Status) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]order.Order, error)
	ListAll(ctx context.Context) ([]order.Order, error)
}

// Catalog supplies current product data at checkout time only.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}
