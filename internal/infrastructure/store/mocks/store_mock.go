package mocks

import (
	"context"
	"sync"

	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/infrastructure/store"
)

// MockStore is an in-memory implementation of UserStore, OrderStore and
// Catalog for testing.
type MockStore struct {
	mu       sync.RWMutex
	users    map[string]*store.User
	orders   map[string]*order.Order
	products map[string]*store.Product

	// For tracking calls in tests
	SaveCartCalls []SaveCartCall
	DeleteCalls   []string

	// Injectable errors
	SaveCartErr error
	InsertErr   error
}

// SaveCartCall records parameters passed to SaveCart
type SaveCartCall struct {
	UserID string
	Items  map[string]map[string]int
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		users:    make(map[string]*store.User),
		orders:   make(map[string]*order.Order),
		products: make(map[string]*store.Product),
	}
}

// SeedUser adds a user document
func (m *MockStore) SeedUser(u *store.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.CartData == nil {
		u.CartData = make(map[string]map[string]int)
	}
	m.users[u.ID] = u
}

// SeedProduct adds a catalog product
func (m *MockStore) SeedProduct(p *store.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// User operations

func (m *MockStore) GetUser(ctx context.Context, id string) (*store.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	cp.CartData = cloneItems(u.CartData)
	return &cp, nil
}

func (m *MockStore) SaveCart(ctx context.Context, userID string, items map[string]map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCartCalls = append(m.SaveCartCalls, SaveCartCall{UserID: userID, Items: cloneItems(items)})

	if m.SaveCartErr != nil {
		return m.SaveCartErr
	}
	u, ok := m.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.CartData = cloneItems(items)
	return nil
}

// Order operations

func (m *MockStore) Insert(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockStore) SetPayment(ctx context.Context, id string, paid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Payment = paid
	return nil
}

func (m *MockStore) SetStatus(ctx context.Context, id string, status order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)

	if _, ok := m.orders[id]; !ok {
		return order.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *MockStore) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *MockStore) ListAll(ctx context.Context) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []order.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

// Catalog operations

func (m *MockStore) GetProduct(ctx context.Context, id string) (*store.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func cloneItems(items map[string]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int, len(items))
	for productID, sizes := range items {
		cp := make(map[string]int, len(sizes))
		for size, qty := range sizes {
			cp[size] = qty
		}
		out[productID] = cp
	}
	return out
}
