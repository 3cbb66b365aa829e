package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/example/ec-storefront/internal/domain/order"
)

// PostgresStore implements UserStore, OrderStore and Catalog over
// PostgreSQL, serializing the document-shaped fields as JSONB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an existing connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ConnectPostgres opens and verifies a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// User operations

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	var cartData []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, cart_data FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Name, &u.Email, &cartData)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.CartData = make(map[string]map[string]int)
	if len(cartData) > 0 {
		if err := json.Unmarshal(cartData, &u.CartData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cart data: %w", err)
		}
	}
	return &u, nil
}

// SaveCart overwrites the whole cart_data column. Last writer wins.
func (s *PostgresStore) SaveCart(ctx context.Context, userID string, items map[string]map[string]int) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart data: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET cart_data = $2 WHERE id = $1", userID, data)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Order operations

func (s *PostgresStore) Insert(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	address, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("failed to marshal order address: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, items, address, amount, payment_method, payment, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.UserID, items, address, o.Amount, o.PaymentMethod, o.Payment, o.Status, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, items, address, amount, payment_method, payment, status, created_at
		FROM orders WHERE id = $1
	`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) SetPayment(ctx context.Context, id string, paid bool) error {
	return s.updateOrder(ctx, "UPDATE orders SET payment = $2 WHERE id = $1", id, paid)
}

func (s *PostgresStore) SetStatus(ctx context.Context, id string, status order.Status) error {
	return s.updateOrder(ctx, "UPDATE orders SET status = $2 WHERE id = $1", id, status)
}

func (s *PostgresStore) updateOrder(ctx context.Context, query, id string, value any) error {
	res, err := s.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if rows == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if rows == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return s.listOrders(ctx, `
		SELECT id, user_id, items, address, amount, payment_method, payment, status, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]order.Order, error) {
	return s.listOrders(ctx, `
		SELECT id, user_id, items, address, amount, payment_method, payment, status, created_at
		FROM orders ORDER BY created_at DESC
	`)
}

func (s *PostgresStore) listOrders(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	var items, address []byte
	err := row.Scan(&o.ID, &o.UserID, &items, &address, &o.Amount,
		&o.PaymentMethod, &o.Payment, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(address, &o.Address); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order address: %w", err)
	}
	return &o, nil
}

// Catalog operations

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, price FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}
