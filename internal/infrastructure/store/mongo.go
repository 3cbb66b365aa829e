package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/ec-storefront/internal/domain/order"
)

// MongoStore implements UserStore, OrderStore and Catalog over MongoDB
// collections (users, orders, products).
type MongoStore struct {
	users    *mongo.Collection
	orders   *mongo.Collection
	products *mongo.Collection
}

// ConnectMongo connects to MongoDB and returns a store over the named
// database.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, *mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		users:    db.Collection("users"),
		orders:   db.Collection("orders"),
		products: db.Collection("products"),
	}, client, nil
}

// User operations

func (s *MongoStore) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u.CartData == nil {
		u.CartData = make(map[string]map[string]int)
	}
	return &u, nil
}

// SaveCart overwrites the whole cart_data field. Last writer wins.
func (s *MongoStore) SaveCart(ctx context.Context, userID string, items map[string]map[string]int) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"cart_data": items}},
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Order operations

func (s *MongoStore) Insert(ctx context.Context, o *order.Order) error {
	if _, err := s.orders.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

func (s *MongoStore) SetPayment(ctx context.Context, id string, paid bool) error {
	return s.updateOrder(ctx, id, bson.M{"payment": paid})
}

func (s *MongoStore) SetStatus(ctx context.Context, id string, status order.Status) error {
	return s.updateOrder(ctx, id, bson.M{"status": status})
}

func (s *MongoStore) updateOrder(ctx context.Context, id string, fields bson.M) error {
	res, err := s.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return s.listOrders(ctx, bson.M{"user_id": userID})
}

func (s *MongoStore) ListAll(ctx context.Context) ([]order.Order, error) {
	return s.listOrders(ctx, bson.M{})
}

func (s *MongoStore) listOrders(ctx context.Context, filter bson.M) ([]order.Order, error) {
	cursor, err := s.orders.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []order.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// Catalog operations

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}
