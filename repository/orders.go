package repository

import (
	"context"
	"fmt"

	"centremart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository reads and writes the orders collection
type OrderRepository struct {
	Collection *mongo.Collection
}

// NewOrderRepository binds to db.orders
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{Collection: db.Collection("orders")}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// InsertOrder stores a new order and sets its id
func (repo *OrderRepository) InsertOrder(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := repo.Collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

// List returns all orders, newest first
func (repo *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	return repo.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// Recent returns the n newest orders
func (repo *OrderRepository) Recent(ctx context.Context, n int) ([]models.Order, error) {
	return repo.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(n)))
}

// ByUser returns the n newest orders placed by a signed-in customer
func (repo *OrderRepository) ByUser(ctx context.Context, userID string, n int) ([]models.Order, error) {
	return repo.find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(newestFirst).SetLimit(int64(n)))
}

func (repo *OrderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cur, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return decodeAll[models.Order](ctx, cur)
}

// UpdateStatus sets the status of one order
func (repo *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := repo.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update order %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
