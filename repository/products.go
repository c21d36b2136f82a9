package repository

import (
	"context"
	"errors"
	"fmt"

	"centremart/feed"
	"centremart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository reads and writes the products collection
type ProductRepository struct {
	Collection *mongo.Collection
}

// NewProductRepository binds to db.products
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{Collection: db.Collection("products")}
}

// byName is the feed order; _id breaks ties between equal names
var byName = bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}

// pageFilter selects products sorting strictly after the cursor
func pageFilter(after *feed.Cursor) bson.M {
	if after == nil {
		return bson.M{}
	}
	return bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$gt": after.Name}},
		bson.M{"name": after.Name, "_id": bson.M{"$gt": after.ID}},
	}}
}

// Page returns up to limit products ordered by name, starting after the cursor
func (pr *ProductRepository) Page(ctx context.Context, after *feed.Cursor, limit int) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetSort(byName).SetLimit(int64(limit))
	cur, err := pr.Collection.Find(ctx, pageFilter(after), opts)
	if err != nil {
		return nil, fmt.Errorf("find products page: %w", err)
	}
	return decodeAll[models.Product](ctx, cur)
}

// List returns every product ordered by name
func (pr *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cur, err := pr.Collection.Find(ctx, bson.M{}, options.Find().SetSort(byName))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return decodeAll[models.Product](ctx, cur)
}

// ByCategory returns up to limit products of one category
func (pr *ProductRepository) ByCategory(ctx context.Context, category string, limit int) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetSort(byName).SetLimit(int64(limit))
	cur, err := pr.Collection.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products in %s: %w", category, err)
	}
	return decodeAll[models.Product](ctx, cur)
}

// GetByID retrieves a single product
func (pr *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var product models.Product
	err := pr.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id.Hex(), err)
	}
	return &product, nil
}

// Insert stores a new product and sets its id
func (pr *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := pr.Collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

// Delete removes a product
func (pr *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := pr.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOffer replaces the offer of a product; a nil offer clears it
func (pr *ProductRepository) UpdateOffer(ctx context.Context, id primitive.ObjectID, offer *models.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"offer": offer}}
	if offer == nil {
		update = bson.M{"$unset": bson.M{"offer": ""}}
	}
	result, err := pr.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update offer %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of products
func (pr *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return pr.Collection.CountDocuments(ctx, bson.M{})
}
