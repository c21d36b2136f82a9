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

// CategoryRepository reads and writes the categories collection
type CategoryRepository struct {
	Collection *mongo.Collection
}

// NewCategoryRepository binds to db.categories
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{Collection: db.Collection("categories")}
}

var byRank = bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}}

// List returns every category by display rank
func (cr *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	return cr.find(ctx, bson.M{})
}

// Enabled returns the categories shown on the home page, by display rank
func (cr *CategoryRepository) Enabled(ctx context.Context) ([]models.Category, error) {
	return cr.find(ctx, bson.M{"enabled": true})
}

func (cr *CategoryRepository) find(ctx context.Context, filter bson.M) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cur, err := cr.Collection.Find(ctx, filter, options.Find().SetSort(byRank))
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	return decodeAll[models.Category](ctx, cur)
}

// Insert stores a new category and sets its id
func (cr *CategoryRepository) Insert(ctx context.Context, category *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := cr.Collection.InsertOne(ctx, category)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = id
	}
	return nil
}

// Delete removes a category
func (cr *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := cr.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Update sets the given fields ("enabled", "order") of a category
func (cr *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := cr.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update category %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEnabled shows or hides a category panel
func (cr *CategoryRepository) SetEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) error {
	return cr.Update(ctx, id, bson.M{"enabled": enabled})
}

// SetOrder changes the display rank of a category
func (cr *CategoryRepository) SetOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	return cr.Update(ctx, id, bson.M{"order": order})
}
