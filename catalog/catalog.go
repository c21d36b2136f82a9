// Package catalog creates products, alone or in bulk.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"centremart/models"
	"centremart/upload"

	"go.uber.org/zap"
)

// ErrInvalidProduct wraps every product validation failure
var ErrInvalidProduct = errors.New("invalid product")

// Uploader hosts an image and returns its URL
type Uploader interface {
	Upload(ctx context.Context, img upload.Image) (string, error)
}

// ProductInserter stores a new product
type ProductInserter interface {
	Insert(ctx context.Context, product *models.Product) error
}

// ProductInput is the admin form for a single product
type ProductInput struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Product validates the form and converts it into a product without an image
func (in ProductInput) Product() (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || price <= 0 {
		return models.Product{}, fmt.Errorf("%w: price must be a positive number", ErrInvalidProduct)
	}
	if !models.IsCategory(in.Category) {
		return models.Product{}, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, in.Category)
	}
	return models.Product{
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
	}, nil
}

// Catalog adds products to the store
type Catalog struct {
	uploader Uploader
	products ProductInserter
	logger   *zap.Logger
	now      func() time.Time
}

// New returns a Catalog
func New(uploader Uploader, products ProductInserter, logger *zap.Logger) *Catalog {
	return &Catalog{uploader: uploader, products: products, logger: logger, now: time.Now}
}

// Create validates the form, uploads the image and inserts the product.
// Nothing is written when validation or the upload fails.
func (c *Catalog) Create(ctx context.Context, in ProductInput, img upload.Image) (*models.Product, error) {
	product, err := in.Product()
	if err != nil {
		return nil, err
	}
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: an image is required", ErrInvalidProduct)
	}
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	url, err := c.uploader.Upload(ctx, img)
	if err != nil {
		return nil, err
	}
	product.ImageURL = url
	product.CreatedAt = c.now()

	if err := c.products.Insert(ctx, &product); err != nil {
		return nil, err
	}
	c.logger.Info("Product added", zap.String("product_id", product.ID.Hex()), zap.String("name", product.Name))
	return &product, nil
}

// Import inserts products one at a time and stops at the first failure.
// It returns how many were inserted.
func (c *Catalog) Import(ctx context.Context, products []models.Product) (int, error) {
	for i := range products {
		products[i].CreatedAt = c.now()
		if err := c.products.Insert(ctx, &products[i]); err != nil {
			c.logger.Error("Bulk import stopped", zap.Int("inserted", i), zap.Error(err))
			return i, err
		}
	}
	return len(products), nil
}
