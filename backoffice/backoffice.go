// Package backoffice holds the admin operations. Every mutation writes and
// then reloads the affected collection, so callers always render what the
// database holds rather than a locally patched copy.
package backoffice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"centremart/catalog"
	"centremart/models"
	"centremart/upload"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoSelection       = errors.New("no orders selected")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidOffer      = errors.New("invalid offer")
	ErrInvalidCategory   = errors.New("invalid category name")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrBulkUpdateFailed  = errors.New("bulk status update failed")
)

// ProductStore is the product collection as the admin sees it
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	UpdateOffer(ctx context.Context, id primitive.ObjectID, offer *models.Offer) error
	Count(ctx context.Context) (int64, error)
}

// OrderStore is the order collection as the admin sees it
type OrderStore interface {
	List(ctx context.Context) ([]models.Order, error)
	Recent(ctx context.Context, n int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}

// CategoryStore is the panel configuration collection
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Insert(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) error
	SetOrder(ctx context.Context, id primitive.ObjectID, order int) error
}

// ProductCreator adds products, alone or in bulk
type ProductCreator interface {
	Create(ctx context.Context, in catalog.ProductInput, img upload.Image) (*models.Product, error)
	Import(ctx context.Context, products []models.Product) (int, error)
}

// Service runs admin operations
type Service struct {
	products   ProductStore
	orders     OrderStore
	categories CategoryStore
	catalog    ProductCreator
	logger     *zap.Logger
}

// NewService returns a backoffice Service
func NewService(products ProductStore, orders OrderStore, categories CategoryStore, creator ProductCreator, logger *zap.Logger) *Service {
	return &Service{
		products:   products,
		orders:     orders,
		categories: categories,
		catalog:    creator,
		logger:     logger,
	}
}

// Products lists every product
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}

// CreateProduct adds one product and returns the reloaded catalog
func (s *Service) CreateProduct(ctx context.Context, in catalog.ProductInput, img upload.Image) ([]models.Product, error) {
	if _, err := s.catalog.Create(ctx, in, img); err != nil {
		return nil, err
	}
	return s.products.List(ctx)
}

// BulkImport inserts products in order, stopping at the first failure.
// The catalog is reloaded either way.
func (s *Service) BulkImport(ctx context.Context, products []models.Product) (int, []models.Product, error) {
	n, importErr := s.catalog.Import(ctx, products)
	list, err := s.products.List(ctx)
	if importErr != nil {
		return n, list, importErr
	}
	return n, list, err
}

// DeleteProduct removes a product and returns the reloaded catalog
func (s *Service) DeleteProduct(ctx context.Context, id primitive.ObjectID) ([]models.Product, error) {
	if err := s.products.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.Hex()))
	return s.products.List(ctx)
}

// UpdateOffer sets or clears a product's offer. An offer of type none clears it.
func (s *Service) UpdateOffer(ctx context.Context, id primitive.ObjectID, offer models.Offer) ([]models.Product, error) {
	stored, err := validateOffer(offer)
	if err != nil {
		return nil, err
	}
	if err := s.products.UpdateOffer(ctx, id, stored); err != nil {
		return nil, err
	}
	return s.products.List(ctx)
}

func validateOffer(offer models.Offer) (*models.Offer, error) {
	offer.Value = strings.TrimSpace(offer.Value)
	switch offer.Type {
	case models.OfferNone, "":
		return nil, nil
	case models.OfferDiscount:
		if _, ok := offer.DiscountPercent(); !ok {
			return nil, fmt.Errorf("%w: discount must be a percentage between 0 and 100", ErrInvalidOffer)
		}
	case models.OfferCustom:
		if offer.Value == "" {
			return nil, fmt.Errorf("%w: custom offer needs a description", ErrInvalidOffer)
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidOffer, offer.Type)
	}
	return &offer, nil
}

// OrderFilter narrows the order list. Zero values match everything.
type OrderFilter struct {
	Search string
	Status models.OrderStatus
}

func (f OrderFilter) matches(o models.Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.ProductName), term) ||
		strings.Contains(strings.ToLower(o.CustomerName), term) ||
		strings.Contains(o.Phone, term)
}

// Orders lists orders newest first, narrowed by filter
func (s *Service) Orders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if filter.matches(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateOrderStatus moves one order to status and returns the reloaded list
func (s *Service) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) ([]models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.orders.List(ctx)
}

// BulkUpdateStatus moves every selected order to status concurrently. Any
// failure fails the whole call without saying which orders were updated;
// the list is reloaded regardless so the caller sees the real state.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []primitive.ObjectID, status models.OrderStatus) ([]models.Order, error) {
	if len(ids) == 0 {
		return nil, ErrNoSelection
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var failed atomic.Int32
	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
				failed.Add(1)
				return err
			}
			return nil
		})
	}
	writeErr := g.Wait()

	list, err := s.orders.List(ctx)
	if writeErr != nil {
		s.logger.Error("Bulk status update failed",
			zap.Int("selected", len(ids)),
			zap.Int32("failed", failed.Load()),
			zap.String("status", string(status)),
			zap.Error(writeErr))
		return list, fmt.Errorf("%w: %v", ErrBulkUpdateFailed, writeErr)
	}
	return list, err
}

// Categories lists the panel configuration in display order
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// AddCategory appends a disabled category at the end of the display order
func (s *Service) AddCategory(ctx context.Context, name string) ([]models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCategory
	}
	existing, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return nil, ErrDuplicateCategory
		}
	}
	category := models.Category{Name: name, Order: len(existing) + 1, Enabled: false}
	if err := s.categories.Insert(ctx, &category); err != nil {
		return nil, err
	}
	return s.categories.List(ctx)
}

// DeleteCategory removes a category
func (s *Service) DeleteCategory(ctx context.Context, id primitive.ObjectID) ([]models.Category, error) {
	if err := s.categories.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.categories.List(ctx)
}

// ToggleCategory shows or hides a category's panel on the home page
func (s *Service) ToggleCategory(ctx context.Context, id primitive.ObjectID, enabled bool) ([]models.Category, error) {
	if err := s.categories.SetEnabled(ctx, id, enabled); err != nil {
		return nil, err
	}
	return s.categories.List(ctx)
}

// ReorderCategory sets a category's display position
func (s *Service) ReorderCategory(ctx context.Context, id primitive.ObjectID, order int) ([]models.Category, error) {
	if err := s.categories.SetOrder(ctx, id, order); err != nil {
		return nil, err
	}
	return s.categories.List(ctx)
}

// Stats summarises the store for the dashboard
type Stats struct {
	TotalProducts int            `json:"total_products"`
	TotalOrders   int            `json:"total_orders"`
	PendingOrders int            `json:"pending_orders"`
	Revenue       float64        `json:"revenue"`
	RecentOrders  []models.Order `json:"recent_orders"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// RecentOrderCount is how many orders the dashboard shows
const RecentOrderCount = 5

// Dashboard computes store totals
func (s *Service) Dashboard(ctx context.Context) (Stats, error) {
	var (
		products int64
		orders   []models.Order
		recent   []models.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = s.orders.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.orders.Recent(gctx, RecentOrderCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalProducts: int(products),
		TotalOrders:   len(orders),
		RecentOrders:  recent,
		GeneratedAt:   time.Now(),
	}
	for _, o := range orders {
		stats.Revenue += o.Price
		if o.Status == models.StatusPending {
			stats.PendingOrders++
		}
	}
	return stats, nil
}
