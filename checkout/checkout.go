// Package checkout turns a session cart and the checkout form into orders.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"centremart/models"
	"centremart/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\- ]{6,19}$`)

// ValidationError lists the offending form fields
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid checkout form: " + strings.Join(names, ", ")
}

// Form is the checkout form
type Form struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	ZipCode       string `json:"zip_code"`
	PaymentMethod string `json:"payment_method"`
}

// Cart is the part of the cart store checkout needs
type Cart interface {
	Items() []models.CartEntry
	RemoveFromCart(productID string) error
}

// OrderWriter persists one order
type OrderWriter interface {
	InsertOrder(ctx context.Context, order *models.Order) error
}

// Service places orders
type Service struct {
	orders        OrderWriter
	mailer        utils.Mailer
	deliveryAreas []string
	logger        *zap.Logger
	now           func() time.Time
}

// NewService returns a checkout Service. An empty deliveryAreas accepts any address.
func NewService(orders OrderWriter, mailer utils.Mailer, deliveryAreas []string, logger *zap.Logger) *Service {
	return &Service{
		orders:        orders,
		mailer:        mailer,
		deliveryAreas: deliveryAreas,
		logger:        logger,
		now:           time.Now,
	}
}

// Validate checks the form and normalises it in place
func (s *Service) Validate(form *Form) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Address = strings.TrimSpace(form.Address)
	form.City = strings.TrimSpace(form.City)
	form.ZipCode = strings.TrimSpace(form.ZipCode)
	form.PaymentMethod = strings.ToLower(strings.TrimSpace(form.PaymentMethod))
	if form.PaymentMethod == "" {
		form.PaymentMethod = models.PaymentCOD
	}

	fields := map[string]string{}
	if form.Name == "" {
		fields["name"] = "required"
	}
	if form.Phone == "" {
		fields["phone"] = "required"
	} else if !phonePattern.MatchString(form.Phone) {
		fields["phone"] = "must be a phone number"
	}
	if form.Address == "" {
		fields["address"] = "required"
	} else if len(s.deliveryAreas) > 0 && !s.delivers(form.Address) {
		fields["address"] = "outside delivery area"
	}
	if form.Email != "" && !strings.Contains(form.Email, "@") {
		fields["email"] = "must be an email address"
	}
	if form.PaymentMethod != models.PaymentCOD {
		fields["payment_method"] = "only cash on delivery is accepted"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *Service) delivers(address string) bool {
	address = strings.ToLower(address)
	for _, area := range s.deliveryAreas {
		if area == address {
			return true
		}
	}
	return false
}

// PlaceOrder writes one order per cart line and then removes the ordered
// lines from the cart once every write has succeeded. Writes run
// concurrently; when any fails the call fails and orders already written
// stay in place. Lines added while the writes are in flight stay in the cart.
func (s *Service) PlaceOrder(ctx context.Context, userID string, cart Cart, form Form) ([]models.Order, error) {
	items := cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.Validate(&form); err != nil {
		return nil, err
	}

	now := s.now()
	orders := make([]models.Order, len(items))
	for i, item := range items {
		orders[i] = newOrder(userID, item, form, now)
	}
	if err := s.write(ctx, form, orders); err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := cart.RemoveFromCart(item.Product.ID.Hex()); err != nil {
			s.logger.Warn("Order placed but cart line not removed",
				zap.String("product_id", item.Product.ID.Hex()),
				zap.Error(err))
		}
	}
	s.placed(userID, form, orders)
	return orders, nil
}

// BuyNow orders qty of a single product straight away, leaving the cart alone
func (s *Service) BuyNow(ctx context.Context, userID string, product models.Product, qty int, form Form) (*models.Order, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.Validate(&form); err != nil {
		return nil, err
	}

	orders := []models.Order{newOrder(userID, models.CartEntry{Product: product, Quantity: qty}, form, s.now())}
	if err := s.write(ctx, form, orders); err != nil {
		return nil, err
	}
	s.placed(userID, form, orders)
	return &orders[0], nil
}

func newOrder(userID string, item models.CartEntry, form Form, now time.Time) models.Order {
	return models.Order{
		UserID:          userID,
		ProductID:       item.Product.ID,
		ProductName:     item.Product.Name,
		ProductImageURL: item.Product.ImageURL,
		Price:           item.Subtotal(),
		Quantity:        item.Quantity,
		CustomerName:    form.Name,
		Email:           form.Email,
		Phone:           form.Phone,
		Address:         form.Address,
		City:            form.City,
		ZipCode:         form.ZipCode,
		PaymentMethod:   form.PaymentMethod,
		Status:          models.StatusPending,
		CreatedAt:       now,
		IsGuest:         userID == "",
	}
}

func (s *Service) write(ctx context.Context, form Form, orders []models.Order) error {
	var g errgroup.Group
	for i := range orders {
		i := i
		g.Go(func() error {
			return s.orders.InsertOrder(ctx, &orders[i])
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Error placing order",
			zap.String("customer", form.Name),
			zap.Int("lines", len(orders)),
			zap.Error(err))
		return fmt.Errorf("place order: %w", err)
	}
	return nil
}

func (s *Service) placed(userID string, form Form, orders []models.Order) {
	s.logger.Info("Order placed",
		zap.String("customer", form.Name),
		zap.Int("lines", len(orders)),
		zap.Bool("guest", userID == ""))
	if form.Email != "" {
		go s.sendConfirmation(form, orders)
	}
}

func (s *Service) sendConfirmation(form Form, orders []models.Order) {
	subject, html := utils.OrderConfirmationEmail(form.Name, orders)
	if err := s.mailer.SendEmail(form.Email, subject, html); err != nil {
		s.logger.Warn("Failed to send order confirmation", zap.String("email", form.Email), zap.Error(err))
	}
}
