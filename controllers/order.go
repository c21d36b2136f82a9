package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"centremart/backoffice"
	"centremart/checkout"
	"centremart/middleware"
	"centremart/models"
	"centremart/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrderHistory reads a customer's own orders
type OrderHistory interface {
	ByUser(ctx context.Context, userID string, n int) ([]models.Order, error)
}

// OrderController handles checkout, order history and order administration
type OrderController struct {
	Checkout *checkout.Service
	Admin    *backoffice.Service
	Products ProductReader
	History  OrderHistory
	Logger   *zap.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(checkoutService *checkout.Service, admin *backoffice.Service, products ProductReader, history OrderHistory, logger *zap.Logger) *OrderController {
	return &OrderController{Checkout: checkoutService, Admin: admin, Products: products, History: history, Logger: logger}
}

// accountOrderCount is how many orders the account page lists by default
const accountOrderCount = 5

func userIDFrom(r *http.Request) string {
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		return claims.UserID
	}
	return ""
}

// CreateOrder places one order per cart line from the checkout form
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	orders, err := oc.Checkout.PlaceOrder(r.Context(), userIDFrom(r), s.Cart, form)
	var verr *checkout.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, orders)
	case errors.Is(err, checkout.ErrEmptyCart):
		http.Error(w, "Cart is empty", http.StatusBadRequest)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, verr)
	default:
		oc.Logger.Error("Failed to place order",
			zap.String("session", s.ID),
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.Error(err))
		http.Error(w, "Failed to place order", http.StatusInternalServerError)
	}
}

// BuyNow orders one product directly from its page without using the cart
func (oc *OrderController) BuyNow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	var req struct {
		checkout.Form
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	product, err := oc.Products.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		oc.Logger.Error("Error fetching product", zap.String("product_id", id.Hex()), zap.Error(err))
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}

	order, err := oc.Checkout.BuyNow(r.Context(), userIDFrom(r), *product, qty, req.Form)
	var verr *checkout.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, order)
	case errors.Is(err, checkout.ErrInvalidQuantity):
		http.Error(w, "Quantity must be at least 1", http.StatusBadRequest)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, verr)
	default:
		oc.Logger.Error("Failed to place order",
			zap.String("product_id", id.Hex()),
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.Error(err))
		http.Error(w, "Failed to place order", http.StatusInternalServerError)
	}
}

// AccountOrders lists the signed-in customer's newest orders, up to ?limit=
func (oc *OrderController) AccountOrders(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 || n > 100 {
		n = accountOrderCount
	}
	orders, err := oc.History.ByUser(r.Context(), userID, n)
	if err != nil {
		oc.Logger.Error("Failed to retrieve orders", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrders lists orders, filtered by ?search= and ?status=
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	filter := backoffice.OrderFilter{
		Search: r.URL.Query().Get("search"),
		Status: models.OrderStatus(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}
	orders, err := oc.Admin.Orders(r.Context(), filter)
	if err != nil {
		oc.Logger.Error("Failed to retrieve orders", zap.Error(err))
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus sets the status of one order
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	orders, err := oc.Admin.UpdateOrderStatus(r.Context(), id, req.Status)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, orders)
	case errors.Is(err, backoffice.ErrInvalidStatus):
		http.Error(w, "Invalid order status", http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Order not found", http.StatusNotFound)
	default:
		oc.Logger.Error("Failed to update order status", zap.String("order_id", id.Hex()), zap.Error(err))
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
	}
}

// BulkUpdateStatus sets the status of every selected order. On failure the
// reloaded order list is still returned alongside the error.
func (oc *OrderController) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs    []string           `json:"ids"`
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ids := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			http.Error(w, "Invalid order ID", http.StatusBadRequest)
			return
		}
		ids = append(ids, id)
	}

	orders, err := oc.Admin.BulkUpdateStatus(r.Context(), ids, req.Status)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, orders)
	case errors.Is(err, backoffice.ErrNoSelection):
		http.Error(w, "No orders selected", http.StatusBadRequest)
	case errors.Is(err, backoffice.ErrInvalidStatus):
		http.Error(w, "Invalid order status", http.StatusBadRequest)
	case errors.Is(err, backoffice.ErrBulkUpdateFailed):
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":  "Failed to update some orders",
			"orders": orders,
		})
	default:
		oc.Logger.Error("Failed to update order status", zap.Error(err))
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
	}
}
