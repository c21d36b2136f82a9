package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"centremart/cart"

	"go.uber.org/zap"
)

// CartController handles cart-related requests for the caller's session
type CartController struct {
	Products ProductReader
	Logger   *zap.Logger
}

// NewCartController creates a new CartController
func NewCartController(products ProductReader, logger *zap.Logger) *CartController {
	return &CartController{Products: products, Logger: logger}
}

// GetCart returns the cart with its totals
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Cart.Summary())
}

// AddToCart adds a product to the cart. Quantity defaults to 1.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	quantity := 1
	product, ok := productFromBody(w, r, cc.Products, cc.Logger, &quantity)
	if !ok {
		return
	}
	if err := s.Cart.AddToCart(*product, quantity); err != nil {
		cc.cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Cart.Summary())
}

// UpdateQuantity sets the quantity of a cart line; zero or less removes it
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if err := s.Cart.UpdateQuantity(id.Hex(), req.Quantity); err != nil {
		cc.cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Cart.Summary())
}

// RemoveFromCart removes a product from the cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	if err := s.Cart.RemoveFromCart(id.Hex()); err != nil {
		cc.cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Cart.Summary())
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	if err := s.Cart.ClearCart(); err != nil {
		cc.cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Cart.Summary())
}

func (cc *CartController) cartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		http.Error(w, "Quantity must be at least 1", http.StatusBadRequest)
	case errors.Is(err, cart.ErrNotInCart):
		http.Error(w, "Product not in cart", http.StatusNotFound)
	default:
		cc.Logger.Error("Failed to save cart", zap.Error(err))
		http.Error(w, "Failed to save cart", http.StatusInternalServerError)
	}
}
