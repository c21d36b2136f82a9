package models

// CartEntry is a product snapshot and the quantity held in a cart
type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price times quantity
func (e CartEntry) Subtotal() float64 {
	return e.Product.Price * float64(e.Quantity)
}

// CartSummary is the cart as returned to clients
type CartSummary struct {
	Items      []CartEntry `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}
