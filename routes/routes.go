// routes/routes.go
package routes

import (
	"net/http"

	"centremart/controllers"
	"centremart/middleware"
	"centremart/session"

	"github.com/gorilla/mux"
)

// Controllers groups the handlers the router dispatches to
type Controllers struct {
	User    *controllers.UserController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Admin   *controllers.AdminController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, sessions *session.Registry) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Public routes
	router.HandleFunc("/register", c.User.Register).Methods("POST")
	router.HandleFunc("/login", c.User.Login).Methods("POST")
	router.HandleFunc("/products", c.Product.GetProducts).Methods("GET")

	// Customer account routes
	account := router.PathPrefix("/account").Subrouter()
	account.Use(middleware.AuthMiddleware)
	account.HandleFunc("/orders", c.Order.AccountOrders).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/dashboard", c.Admin.Dashboard).Methods("GET")
	admin.HandleFunc("/products", c.Admin.GetProducts).Methods("GET")
	admin.HandleFunc("/products", c.Admin.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/bulk", c.Admin.BulkImport).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Admin.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/products/{id}/offer", c.Admin.UpdateOffer).Methods("PUT")
	admin.HandleFunc("/orders", c.Order.GetOrders).Methods("GET")
	admin.HandleFunc("/orders/status", c.Order.BulkUpdateStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}/status", c.Order.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/categories", c.Admin.GetCategories).Methods("GET")
	admin.HandleFunc("/categories", c.Admin.AddCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", c.Admin.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id}", c.Admin.DeleteCategory).Methods("DELETE")

	// Storefront routes, scoped to the caller's browsing session
	store := router.PathPrefix("/").Subrouter()
	store.Use(middleware.OptionalAuth)
	store.Use(middleware.Session(sessions))
	store.HandleFunc("/home", c.Product.Home).Methods("GET")
	store.HandleFunc("/feed", c.Product.FeedView).Methods("GET")
	store.HandleFunc("/feed/next", c.Product.FeedNext).Methods("POST")
	store.HandleFunc("/feed/visible", c.Product.FeedVisible).Methods("POST")
	store.HandleFunc("/products/{id}", c.Product.GetProductByID).Methods("GET")
	store.HandleFunc("/recent", c.Product.RecentlyViewed).Methods("GET")
	store.HandleFunc("/wishlist", c.Product.GetWishlist).Methods("GET")
	store.HandleFunc("/wishlist", c.Product.ToggleWishlist).Methods("POST")

	// Cart Routes
	store.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	store.HandleFunc("/cart", c.Cart.AddToCart).Methods("POST")
	store.HandleFunc("/cart", c.Cart.ClearCart).Methods("DELETE")
	store.HandleFunc("/cart/{id}", c.Cart.UpdateQuantity).Methods("PUT")
	store.HandleFunc("/cart/{id}", c.Cart.RemoveFromCart).Methods("DELETE")

	// Order Routes
	store.HandleFunc("/checkout", c.Order.CreateOrder).Methods("POST")
	store.HandleFunc("/products/{id}/order", c.Order.BuyNow).Methods("POST")
}
