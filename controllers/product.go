package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"centremart/cart"
	"centremart/feed"
	"centremart/models"
	"centremart/repository"
	"centremart/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProductReader reads the catalog
type ProductReader interface {
	Page(ctx context.Context, after *feed.Cursor, limit int) ([]models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// PanelBuilder builds the home page panels
type PanelBuilder interface {
	Build(ctx context.Context, search string) ([]models.Panel, error)
}

// ProductController handles storefront browsing requests
type ProductController struct {
	Products ProductReader
	Panels   PanelBuilder
	Logger   *zap.Logger
}

// NewProductController creates a new ProductController
func NewProductController(products ProductReader, panels PanelBuilder, logger *zap.Logger) *ProductController {
	return &ProductController{Products: products, Panels: panels, Logger: logger}
}

// Home returns the category panels, narrowed by ?search=
func (pc *ProductController) Home(w http.ResponseWriter, r *http.Request) {
	panels, err := pc.Panels.Build(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		pc.Logger.Error("Error building panels", zap.Error(err))
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"panels": panels})
}

// productView is a product as the storefront shows it
type productView struct {
	models.Product
	EffectivePrice float64 `json:"effective_price"`
	InWishlist     bool    `json:"in_wishlist,omitempty"`
}

// viewsOf prices products at now; wishlist may be nil
func viewsOf(products []models.Product, wishlist *cart.Wishlist, now time.Time) []productView {
	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = productView{Product: p, EffectivePrice: p.EffectivePrice(now)}
		if wishlist != nil {
			out[i].InWishlist = wishlist.Has(p.ID.Hex())
		}
	}
	return out
}

type feedView struct {
	Items   []productView `json:"items"`
	HasMore bool          `json:"has_more"`
	State   string        `json:"state"`
	Trigger string        `json:"trigger,omitempty"`
}

func viewOf(s *session.Session, search string) feedView {
	items := viewsOf(s.Feed.View(search), s.Wishlist, time.Now())
	trigger, _ := s.Feed.Trigger()
	return feedView{Items: items, HasMore: s.Feed.HasMore(), State: s.Feed.State().String(), Trigger: trigger}
}

// FeedNext fetches the next page into the session feed. ?initial=true restarts it.
func (pc *ProductController) FeedNext(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	initial, _ := strconv.ParseBool(r.URL.Query().Get("initial"))
	res, err := s.Feed.Fetch(r.Context(), initial)
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FeedView returns everything fetched so far, filtered by ?search=
func (pc *ProductController) FeedView(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s, r.URL.Query().Get("search")))
}

// FeedVisible reports that an item scrolled into view
func (pc *ProductController) FeedVisible(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	res, fired, err := s.Feed.Visible(r.Context(), req.ItemID)
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"fetched": fired, "result": res})
}

// GetProducts returns one page of products after the opaque ?after= cursor
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	after, err := feed.DecodeCursor(r.URL.Query().Get("after"))
	if err != nil {
		http.Error(w, "Invalid cursor", http.StatusBadRequest)
		return
	}
	limit := feed.PageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	products, err := pc.Products.Page(r.Context(), after, limit)
	if err != nil {
		pc.Logger.Error("Error fetching products", zap.Error(err))
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	resp := map[string]interface{}{"items": viewsOf(products, nil, time.Now()), "has_more": len(products) == limit}
	if len(products) > 0 {
		resp["next"] = feed.CursorOf(products[len(products)-1]).Encode()
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProductByID returns one product and records it as recently viewed
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	product, err := pc.Products.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		pc.Logger.Error("Error fetching product", zap.String("product_id", id.Hex()), zap.Error(err))
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}
	if err := s.Recent.Record(*product); err != nil {
		pc.Logger.Warn("Failed to record recently viewed product", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, viewsOf([]models.Product{*product}, s.Wishlist, time.Now())[0])
}

// RecentlyViewed lists the session's recently viewed products, up to ?limit=
func (pc *ProductController) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		n = 5
	}
	writeJSON(w, http.StatusOK, s.Recent.List(n))
}

// GetWishlist lists the session's wishlist
func (pc *ProductController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Wishlist.Items())
}

// ToggleWishlist adds a product to the wishlist, or removes it when present
func (pc *ProductController) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOf(w, r)
	if !ok {
		return
	}
	product, ok := productFromBody(w, r, pc.Products, pc.Logger, nil)
	if !ok {
		return
	}
	added, err := s.Wishlist.Toggle(*product)
	if err != nil {
		pc.Logger.Error("Failed to save wishlist", zap.String("session", s.ID), zap.Error(err))
		http.Error(w, "Failed to save wishlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"in_wishlist": added, "items": s.Wishlist.Items()})
}

// productFromBody decodes {"product_id", "quantity"} and loads the product.
// A quantity in the body is stored into *quantity when quantity is non-nil.
func productFromBody(w http.ResponseWriter, r *http.Request, products ProductReader, logger *zap.Logger, quantity *int) (*models.Product, bool) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  *int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return nil, false
	}
	if quantity != nil && req.Quantity != nil {
		*quantity = *req.Quantity
	}
	product, err := products.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		logger.Error("Error fetching product", zap.String("product_id", id.Hex()), zap.Error(err))
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return nil, false
	}
	return product, true
}
