package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"centremart/backoffice"
	"centremart/catalog"
	"centremart/models"
	"centremart/repository"
	"centremart/upload"

	"go.uber.org/zap"
)

// maxBulkUpload bounds bulk import bodies
const maxBulkUpload = 10 << 20

// AdminController handles product, category and dashboard administration
type AdminController struct {
	Admin  *backoffice.Service
	Logger *zap.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(admin *backoffice.Service, logger *zap.Logger) *AdminController {
	return &AdminController{Admin: admin, Logger: logger}
}

// Dashboard returns store totals and the latest orders
func (ac *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := ac.Admin.Dashboard(r.Context())
	if err != nil {
		ac.Logger.Error("Error computing dashboard", zap.Error(err))
		http.Error(w, "Error fetching dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetProducts lists the whole catalog
func (ac *AdminController) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := ac.Admin.Products(r.Context())
	if err != nil {
		ac.Logger.Error("Error fetching products", zap.Error(err))
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProduct adds a product from a multipart form with an "image" file
func (ac *AdminController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(upload.MaxImageSize + 1<<20); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}
	in := catalog.ProductInput{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	var img upload.Image
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Failed to retrieve file", http.StatusBadRequest)
			return
		}
		img = upload.Image{Filename: header.Filename, ContentType: header.Header.Get("Content-Type"), Data: data}
	}

	products, err := ac.Admin.CreateProduct(r.Context(), in, img)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, products)
	case errors.Is(err, catalog.ErrInvalidProduct):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, upload.ErrNotConfigured):
		http.Error(w, "Image upload is not configured", http.StatusServiceUnavailable)
	case errors.Is(err, upload.ErrUploadFailed):
		ac.Logger.Error("Image upload failed", zap.Error(err))
		http.Error(w, "Image upload failed", http.StatusBadGateway)
	default:
		ac.Logger.Error("Error creating product", zap.Error(err))
		http.Error(w, "Error creating product", http.StatusInternalServerError)
	}
}

// BulkImport inserts many products. The body is either pipe-separated text,
// one product per line, or a multipart form carrying an .xlsx "file".
func (ac *AdminController) BulkImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBulkUpload)

	var products []models.Product
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Failed to retrieve file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if strings.ToLower(filepath.Ext(header.Filename)) != ".xlsx" {
			http.Error(w, "Only .xlsx workbooks are supported", http.StatusBadRequest)
			return
		}
		products, err = catalog.ParseBulkSheet(file)
		if err != nil {
			http.Error(w, "Failed to read workbook", http.StatusBadRequest)
			return
		}
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Invalid input", http.StatusBadRequest)
			return
		}
		products = catalog.ParseBulkText(string(body))
	}
	if len(products) == 0 {
		http.Error(w, "No valid products found", http.StatusBadRequest)
		return
	}

	n, list, err := ac.Admin.BulkImport(r.Context(), products)
	if err != nil {
		ac.Logger.Error("Bulk import failed", zap.Int("inserted", n), zap.Int("parsed", len(products)), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":    "Bulk import stopped",
			"inserted": n,
			"products": list,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"inserted": n, "products": list})
}

// DeleteProduct removes a product
func (ac *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	products, err := ac.Admin.DeleteProduct(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, products)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Product not found", http.StatusNotFound)
	default:
		ac.Logger.Error("Error deleting product", zap.String("product_id", id.Hex()), zap.Error(err))
		http.Error(w, "Error deleting product", http.StatusInternalServerError)
	}
}

// UpdateOffer sets or clears a product's offer
func (ac *AdminController) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	var offer models.Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	products, err := ac.Admin.UpdateOffer(r.Context(), id, offer)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, products)
	case errors.Is(err, backoffice.ErrInvalidOffer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Product not found", http.StatusNotFound)
	default:
		ac.Logger.Error("Error updating offer", zap.String("product_id", id.Hex()), zap.Error(err))
		http.Error(w, "Error updating offer", http.StatusInternalServerError)
	}
}

// GetCategories lists the home page panel configuration
func (ac *AdminController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := ac.Admin.Categories(r.Context())
	if err != nil {
		ac.Logger.Error("Error fetching categories", zap.Error(err))
		http.Error(w, "Error fetching categories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// AddCategory appends a new, disabled category
func (ac *AdminController) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	categories, err := ac.Admin.AddCategory(r.Context(), req.Name)
	ac.writeCategories(w, http.StatusCreated, categories, err)
}

// DeleteCategory removes a category
func (ac *AdminController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}
	categories, err := ac.Admin.DeleteCategory(r.Context(), id)
	ac.writeCategories(w, http.StatusOK, categories, err)
}

// UpdateCategory toggles a category's panel and/or moves it in the display order
func (ac *AdminController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Enabled *bool `json:"enabled"`
		Order   *int  `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || (req.Enabled == nil && req.Order == nil) {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	var (
		categories []models.Category
		err        error
	)
	if req.Enabled != nil {
		categories, err = ac.Admin.ToggleCategory(r.Context(), id, *req.Enabled)
	}
	if err == nil && req.Order != nil {
		categories, err = ac.Admin.ReorderCategory(r.Context(), id, *req.Order)
	}
	ac.writeCategories(w, http.StatusOK, categories, err)
}

func (ac *AdminController) writeCategories(w http.ResponseWriter, status int, categories []models.Category, err error) {
	switch {
	case err == nil:
		writeJSON(w, status, categories)
	case errors.Is(err, backoffice.ErrInvalidCategory):
		http.Error(w, "Category name is required", http.StatusBadRequest)
	case errors.Is(err, backoffice.ErrDuplicateCategory):
		http.Error(w, "Category already exists", http.StatusConflict)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Category not found", http.StatusNotFound)
	default:
		ac.Logger.Error("Error updating categories", zap.Error(err))
		http.Error(w, "Error updating categories", http.StatusInternalServerError)
	}
}
