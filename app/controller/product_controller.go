package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"adega-pos/models"
	"adega-pos/repository"
	"adega-pos/service"
)

// Uploaded images larger than this are rejected.
const maxImageUploadBytes = 10 << 20

// ProductController handles HTTP requests for the product catalog
type ProductController struct {
	repository repository.ProductRepositoryInterface
	audit      repository.AuditRepositoryInterface
	images     service.ImageServiceInterface
}

// NewProductController creates a new ProductController
func NewProductController(repo repository.ProductRepositoryInterface, audit repository.AuditRepositoryInterface, images service.ImageServiceInterface) *ProductController {
	return &ProductController{
		repository: repo,
		audit:      audit,
		images:     images,
	}
}

// Collection handles GET and POST on /api/products
func (c *ProductController) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.list(w, r)
	case http.MethodPost:
		c.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Member handles /api/products/:id and /api/products/:id/image
func (c *ProductController) Member(w http.ResponseWriter, r *http.Request) {
	id, remainder, err := parseIDFromPath(r.URL.Path, "/api/products/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if remainder == "/image" {
		switch r.Method {
		case http.MethodPost:
			c.uploadImage(w, r, id)
		case http.MethodGet:
			c.getImage(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}
	if remainder != "" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c.get(w, r, id)
	case http.MethodPut:
		c.update(w, r, id)
	case http.MethodDelete:
		c.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (c *ProductController) list(w http.ResponseWriter, r *http.Request) {
	products, err := c.repository.List(r.Context())
	if err != nil {
		log.Printf("❌ ListProducts: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, models.ProductListResponse{Products: products})
}

func (c *ProductController) create(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateProduct: Received %s request to %s", r.Method, r.URL.Path)

	operatorID, err := operatorFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "name and category are required")
		return
	}
	if req.SellPrice < 0 || req.CostPrice < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "prices and stock must not be negative")
		return
	}

	product, err := c.repository.Create(r.Context(), &req)
	if err != nil {
		log.Printf("❌ CreateProduct: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c.logAction(r, operatorID, "create_product", fmt.Sprintf("Created product #%d (%s)", product.ID, product.Name))
	writeJSON(w, http.StatusOK, product)
}

func (c *ProductController) get(w http.ResponseWriter, r *http.Request, id int64) {
	product, err := c.repository.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ GetProduct: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (c *ProductController) update(w http.ResponseWriter, r *http.Request, id int64) {
	log.Printf("📥 UpdateProduct: Received %s request to %s", r.Method, r.URL.Path)

	operatorID, err := operatorFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.SellPrice < 0 || req.CostPrice < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "prices and stock must not be negative")
		return
	}

	product, err := c.repository.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ UpdateProduct: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c.logAction(r, operatorID, "update_product", fmt.Sprintf("Updated product #%d (%s)", product.ID, product.Name))
	writeJSON(w, http.StatusOK, product)
}

func (c *ProductController) delete(w http.ResponseWriter, r *http.Request, id int64) {
	log.Printf("📥 DeleteProduct: Received %s request to %s", r.Method, r.URL.Path)

	operatorID, err := operatorFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := c.repository.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ DeleteProduct: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	c.logAction(r, operatorID, "delete_product", fmt.Sprintf("Deleted product #%d", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (c *ProductController) uploadImage(w http.ResponseWriter, r *http.Request, id int64) {
	log.Printf("📥 UploadImage: Received %s request to %s", r.Method, r.URL.Path)

	operatorID, err := operatorFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImageUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image body")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "image body is empty")
		return
	}
	if len(data) > maxImageUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	imageURL, err := c.images.SaveProductImage(r.Context(), id, data)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ UploadImage: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c.logAction(r, operatorID, "update_product", fmt.Sprintf("Updated image for product #%d", id))
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}

func (c *ProductController) getImage(w http.ResponseWriter, r *http.Request, id int64) {
	size := r.URL.Query().Get("size")
	data, err := c.images.ReadProductImage(id, size)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ GetImage: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to read image")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// logAction records an administrative mutation. Audit failures here
// don't fail the request (unlike sales, where the entry is part of the
// transaction), but they are never silent.
func (c *ProductController) logAction(r *http.Request, operatorID int64, action, details string) {
	if err := c.audit.Append(r.Context(), operatorID, action, details); err != nil {
		log.Printf("⚠️ logAction: failed to append audit entry (%s): %v", action, err)
	}
}
