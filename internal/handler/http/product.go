package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Michael-Parekh/proshop/internal/service"
	"github.com/Michael-Parekh/proshop/pkg/httputil"
	"github.com/Michael-Parekh/proshop/pkg/middleware"
	"github.com/Michael-Parekh/proshop/pkg/pagination"
	"github.com/Michael-Parekh/proshop/pkg/validator"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// UpdateProductRequest is the JSON request body for a product update. All
// fields overwrite the stored values.
type UpdateProductRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Price        float64 `json:"price" validate:"gte=0"`
	Description  string  `json:"description" validate:"max=2000"`
	Image        string  `json:"image" validate:"max=500"`
	Brand        string  `json:"brand" validate:"max=100"`
	Category     string  `json:"category" validate:"max=100"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

// CreateReviewRequest is the JSON request body for reviewing a product.
type CreateReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment" validate:"max=1000"`
}

// ProductListResponse is one page of catalog results.
type ProductListResponse struct {
	Products any `json:"products"`
	Page     int `json:"page"`
	Pages    int `json:"pages"`
}

// --- Handlers ---

// List handles GET /api/products?keyword=&pageNumber=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	params := pagination.FromRequest(r)

	page, err := h.service.List(r.Context(), keyword, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: ProductListResponse{
			Products: page.Products,
			Page:     page.Page,
			Pages:    page.Pages,
		},
	})
}

// GetTop handles GET /api/products/top
func (h *ProductHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetTop(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Create handles POST /api/products (admin). It inserts a placeholder
// product owned by the requesting admin.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID, ok := httputil.ParseObjectID(w, middleware.UserIDFromContext(r.Context()))
	if !ok {
		return
	}

	product, err := h.service.Create(r.Context(), adminID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Update handles PUT /api/products/{id} (admin)
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.Update(r.Context(), id, service.UpdateProductInput{
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		Image:        req.Image,
		Brand:        req.Brand,
		Category:     req.Category,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Delete handles DELETE /api/products/{id} (admin)
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "product removed"},
	})
}

// CreateReview handles POST /api/products/{id}/reviews
func (h *ProductHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID, ok := httputil.ParseObjectID(w, middleware.UserIDFromContext(r.Context()))
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	err := h.service.AddReview(r.Context(), id, userID, service.AddReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]string{"message": "review added"},
	})
}
