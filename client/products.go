package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// UpdateProductInput holds the full set of editable product fields. The
// update is a full replacement, matching PUT semantics server-side.
type UpdateProductInput struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	CountInStock int     `json:"countInStock"`
}

// ListProducts returns one page of the catalog. An empty keyword lists
// everything; page numbers start at 1 and values below 1 mean page 1.
func (c *Client) ListProducts(ctx context.Context, keyword string, page int) (*ProductPage, error) {
	q := url.Values{}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	if page > 1 {
		q.Set("pageNumber", strconv.Itoa(page))
	}
	path := "/api/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result ProductPage
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProduct returns one product by id, reviews included.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetTopProducts returns the highest rated products.
func (c *Client) GetTopProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/products/top", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct creates a placeholder product for subsequent editing.
// Admin token required.
func (c *Client) CreateProduct(ctx context.Context) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/api/products", struct{}{}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product's editable fields. Admin token required.
func (c *Client) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+id, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product by id. Admin token required.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}

// CreateReview adds the authenticated user's review to a product. A second
// review of the same product by the same user fails.
func (c *Client) CreateReview(ctx context.Context, productID string, rating int, comment string) error {
	body := map[string]any{"rating": rating, "comment": comment}
	return c.do(ctx, http.MethodPost, "/api/products/"+productID+"/reviews", body, nil)
}
