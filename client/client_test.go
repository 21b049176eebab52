package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
	"github.com/Michael-Parekh/proshop/pkg/httpclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, httpclient.New(httpclient.Config{Timeout: 5 * time.Second}))
}

func writeData(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func writeAPIError(t *testing.T, w http.ResponseWriter, status int, code, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	}))
}

func TestLogin_DecodesUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "john@example.com", body["email"])

		writeData(t, w, http.StatusOK, User{ID: "u1", Name: "John", Email: "john@example.com", Token: "tok"})
	})

	user, err := c.Login(context.Background(), "john@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "John", user.Name)
	assert.Equal(t, "tok", user.Token)
}

func TestAuthorizationHeaderSent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		writeData(t, w, http.StatusOK, User{ID: "u1"})
	})
	c.SetToken("secret-token")

	_, err := c.GetProfile(context.Background())
	require.NoError(t, err)
}

func TestListProducts_BuildsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "phone", r.URL.Query().Get("keyword"))
		assert.Equal(t, "2", r.URL.Query().Get("pageNumber"))
		writeData(t, w, http.StatusOK, ProductPage{Products: []Product{{ID: "p1"}}, Page: 2, Pages: 3})
	})

	page, err := c.ListProducts(context.Background(), "phone", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Products, 1)
}

func TestListProducts_FirstPageOmitsParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeData(t, w, http.StatusOK, ProductPage{Page: 1, Pages: 1})
	})

	_, err := c.ListProducts(context.Background(), "", 1)
	require.NoError(t, err)
}

func TestErrorEnvelopeMapsToTaxonomy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(t, w, http.StatusNotFound, "NOT_FOUND", "product with id p404 not found")
	})

	_, err := c.GetProduct(context.Background(), "p404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestLoginFailureKeepsServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(t, w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid email or password")
	})

	_, err := c.Login(context.Background(), "john@example.com", "wrong")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Message, "invalid email or password")
}

func TestPayOrder_SendsPayerDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/orders/o1/pay", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "COMPLETED", body["status"])
		payer, ok := body["payer"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "buyer@example.com", payer["email_address"])

		writeData(t, w, http.StatusOK, Order{ID: "o1", IsPaid: true})
	})

	details := PaymentDetails{ID: "PAY-1", Status: "COMPLETED"}
	details.Payer.EmailAddress = "buyer@example.com"
	order, err := c.PayOrder(context.Background(), "o1", details)
	require.NoError(t, err)
	assert.True(t, order.IsPaid)
}

func TestDeleteProduct_NoResponseBodyNeeded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeData(t, w, http.StatusOK, map[string]string{"message": "product removed"})
	})

	require.NoError(t, c.DeleteProduct(context.Background(), "p1"))
}

func TestGetPayPalClientID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/config/paypal", r.URL.Path)
		writeData(t, w, http.StatusOK, map[string]string{"clientId": "sb"})
	})

	id, err := c.GetPayPalClientID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sb", id)
}
