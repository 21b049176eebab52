// Package state is a predictable-state container over the API client. Each
// intent runs the same request/success/failure lifecycle against one named
// slice of state, and a subset of state (cart, shipping address, payment
// method, session) is mirrored into a durable JSON file synchronously after
// every transition that touches it.
package state

import (
	"errors"

	"github.com/Michael-Parekh/proshop/client"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

// Slice is one named piece of client state with its loading and error flags.
type Slice[T any] struct {
	Loading bool
	Error   string
	Data    T
}

func (s *Slice[T]) request() {
	s.Loading = true
	s.Error = ""
}

func (s *Slice[T]) success(data T) {
	s.Data = data
	s.Loading = false
	s.Error = ""
}

func (s *Slice[T]) failure(err error) {
	s.Loading = false
	s.Error = normalizeError(err)
}

func (s *Slice[T]) reset() {
	*s = Slice[T]{}
}

// CartItem is one line in the cart. Product data is snapshotted at add time
// so the cart renders without refetching.
type CartItem struct {
	Product      string  `json:"product"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	Qty          int     `json:"qty"`
	CountInStock int     `json:"countInStock"`
}

// Cart holds the items plus the checkout selections made so far.
type Cart struct {
	Items           []CartItem
	ShippingAddress *client.ShippingAddress
	PaymentMethod   string
}

// State is the full client state tree. Values are snapshots; mutate only
// through Store intents.
type State struct {
	UserLogin    Slice[*client.User]
	UserRegister Slice[*client.User]
	UserDetails  Slice[*client.User]
	UserList     Slice[[]client.User]

	ProductList    Slice[*client.ProductPage]
	ProductDetails Slice[*client.Product]
	ProductTop     Slice[[]client.Product]

	OrderCreate   Slice[*client.Order]
	OrderDetails  Slice[*client.Order]
	OrderPay      Slice[*client.Order]
	OrderListMine Slice[[]client.Order]
	OrderListAll  Slice[[]client.Order]

	Cart Cart
}

// normalizeError flattens any failure into a human-readable string. API
// errors keep their server-side message; transport errors fall back to
// Error().
func normalizeError(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
