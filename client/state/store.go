package state

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Michael-Parekh/proshop/client"
)

// freeShippingThreshold is the items subtotal above which shipping is free.
const freeShippingThreshold = 100

// Store drives state transitions. Every intent follows the same shape:
// mark the slice loading, perform the API call, then store the payload or
// the normalized error. Dispatch is serialized by a single mutex; a late
// reply from a superseded call still lands, there is no request fencing.
type Store struct {
	mu      sync.Mutex
	api     *client.Client
	persist *FileStore
	state   State
}

// NewStore creates a store over the given API client, rehydrating the cart
// and session from the last saved snapshot.
func NewStore(api *client.Client, persist *FileStore) (*Store, error) {
	snap, err := persist.Load()
	if err != nil {
		return nil, fmt.Errorf("load saved state: %w", err)
	}

	s := &Store{api: api, persist: persist}
	s.state.Cart.Items = snap.CartItems
	s.state.Cart.ShippingAddress = snap.ShippingAddress
	s.state.Cart.PaymentMethod = snap.PaymentMethod
	if snap.UserInfo != nil {
		s.state.UserLogin.Data = snap.UserInfo
		api.SetToken(snap.UserInfo.Token)
	}
	return s, nil
}

// State returns a snapshot of the current state tree.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// save mirrors the durable subset of state to disk. Callers hold the lock.
func (s *Store) save() error {
	snap := &Snapshot{
		CartItems:       s.state.Cart.Items,
		ShippingAddress: s.state.Cart.ShippingAddress,
		PaymentMethod:   s.state.Cart.PaymentMethod,
		UserInfo:        s.state.UserLogin.Data,
	}
	return s.persist.Save(snap)
}

// Login authenticates and stores the session. The token is applied to the
// API client and the session is persisted.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.state.UserLogin.request()
	s.mu.Unlock()

	user, err := s.api.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.UserLogin.failure(err)
		return err
	}
	s.state.UserLogin.success(user)
	s.api.SetToken(user.Token)
	return s.save()
}

// Register creates an account and logs the new user in.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.mu.Lock()
	s.state.UserRegister.request()
	s.state.UserLogin.request()
	s.mu.Unlock()

	user, err := s.api.Register(ctx, name, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.UserRegister.failure(err)
		s.state.UserLogin.failure(err)
		return err
	}
	s.state.UserRegister.success(user)
	s.state.UserLogin.success(user)
	s.api.SetToken(user.Token)
	return s.save()
}

// Logout drops the session and resets every slice that holds data scoped to
// it, so nothing from this session leaks into the next one.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.UserLogin.reset()
	s.state.UserList.reset()
	s.state.OrderListMine.reset()
	s.state.Cart = Cart{}
	s.api.SetToken("")
	return s.save()
}

// FetchProducts loads one page of the catalog into ProductList.
func (s *Store) FetchProducts(ctx context.Context, keyword string, page int) error {
	s.mu.Lock()
	s.state.ProductList.request()
	s.mu.Unlock()

	result, err := s.api.ListProducts(ctx, keyword, page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.ProductList.failure(err)
		return err
	}
	s.state.ProductList.success(result)
	return nil
}

// FetchProduct loads one product into ProductDetails.
func (s *Store) FetchProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	s.state.ProductDetails.request()
	s.mu.Unlock()

	product, err := s.api.GetProduct(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.ProductDetails.failure(err)
		return err
	}
	s.state.ProductDetails.success(product)
	return nil
}

// FetchTopProducts loads the highest rated products into ProductTop.
func (s *Store) FetchTopProducts(ctx context.Context) error {
	s.mu.Lock()
	s.state.ProductTop.request()
	s.mu.Unlock()

	products, err := s.api.GetTopProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.ProductTop.failure(err)
		return err
	}
	s.state.ProductTop.success(products)
	return nil
}

// FetchProfile loads the authenticated user's account into UserDetails.
func (s *Store) FetchProfile(ctx context.Context) error {
	s.mu.Lock()
	s.state.UserDetails.request()
	s.mu.Unlock()

	user, err := s.api.GetProfile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.UserDetails.failure(err)
		return err
	}
	s.state.UserDetails.success(user)
	return nil
}

// FetchUsers loads every account into UserList. Admin session required.
func (s *Store) FetchUsers(ctx context.Context) error {
	s.mu.Lock()
	s.state.UserList.request()
	s.mu.Unlock()

	users, err := s.api.ListUsers(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.UserList.failure(err)
		return err
	}
	s.state.UserList.success(users)
	return nil
}

// AddToCart fetches the product and adds it to the cart with the given
// quantity, replacing the line if the product is already present. The
// quantity is capped at the stock count observed at the time of addition.
// The cart is persisted before returning.
func (s *Store) AddToCart(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return errors.New("quantity must be at least 1")
	}

	product, err := s.api.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.CountInStock < 1 {
		return errors.New("product is out of stock")
	}
	if qty > product.CountInStock {
		qty = product.CountInStock
	}

	item := CartItem{
		Product:      product.ID,
		Name:         product.Name,
		Image:        product.Image,
		Price:        product.Price,
		Qty:          qty,
		CountInStock: product.CountInStock,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.state.Cart.Items {
		if s.state.Cart.Items[i].Product == item.Product {
			s.state.Cart.Items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		s.state.Cart.Items = append(s.state.Cart.Items, item)
	}
	return s.save()
}

// RemoveFromCart drops a product's line from the cart and persists it.
func (s *Store) RemoveFromCart(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.state.Cart.Items[:0]
	for _, item := range s.state.Cart.Items {
		if item.Product != productID {
			items = append(items, item)
		}
	}
	s.state.Cart.Items = items
	return s.save()
}

// SaveShippingAddress stores the checkout destination and persists it.
func (s *Store) SaveShippingAddress(addr client.ShippingAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Cart.ShippingAddress = &addr
	return s.save()
}

// SavePaymentMethod stores the checkout payment method and persists it.
func (s *Store) SavePaymentMethod(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Cart.PaymentMethod = method
	return s.save()
}

// PlaceOrder turns the cart into an order. Shipping is free above the
// threshold, tax is a flat 15% of the items subtotal. On success the cart
// items are cleared and the result lands in OrderCreate.
func (s *Store) PlaceOrder(ctx context.Context) error {
	s.mu.Lock()
	if len(s.state.Cart.Items) == 0 {
		s.mu.Unlock()
		return errors.New("cart is empty")
	}
	if s.state.Cart.ShippingAddress == nil {
		s.mu.Unlock()
		return errors.New("no shipping address saved")
	}
	if s.state.Cart.PaymentMethod == "" {
		s.mu.Unlock()
		return errors.New("no payment method saved")
	}

	items := make([]client.OrderItem, len(s.state.Cart.Items))
	var itemsPrice float64
	for i, line := range s.state.Cart.Items {
		items[i] = client.OrderItem{
			Name:    line.Name,
			Qty:     line.Qty,
			Image:   line.Image,
			Price:   line.Price,
			Product: line.Product,
		}
		itemsPrice += line.Price * float64(line.Qty)
	}
	itemsPrice = round2(itemsPrice)

	shippingPrice := 100.0
	if itemsPrice > freeShippingThreshold {
		shippingPrice = 0
	}
	taxPrice := round2(0.15 * itemsPrice)

	input := client.CreateOrderInput{
		OrderItems:      items,
		ShippingAddress: *s.state.Cart.ShippingAddress,
		PaymentMethod:   s.state.Cart.PaymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      round2(itemsPrice + taxPrice + shippingPrice),
	}
	s.state.OrderCreate.request()
	s.mu.Unlock()

	order, err := s.api.CreateOrder(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.OrderCreate.failure(err)
		return err
	}
	s.state.OrderCreate.success(order)
	s.state.Cart.Items = nil
	return s.save()
}

// FetchOrder loads one order into OrderDetails.
func (s *Store) FetchOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	s.state.OrderDetails.request()
	s.mu.Unlock()

	order, err := s.api.GetOrder(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.OrderDetails.failure(err)
		return err
	}
	s.state.OrderDetails.success(order)
	return nil
}

// FetchMyOrders loads the session user's order history into OrderListMine.
func (s *Store) FetchMyOrders(ctx context.Context) error {
	s.mu.Lock()
	s.state.OrderListMine.request()
	s.mu.Unlock()

	orders, err := s.api.ListMyOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.OrderListMine.failure(err)
		return err
	}
	s.state.OrderListMine.success(orders)
	return nil
}

// FetchAllOrders loads every order into OrderListAll. Admin session required.
func (s *Store) FetchAllOrders(ctx context.Context) error {
	s.mu.Lock()
	s.state.OrderListAll.request()
	s.mu.Unlock()

	orders, err := s.api.ListAllOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.OrderListAll.failure(err)
		return err
	}
	s.state.OrderListAll.success(orders)
	return nil
}

// PayOrder submits a payment confirmation for an order. The paid order
// lands in both OrderPay and OrderDetails so detail views refresh.
func (s *Store) PayOrder(ctx context.Context, id string, details client.PaymentDetails) error {
	s.mu.Lock()
	s.state.OrderPay.request()
	s.mu.Unlock()

	order, err := s.api.PayOrder(ctx, id, details)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.OrderPay.failure(err)
		return err
	}
	s.state.OrderPay.success(order)
	s.state.OrderDetails.success(order)
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
