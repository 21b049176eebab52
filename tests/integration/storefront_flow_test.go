package integration

import (
	"context"
	"testing"
)

// TestRegisterLoginProfileFlow walks the full account lifecycle against a
// running server: register, log in with the same credentials, read the
// profile with the issued token.
func TestRegisterLoginProfileFlow(t *testing.T) {
	skipIfNotRunning(t)

	ctx := context.Background()
	api := newClient()
	email := uniqueEmail("flow")

	registered, err := api.Register(ctx, "Flow Tester", email, "s3cret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Token == "" {
		t.Fatal("register returned no token")
	}

	session, err := api.Login(ctx, email, "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	api.SetToken(session.Token)
	profile, err := api.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Email != email {
		t.Fatalf("profile email = %q, want %q", profile.Email, email)
	}
}

// TestBrowseCatalog lists the catalog and fetches a product detail page.
// Requires seeded data (go run ./scripts/seed).
func TestBrowseCatalog(t *testing.T) {
	skipIfNotRunning(t)

	ctx := context.Background()
	api := newClient()

	page, err := api.ListProducts(ctx, "", 1)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(page.Products) == 0 {
		t.Skip("no products in database; run the seed script first")
	}

	product, err := api.GetProduct(ctx, page.Products[0].ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.ID != page.Products[0].ID {
		t.Fatalf("product id = %q, want %q", product.ID, page.Products[0].ID)
	}

	if _, err := api.GetTopProducts(ctx); err != nil {
		t.Fatalf("get top products: %v", err)
	}
}

// TestOrderFlow places an order from a seeded product and reads it back.
func TestOrderFlow(t *testing.T) {
	skipIfNotRunning(t)

	ctx := context.Background()
	api := newClient()

	user, err := api.Register(ctx, "Order Tester", uniqueEmail("order"), "s3cret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	api.SetToken(user.Token)

	page, err := api.ListProducts(ctx, "", 1)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(page.Products) == 0 {
		t.Skip("no products in database; run the seed script first")
	}
	product := page.Products[0]

	created, err := api.CreateOrder(ctx, clientOrderInput(product.ID, product.Name, product.Price))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.IsPaid || created.IsDelivered {
		t.Fatal("new order must start unpaid and undelivered")
	}

	fetched, err := api.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("order id = %q, want %q", fetched.ID, created.ID)
	}

	mine, err := api.ListMyOrders(ctx)
	if err != nil {
		t.Fatalf("list my orders: %v", err)
	}
	if len(mine) == 0 {
		t.Fatal("expected the placed order in my orders")
	}
}

// TestReviewFlow submits reviews from two fresh accounts and checks that the
// product rating settles on the mean and that a second review from the same
// account is rejected.
func TestReviewFlow(t *testing.T) {
	skipIfNotRunning(t)

	ctx := context.Background()
	api := newClient()

	page, err := api.ListProducts(ctx, "", 1)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(page.Products) == 0 {
		t.Skip("no products in database; run the seed script first")
	}
	product := page.Products[0]
	baseCount := product.NumReviews

	first, err := api.Register(ctx, "Reviewer One", uniqueEmail("review1"), "s3cret-pass")
	if err != nil {
		t.Fatalf("register first reviewer: %v", err)
	}
	api.SetToken(first.Token)
	if err := api.CreateReview(ctx, product.ID, 4, "good value"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if err := api.CreateReview(ctx, product.ID, 5, "changed my mind"); err == nil {
		t.Fatal("second review from the same account must fail")
	}

	second, err := api.Register(ctx, "Reviewer Two", uniqueEmail("review2"), "s3cret-pass")
	if err != nil {
		t.Fatalf("register second reviewer: %v", err)
	}
	api.SetToken(second.Token)
	if err := api.CreateReview(ctx, product.ID, 5, "excellent"); err != nil {
		t.Fatalf("second reviewer: %v", err)
	}

	updated, err := api.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if updated.NumReviews != baseCount+2 {
		t.Fatalf("numReviews = %d, want %d", updated.NumReviews, baseCount+2)
	}
	if updated.NumReviews != len(updated.Reviews) {
		t.Fatalf("numReviews = %d but %d reviews embedded", updated.NumReviews, len(updated.Reviews))
	}

	var sum float64
	for _, r := range updated.Reviews {
		sum += float64(r.Rating)
	}
	want := sum / float64(len(updated.Reviews))
	if diff := updated.Rating - want; diff > 0.001 || diff < -0.001 {
		t.Fatalf("rating = %v, want mean %v", updated.Rating, want)
	}
}
