package payment

import (
	"context"
)

// Verification holds the provider's view of a captured payment.
type Verification struct {
	ProviderOrderID string
	Status          string // "COMPLETED" when the capture went through
	UpdateTime      string
	EmailAddress    string
}

// Verified reports whether the capture completed on the provider side.
func (v *Verification) Verified() bool {
	return v.Status == "COMPLETED"
}

// Provider defines the interface for payment provider integrations. The
// storefront never charges directly; the client-side checkout does, and the
// server verifies the resulting capture before marking an order paid.
type Provider interface {
	// Name returns the provider name (e.g., "mock", "paypal").
	Name() string

	// VerifyOrder fetches the provider's record of the given checkout and
	// returns its capture state.
	VerifyOrder(ctx context.Context, providerOrderID string) (*Verification, error)
}
