package mock

import (
	"context"
	"time"

	"github.com/Michael-Parekh/proshop/internal/payment"
)

// Provider is a mock payment provider that reports every capture as
// completed. It is intended for development and testing purposes.
type Provider struct{}

// NewProvider creates a new mock payment provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "mock"
}

// VerifyOrder reports the capture as completed.
func (p *Provider) VerifyOrder(_ context.Context, providerOrderID string) (*payment.Verification, error) {
	return &payment.Verification{
		ProviderOrderID: providerOrderID,
		Status:          "COMPLETED",
		UpdateTime:      time.Now().UTC().Format(time.RFC3339),
		EmailAddress:    "buyer@example.com",
	}, nil
}
