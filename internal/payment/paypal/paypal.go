// Package paypal implements payment verification against the PayPal Orders
// API.
package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Michael-Parekh/proshop/internal/payment"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
	"github.com/Michael-Parekh/proshop/pkg/httpclient"
)

// Config holds PayPal API credentials and endpoint.
type Config struct {
	// APIBase is the REST endpoint, e.g. https://api-m.sandbox.paypal.com.
	APIBase  string
	ClientID string
	Secret   string
}

// Provider verifies captures against the PayPal Orders API. Access tokens are
// cached until shortly before expiry.
type Provider struct {
	cfg    Config
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewProvider creates a PayPal provider using the given HTTP client.
func NewProvider(cfg Config, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "paypal"
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type orderResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// VerifyOrder fetches the PayPal order and returns its capture state.
func (p *Provider) VerifyOrder(ctx context.Context, providerOrderID string) (*payment.Verification, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s", p.cfg.APIBase, providerOrderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch paypal order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.PaymentFailed("payment not found at provider")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paypal order lookup returned status %d", resp.StatusCode)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode paypal order: %w", err)
	}

	return &payment.Verification{
		ProviderOrderID: order.ID,
		Status:          order.Status,
		UpdateTime:      order.UpdateTime,
		EmailAddress:    order.Payer.EmailAddress,
	}, nil
}

// token returns a cached access token, refreshing it when missing or about
// to expire.
func (p *Provider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	url := p.cfg.APIBase + "/v1/oauth2/token"
	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	creds := base64.StdEncoding.EncodeToString([]byte(p.cfg.ClientID + ":" + p.cfg.Secret))
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("fetch paypal token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode paypal token: %w", err)
	}

	p.accessToken = tr.AccessToken
	// Refresh a minute early to avoid using a token that expires in flight.
	p.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)

	p.logger.DebugContext(ctx, "refreshed paypal access token")

	return p.accessToken, nil
}
