// Package client is a typed Go client for the proshop REST API. It speaks
// the same response envelope the server emits and translates error bodies
// back into the shared error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/Michael-Parekh/proshop/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client calls the proshop API. It is not safe for concurrent use when the
// token is being changed; callers doing concurrent requests should set the
// token once up front.
type Client struct {
	baseURL string
	http    HTTPDoer
	token   string
}

// New creates a client against the given base URL, e.g. "http://localhost:5000".
func New(baseURL string, doer HTTPDoer) *Client {
	return &Client{baseURL: baseURL, http: doer}
}

// NewDefault creates a client with the default retrying HTTP transport.
func NewDefault(baseURL string) *Client {
	return New(baseURL, httpclient.New(httpclient.DefaultConfig()))
}

// SetToken sets the bearer token sent with subsequent requests. An empty
// string clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the currently configured bearer token.
func (c *Client) Token() string {
	return c.token
}

// do executes one API call. A nil body sends no payload; a nil out discards
// the response data. Non-2xx responses are translated via the shared error
// envelope.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call proshop api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "proshop")
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// UploadImage uploads a product image as multipart form data and returns the
// path it is served under. Admin token required.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, data io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("call proshop api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", httpclient.ParseResponseError(resp, "proshop")
	}

	var envelope struct {
		Data struct {
			Image string `json:"image"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return envelope.Data.Image, nil
}
