package integration

import (
	"net/http"
	"testing"
	"time"
)

// TestReadiness verifies the readiness probe of a running server.
func TestReadiness(t *testing.T) {
	skipIfNotRunning(t)

	httpc := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpc.Get(baseURL() + "/health/ready")
	if err != nil {
		t.Fatalf("readiness check failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /health/ready, got %d", resp.StatusCode)
	}
}
