package http

import (
	"net/http"

	"github.com/Michael-Parekh/proshop/pkg/httputil"
)

// ConfigHandler serves client-facing configuration values.
type ConfigHandler struct {
	paypalClientID string
}

// NewConfigHandler creates a new config HTTP handler.
func NewConfigHandler(paypalClientID string) *ConfigHandler {
	return &ConfigHandler{paypalClientID: paypalClientID}
}

// GetPayPalClientID handles GET /api/config/paypal. The checkout client needs
// the public client ID to initialize the PayPal button.
func (h *ConfigHandler) GetPayPalClientID(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"clientId": h.paypalClientID},
	})
}
