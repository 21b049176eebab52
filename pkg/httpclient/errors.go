package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

// RemoteErrorResponse mirrors the httputil.ErrorResponse structure returned by
// the storefront API. It is used to parse structured error bodies from
// outbound HTTP calls.
type RemoteErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the response body matches the standard
// ErrorResponse format, the code and message are preserved. Otherwise a
// generic error is returned with the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, remoteName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", remoteName, resp.StatusCode, err)
	}

	var remote RemoteErrorResponse
	if json.Unmarshal(bodyBytes, &remote) == nil && remote.Error != nil {
		return mapRemoteError(resp.StatusCode, remote.Error.Code, remote.Error.Message, remoteName)
	}

	// Fallback: unstructured error body.
	return fmt.Errorf("%s returned status %d: %s", remoteName, resp.StatusCode, string(bodyBytes))
}

// mapRemoteError translates a remote HTTP status code and error code into an
// AppError that preserves the error semantics.
func mapRemoteError(status int, code, message, remoteName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", remoteName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(remoteName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthenticated(qualifiedMsg)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualifiedMsg)
	case status == http.StatusUnprocessableEntity:
		return apperrors.PaymentFailed(qualifiedMsg)
	case status >= 500:
		return fmt.Errorf("%s server error (%d/%s): %s", remoteName, status, code, message)
	default:
		return &apperrors.AppError{
			Code:    code,
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
