// Package clients holds the HTTP clients for the collaborator services
// that own books, patrons and staff. Each client translates the
// collaborator's error responses at the boundary: 404 becomes
// faults.ErrNotFound, 422 becomes faults.ErrInvalidInput, and anything
// else is reported as an opaque upstream error. No call is retried.
package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"libralend/internal/faults"
)

const idLength = 36

// httpErrorInfo is the error body shape the collaborator services emit.
type httpErrorInfo struct {
	Message string `json:"message"`
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// errorMessage extracts the collaborator's error message, falling back
// to the raw body when it is not the expected JSON shape.
func errorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return err.Error()
	}
	var info httpErrorInfo
	if err := json.Unmarshal(body, &info); err == nil && info.Message != "" {
		return info.Message
	}
	return strings.TrimSpace(string(body))
}

// translateError classifies a non-2xx collaborator response.
func translateError(resp *http.Response) error {
	msg := errorMessage(resp)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", faults.ErrNotFound, msg)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", faults.ErrInvalidInput, msg)
	default:
		return &faults.UpstreamError{Status: resp.StatusCode, Message: msg}
	}
}
