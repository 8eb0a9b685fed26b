// Package errors turns non-2xx upstream HTTP responses into typed errors.
package errors

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// HTTPError is a failed upstream call.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("http %d %s", e.StatusCode, e.Status)
}

// Unauthorized reports 401 and 403 responses.
func (e *HTTPError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// ParseHTTPError returns nil for 2xx statuses. Otherwise it reads the body
// and extracts the most specific message it recognises. The caller still
// owns resp.Body.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("read error body: %v", err),
		}
	}

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
		Message:    extractMessage(body),
	}
}

// extractMessage understands the shapes returned by GoTrue
// ({"msg"}, {"error_description"}), inference APIs ({"error"}, possibly
// nested) and JSON:API ({"errors":[{"title","detail"}]}).
func extractMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}

	doc := gjson.ParseBytes(body)
	for _, path := range []string{"error_description", "msg", "message", "error.message", "error"} {
		if r := doc.Get(path); r.Exists() && r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}

	if errs := doc.Get("errors"); errs.IsArray() {
		var parts []string
		errs.ForEach(func(_, e gjson.Result) bool {
			title, detail := e.Get("title").String(), e.Get("detail").String()
			if detail != "" {
				parts = append(parts, title+": "+detail)
			} else if title != "" {
				parts = append(parts, title)
			}
			return true
		})
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	return strings.TrimSpace(string(body))
}

// AsHTTPError unwraps err to an *HTTPError.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	if httpErr, ok := AsHTTPError(err); ok {
		return httpErr.StatusCode
	}
	return 0
}
