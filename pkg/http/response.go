package http

import (
	"fmt"
	"net/http"
)

// StatusError is returned when a server answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code for %s: %d %s", e.URL, e.StatusCode, e.Status)
}

// IsSuccessStatus reports whether code is in the 2xx range
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

// EnsureSuccess returns a *StatusError unless the response status is 2xx
func EnsureSuccess(resp *http.Response) error {
	if IsSuccessStatus(resp.StatusCode) {
		return nil
	}

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	return &StatusError{URL: url, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
}

// GetContentType returns the content type of the response
func GetContentType(resp *http.Response) string {
	return resp.Header.Get("Content-Type")
}
