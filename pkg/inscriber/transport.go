package inscriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is returned when the inscription service answers outside the 2xx range.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inscriber API %s %s failed with status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

// call sends payload as JSON (nil for no body) and decodes the response into target.
func (c *Client) call(ctx context.Context, method, endpoint string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.resolveURL(endpoint), body)
	if err != nil {
		return err
	}
	request.Header.Set("x-api-key", c.apiKey)
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: response.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode inscriber API response: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "http://"), strings.HasPrefix(endpoint, "https://"):
		return endpoint
	case strings.HasPrefix(endpoint, "/"):
		return c.baseURL + endpoint
	default:
		return c.baseURL + "/" + endpoint
	}
}

var transientErrorFragments = []string{
	"timeout",
	"timed out",
	"temporarily unavailable",
	"connection reset",
	"broken pipe",
	"eof",
}

// isRetryableWaitError reports whether a status poll failed for a transient reason.
// Server errors are retried; cancellation never is.
func isRetryableWaitError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}

	lower := strings.ToLower(err.Error())
	for _, fragment := range transientErrorFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
