// Package supabase implements the app services over a Supabase project:
// PostgREST tables and RPCs under /rest/v1 and object storage under
// /storage/v1.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/mathfra-rgb/cancelme-mvp/infra/auth"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const userAgent = "cancelme-cli/0.1"

// APIError is a non-2xx answer from the project.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client is a thin resty wrapper that injects the project key.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for baseURL. keys may be nil for projects that
// accept anonymous calls.
func NewClient(baseURL string, keys auth.KeyProvider, timeout time.Duration) *Client {
	h := resty.New()
	h.SetBaseURL(strings.TrimRight(baseURL, "/"))
	h.SetTimeout(timeout)
	h.SetHeader("User-Agent", userAgent)
	h.JSONMarshal = json.Marshal
	h.JSONUnmarshal = json.Unmarshal

	h.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if keys != nil {
			key, err := keys.APIKey()
			if err != nil {
				return fmt.Errorf("auth: %w", err)
			}
			req.SetHeader("apikey", key)
			req.SetAuthToken(key)
		}
		logging.Debug("http request", "method", req.Method, "url", req.URL)
		return nil
	})
	h.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logging.Debug("http response", "status", resp.StatusCode(), "took", resp.Time())
		return nil
	})
	return &Client{http: h}
}

// BaseURL returns the project URL without trailing slash.
func (c *Client) BaseURL() string { return c.http.BaseURL }

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// check turns transport failures and non-2xx statuses into errors.
func check(resp *resty.Response, err error, method, path string) error {
	if err != nil {
		return fmt.Errorf("request to %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

// inList encodes ids as a PostgREST in.(...) filter value.
func inList(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// contentRangeTotal parses the total from a Content-Range header such as
// "0-19/57" or "*/0". It returns -1 when the total is unknown.
func contentRangeTotal(h string) int {
	i := strings.LastIndexByte(h, '/')
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(h[i+1:])
	if err != nil {
		return -1
	}
	return n
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
