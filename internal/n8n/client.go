package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"n8nmcp/pkg/logging"
)

const (
	// DefaultHTTPTimeout is applied to every call, regardless of verb.
	DefaultHTTPTimeout = 30 * time.Second

	// APIKeyHeader carries the user's n8n API key. n8n does not accept
	// bearer tokens on its public API.
	APIKeyHeader = "X-N8N-API-KEY"

	// maxErrorBody bounds how much of an error response is kept for diagnostics.
	maxErrorBody = 4096
)

// ErrUnsupportedMethod is returned (inside a Result) for verbs other than
// GET, POST, PUT, DELETE and PATCH.
var ErrUnsupportedMethod = errors.New("unsupported HTTP method")

// Request describes one call to the n8n REST API.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "workflows/123".
	Path  string
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body interface{}
	// BaseURL overrides the client's default base URL when non-empty.
	BaseURL string
}

// Client performs calls against the n8n REST API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets the default base URL used when a request has no override.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a new n8n API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL:    DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the effective base URL for an optional per-user override.
func (c *Client) BaseURL(override string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override)
	}
	return c.baseURL
}

// Execute performs one call against the REST API. It never returns an error:
// failures (transport, timeout, non-2xx, undecodable body) are reported in
// the Result.
func (c *Client) Execute(ctx context.Context, apiKey string, req Request) Result {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
	default:
		return Result{Err: fmt.Errorf("%w: %s", ErrUnsupportedMethod, req.Method)}
	}

	target := JoinURL(c.BaseURL(req.BaseURL), req.Path)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	return c.CallURL(ctx, apiKey, method, target, req.Body)
}

// CallURL performs a JSON call against an absolute URL, used for the
// host-rooted webhook and run endpoints. An empty apiKey sends no key header.
func (c *Client) CallURL(ctx context.Context, apiKey, method, target string, body interface{}) Result {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		httpReq.Header.Set(APIKeyHeader, apiKey)
	}

	return c.do(httpReq)
}

// SubmitForm posts fields as multipart/form-data to an absolute URL, the way
// a browser submits an n8n form. List values become repeated parts.
func (c *Client) SubmitForm(ctx context.Context, target string, fields map[string]interface{}) Result {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, key := range sortedKeys(fields) {
		for _, v := range formValues(fields[key]) {
			if err := w.WriteField(key, v); err != nil {
				return Result{Err: fmt.Errorf("failed to encode form field %s: %w", key, err)}
			}
		}
	}
	if err := w.Close(); err != nil {
		return Result{Err: fmt.Errorf("failed to encode form: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json, text/html")

	return c.do(httpReq)
}

func (c *Client) do(httpReq *http.Request) Result {
	logging.Debug("N8NClient", "%s %s", httpReq.Method, redactQuery(httpReq.URL))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logging.Warn("N8NClient", "%s %s failed: %v", httpReq.Method, redactQuery(httpReq.URL), err)
		return Result{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	res := Result{StatusCode: resp.StatusCode, Raw: raw}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Err = &StatusError{StatusCode: resp.StatusCode, Body: truncateBody(raw)}
		logging.Warn("N8NClient", "%s %s returned HTTP %d: %s", httpReq.Method, redactQuery(httpReq.URL), resp.StatusCode, truncateBody(raw))
		return res
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return res
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		// Webhook and form endpoints may legitimately answer with text or HTML.
		data = string(raw)
	}
	res.Data = data
	return res
}

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func truncateBody(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

func redactQuery(u *url.URL) string {
	if u == nil {
		return ""
	}
	cp := *u
	cp.RawQuery = ""
	return cp.String()
}

func formValues(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, formScalar(item))
		}
		return out
	case []string:
		return t
	default:
		return []string{formScalar(t)}
	}
}

func formScalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]interface{}:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
