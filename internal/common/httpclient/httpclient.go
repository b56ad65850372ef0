package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theiacloud/theiacloud-go/internal/common/logtrace"
	"github.com/tidwall/gjson"
)

// Configurator provides the service root and authentication details for a client.
type Configurator interface {
	GetServerURL() string
	GetToken() string
	GetTokenExpiry() time.Time
}

// HTTPError represents an error response from the server with HTTP status code and message.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Message    string // Error message or response body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	return e.Message
}

// HTTPClient makes requests against a single Theia Cloud service root.
type HTTPClient struct {
	config Configurator
	doer   Doer
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	Doer Doer // If set, used instead of a new http.Client
}

// NewClient creates a new HTTP client for the service root provided by config.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	doer := clientOpts.Doer
	if doer == nil {
		doer = NewDoer(false)
	}
	return &HTTPClient{
		config: config,
		doer:   doer,
	}
}

// NewDoer returns an http.Client, skipping TLS certificate validation if asked to.
// Share the result between clients so connections are reused.
func NewDoer(disableCertValidation bool) Doer {
	httpClient := &http.Client{}
	if disableCertValidation {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
		httpClient.Transport = transport
	}
	return httpClient
}

// RequestOptions contains options for making HTTP requests.
// Method and Path are required.
type RequestOptions struct {
	Method string // HTTP method
	// Path is appended to the service root as is. It must already be escaped;
	// dot segments are not resolved.
	Path    string
	Body    []byte        // Optional JSON request body
	Timeout time.Duration // Optional per-call timeout
}

// CallOption adjusts the RequestOptions of a single call.
type CallOption func(*RequestOptions)

// WithTimeout bounds the call, including reading the response body.
func WithTimeout(d time.Duration) CallOption {
	return func(o *RequestOptions) {
		o.Timeout = d
	}
}

// DoRequest makes an HTTP request with the given options and returns the response body.
// Responses with a status of 400 or above are returned as *HTTPError.
func (c *HTTPClient) DoRequest(ctx context.Context, opts RequestOptions) ([]byte, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if err := appendPath(u, opts.Path); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		bodyReader = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logtrace.RequestIdFromContext(ctx); id != "" {
		req.Header.Set(logtrace.RequestIDHeader, id)
	}
	c.authorize(req)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newHTTPError(resp.StatusCode, body)
	}
	return body, nil
}

// appendPath appends the escaped path p to u without cleaning it, so escaped
// separators and dot segments inside path parameters stay part of their segment.
func appendPath(u *url.URL, p string) error {
	escaped := strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.TrimPrefix(p, "/")
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return fmt.Errorf("invalid request path %q: %w", p, err)
	}
	u.Path = unescaped
	u.RawPath = escaped
	return nil
}

// authorize sets the bearer token unless it is missing or expired.
// A zero expiry means the token does not expire.
func (c *HTTPClient) authorize(req *http.Request) {
	token := c.config.GetToken()
	if token == "" {
		return
	}
	expiry := c.config.GetTokenExpiry()
	if !expiry.IsZero() && !time.Now().Before(expiry) {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func newHTTPError(statusCode int, body []byte) *HTTPError {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"error", "message", "details"} {
			if msg := gjson.GetBytes(body, field); msg.Type == gjson.String && msg.String() != "" {
				return &HTTPError{StatusCode: statusCode, Message: msg.String()}
			}
		}
	}
	if statusCode == http.StatusNotFound && len(body) == 0 {
		return &HTTPError{
			StatusCode: statusCode,
			Message:    "server doesn't implement this endpoint",
		}
	}
	if len(body) == 0 {
		return &HTTPError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
	}
	return &HTTPError{
		StatusCode: statusCode,
		Message:    string(body),
	}
}

func (c *HTTPClient) call(ctx context.Context, method, path string, body []byte, opts []CallOption) ([]byte, error) {
	ro := RequestOptions{
		Method: method,
		Path:   path,
		Body:   body,
	}
	for _, opt := range opts {
		opt(&ro)
	}
	return c.DoRequest(ctx, ro)
}

func (c *HTTPClient) Get(ctx context.Context, path string, opts ...CallOption) ([]byte, error) {
	return c.call(ctx, http.MethodGet, path, nil, opts)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body []byte, opts ...CallOption) ([]byte, error) {
	return c.call(ctx, http.MethodPost, path, body, opts)
}

func (c *HTTPClient) Patch(ctx context.Context, path string, body []byte, opts ...CallOption) ([]byte, error) {
	return c.call(ctx, http.MethodPatch, path, body, opts)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, body []byte, opts ...CallOption) ([]byte, error) {
	return c.call(ctx, http.MethodDelete, path, body, opts)
}
