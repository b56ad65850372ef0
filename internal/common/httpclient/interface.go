// Package httpclient provides a small HTTP client for the Theia Cloud REST API.
// It builds JSON requests against a service root, applies bearer authentication and
// per-call timeouts, and converts error responses into HTTPError values.
package httpclient

import (
	"context"
	"net/http"
)

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClientInterface defines the operations used by the service client.
type HTTPClientInterface interface {
	// DoRequest makes an HTTP request with the given options and returns the response body.
	DoRequest(ctx context.Context, opts RequestOptions) ([]byte, error)

	// Get retrieves the resource at path.
	Get(ctx context.Context, path string, opts ...CallOption) ([]byte, error)

	// Post sends body to path and returns the response body.
	Post(ctx context.Context, path string, body []byte, opts ...CallOption) ([]byte, error)

	// Patch sends a partial update to path and returns the response body.
	Patch(ctx context.Context, path string, body []byte, opts ...CallOption) ([]byte, error)

	// Delete issues a DELETE with an optional JSON body and returns the response body.
	Delete(ctx context.Context, path string, body []byte, opts ...CallOption) ([]byte, error)
}

var _ HTTPClientInterface = &HTTPClient{}
var _ Doer = &HandlerDoer{}
