// Package theiacloud is a client for the Theia Cloud service. It builds the typed
// requests of the service API, resolves the API root from a service URL, executes
// the calls and unwraps their results. Launch additionally retries failed attempts
// and hands the URL of the started session to a Navigator.
package theiacloud

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/theiacloud/theiacloud-go/internal/common/browser"
	"github.com/theiacloud/theiacloud-go/internal/common/httpclient"
	"github.com/theiacloud/theiacloud-go/internal/common/logtrace"
	"github.com/theiacloud/theiacloud-go/internal/common/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultTimeout bounds every call that does not set its own timeout.
const DefaultTimeout = 30 * time.Second

// Client executes requests against Theia Cloud services. The service is addressed by
// the ServiceURL of each request, so one Client serves any number of services.
// A Client is safe for concurrent use.
type Client struct {
	logger      logtrace.Logger
	navigator   Navigator
	doer        httpclient.Doer
	token       string
	tokenExpiry time.Time
	timeout     time.Duration
	insecure    bool
}

// ClientOption is a function type for configuring client behavior.
type ClientOption func(*Client)

// WithLogger sets the logger failures and redirects are reported to.
func WithLogger(l logtrace.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithNavigator sets where launched session URLs are sent. The default opens the
// system web browser.
func WithNavigator(n Navigator) ClientOption {
	return func(c *Client) {
		c.navigator = n
	}
}

// WithAccessToken sets a bearer token sent with every request until expiry.
// A zero expiry never expires.
func WithAccessToken(token string, expiry time.Time) ClientOption {
	return func(c *Client) {
		c.token = token
		c.tokenExpiry = expiry
	}
}

// WithHTTPClient sets the transport used for requests.
func WithHTTPClient(d httpclient.Doer) ClientOption {
	return func(c *Client) {
		c.doer = d
	}
}

// WithDefaultTimeout replaces DefaultTimeout for this client.
func WithDefaultTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithInsecureSkipVerify disables TLS certificate validation. It has no effect
// together with WithHTTPClient.
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		c.insecure = true
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger:    logtrace.Default(),
		navigator: browser.System{},
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logtrace.Nop()
	}
	if c.doer == nil {
		c.doer = httpclient.NewDoer(c.insecure)
	}
	return c
}

// CallOption adjusts a single call.
type CallOption func(*callOptions)

type callOptions struct {
	timeout time.Duration
}

// WithTimeout bounds a single call.
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		o.timeout = d
	}
}

func (c *Client) callTimeout(opts []CallOption) time.Duration {
	o := callOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o.timeout
}

// endpoint is the httpclient configuration of one call.
type endpoint struct {
	baseURL string
	token   string
	expiry  time.Time
}

func (e *endpoint) GetServerURL() string      { return e.baseURL }
func (e *endpoint) GetToken() string          { return e.token }
func (e *endpoint) GetTokenExpiry() time.Time { return e.expiry }

// api returns a fresh REST client rooted at the base path of serviceURL.
func (c *Client) api(serviceURL string) (httpclient.HTTPClientInterface, error) {
	base, err := BasePath(serviceURL)
	if err != nil {
		return nil, err
	}
	return httpclient.NewClient(&endpoint{
		baseURL: base,
		token:   c.token,
		expiry:  c.tokenExpiry,
	}, httpclient.ClientOptions{
		Doer: c.doer,
	}), nil
}

// tagged marshals req and merges the kind tag into it. A Kind already set on the
// request is kept.
func tagged(kind string, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if gjson.GetBytes(body, "kind").Exists() {
		return body, nil
	}
	return sjson.SetBytes(body, "kind", kind)
}

type sendFunc func(ctx context.Context, api httpclient.HTTPClientInterface, opts ...httpclient.CallOption) ([]byte, error)

// execute validates req, performs one call and decodes the response into T.
// Every failure is logged and returned unchanged. Calls without a request ID in
// ctx get a fresh one.
func execute[T any](ctx context.Context, c *Client, req Request, opts []CallOption, send sendFunc) (T, error) {
	var result T
	if logtrace.RequestIdFromContext(ctx) == "" {
		ctx = logtrace.WithRequestID(ctx, uuid.NewString())
	}
	err := func() error {
		if err := Validate(req); err != nil {
			return err
		}
		api, err := c.api(req.serviceRequest().ServiceURL)
		if err != nil {
			return err
		}
		body, err := send(ctx, api, httpclient.WithTimeout(c.callTimeout(opts)))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return ErrUnexpectedResponse.MsgErr("unexpected response from service: "+err.Error(), err)
		}
		return nil
	}()
	if err != nil {
		c.logger.Errorf("%s", err.Error())
		return result, err
	}
	return result, nil
}

type bodyMethod func(api httpclient.HTTPClientInterface, ctx context.Context, path string, body []byte, opts ...httpclient.CallOption) ([]byte, error)

var (
	post  bodyMethod = httpclient.HTTPClientInterface.Post
	patch bodyMethod = httpclient.HTTPClientInterface.Patch
	del   bodyMethod = httpclient.HTTPClientInterface.Delete
)

// sendTagged sends req tagged with kind as the body of method.
func sendTagged(method bodyMethod, path, kind string, req Request) sendFunc {
	return func(ctx context.Context, api httpclient.HTTPClientInterface, opts ...httpclient.CallOption) ([]byte, error) {
		body, err := tagged(kind, req)
		if err != nil {
			return nil, err
		}
		return method(api, ctx, path, body, opts...)
	}
}

func sendGet(path string) sendFunc {
	return func(ctx context.Context, api httpclient.HTTPClientInterface, opts ...httpclient.CallOption) ([]byte, error) {
		return api.Get(ctx, path, opts...)
	}
}

// servicePath appends each parameter to prefix as one escaped path segment.
// Dot segments are escaped as well so they cannot climb out of the endpoint.
func servicePath(prefix string, params ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		b.WriteByte('/')
		switch p {
		case ".":
			b.WriteString("%2E")
		case "..":
			b.WriteString("%2E%2E")
		default:
			b.WriteString(url.PathEscape(p))
		}
	}
	return b.String()
}
