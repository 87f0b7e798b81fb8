package xmlrpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smnsjas/go-dokuwiki/transport"
)

// ContentType is the content type for XML-RPC requests.
const ContentType = "text/xml"

// Client executes XML-RPC method calls against a single endpoint.
type Client struct {
	endpoint  string
	transport *transport.HTTPTransport
	logger    *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for per-call debug logging. Parameter
// values are never logged (credentials travel as call parameters).
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client bound to endpoint using the given transport.
func NewClient(endpoint string, tr *transport.HTTPTransport, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:  endpoint,
		transport: tr,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the endpoint URL this client calls.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call invokes method with the given params and returns the decoded
// result. Remote faults are returned as *Fault with code and message
// preserved verbatim.
func (c *Client) Call(ctx context.Context, method string, params ...any) (any, error) {
	body, err := Marshal(method, params...)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: marshal %s: %w", method, err)
	}

	start := time.Now()
	respBody, err := c.transport.Post(ctx, c.endpoint, ContentType, body)
	if err != nil {
		return nil, err
	}

	result, err := Unmarshal(respBody)
	c.logger.DebugContext(ctx, "xmlrpc call",
		slog.String("method", method),
		slog.Int("params", len(params)),
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("fault", IsFault(err)),
	)
	return result, err
}

// CloseIdleConnections closes idle connections in the underlying
// transport.
func (c *Client) CloseIdleConnections() {
	c.transport.CloseIdleConnections()
}
