package dokuwiki

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/smnsjas/go-dokuwiki/auth"
	"github.com/smnsjas/go-dokuwiki/metrics"
	"github.com/smnsjas/go-dokuwiki/tracing"
	"github.com/smnsjas/go-dokuwiki/transport"
	"github.com/smnsjas/go-dokuwiki/xmlrpc"
)

// caller is the call surface the facade needs. Tests substitute a mock.
type caller interface {
	Call(ctx context.Context, method string, params ...any) (any, error)
}

// Verify *xmlrpc.Client implements caller.
var _ caller = (*xmlrpc.Client)(nil)

// Client is an authenticated session against one wiki. Construction
// performs the login handshake, so a successfully constructed client has
// authenticated at least once; the server may still expire the session on
// its own later.
//
// The client holds only immutable configuration after construction and is
// safe for concurrent use.
type Client struct {
	cfg    Config
	rpc    caller
	logger *slog.Logger

	// Pages groups the page commands.
	Pages *Pages

	// Medias groups the media (attachment) commands.
	Medias *Medias

	// Structs groups the struct plugin commands.
	Structs *Structs
}

// New creates a client for the wiki at cfg.URL and logs in. Exactly one
// login call is issued before returning; a transport error or rejected
// credentials fail construction, so no unauthenticated client escapes.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	tr := newTransport(cfg)

	creds := auth.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		Domain:   cfg.Domain,
	}

	var authenticator auth.Authenticator
	switch cfg.AuthType {
	case AuthNTLM:
		authenticator = auth.NewNTLMAuth(creds)
	case AuthCookie:
		authenticator = auth.NewCookieAuth()
	default:
		authenticator = auth.NewBasicAuth(creds)
	}

	// Wrap transport with auth
	tr.Client().Transport = authenticator.Transport(tr.Client().Transport)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rpc := xmlrpc.NewClient(cfg.Endpoint(), tr, xmlrpc.WithLogger(logger))
	c := newClient(cfg, rpc, logger)

	ok, err := c.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("dokuwiki: login: %w", err)
	}
	if !ok {
		return nil, ErrLoginFailed
	}

	return c, nil
}

// newTransport builds the HTTP transport from the config.
func newTransport(cfg Config) *transport.HTTPTransport {
	opts := []transport.HTTPTransportOption{
		transport.WithTimeout(cfg.Timeout),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, transport.WithInsecureSkipVerify(true))
	}
	if cfg.TLSConfig != nil {
		opts = append(opts, transport.WithTLSConfig(cfg.TLSConfig))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, transport.WithUserAgent(cfg.UserAgent))
	}
	for key, value := range cfg.Headers {
		opts = append(opts, transport.WithHeader(key, value))
	}
	if cfg.AuthType == AuthCookie {
		// The session cookie issued on login lives in the jar.
		opts = append(opts, transport.WithCookieJar())
	}
	return transport.NewHTTPTransport(opts...)
}

// newClient wires the facade and its command groups around rpc.
func newClient(cfg Config, rpc caller, logger *slog.Logger) *Client {
	c := &Client{
		cfg:    cfg,
		rpc:    rpc,
		logger: logger,
	}
	c.Pages = &Pages{c: c}
	c.Medias = &Medias{c: c}
	c.Structs = &Structs{c: c}
	return c
}

// URL returns the configured wiki base URL.
func (c *Client) URL() string {
	return c.cfg.URL
}

// Send executes a remote command with the given positional arguments. It
// is the primitive every group method routes through: arguments are
// forwarded without local validation and faults come back verbatim as
// *xmlrpc.Fault.
func (c *Client) Send(ctx context.Context, command string, args ...any) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "dokuwiki.send")
	defer span.End()
	tracing.AddCallAttributes(span, command, len(args))

	metrics.CallsInFlight.WithLabelValues(command).Inc()
	defer metrics.CallsInFlight.WithLabelValues(command).Dec()

	start := time.Now()
	result, err := c.rpc.Call(ctx, command, args...)
	metrics.RecordCall(command, time.Since(start).Seconds(), err == nil)

	if err != nil {
		tracing.RecordError(span, err)
		if f, ok := xmlrpc.AsFault(err); ok {
			metrics.RecordFault(strconv.Itoa(f.Code))
		}
		return nil, err
	}
	return result, nil
}

// Version returns the wiki engine version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	result, err := c.Send(ctx, "dokuwiki.getVersion")
	if err != nil {
		return "", err
	}
	s, ok := resultString(result)
	if !ok {
		return "", fmt.Errorf("dokuwiki: unexpected getVersion result %T", result)
	}
	return s, nil
}

// Time returns the server's current time.
func (c *Client) Time(ctx context.Context) (time.Time, error) {
	result, err := c.Send(ctx, "dokuwiki.getTime")
	if err != nil {
		return time.Time{}, err
	}
	n, ok := resultInt(result)
	if !ok {
		return time.Time{}, fmt.Errorf("dokuwiki: unexpected getTime result %T", result)
	}
	return time.Unix(int64(n), 0), nil
}

// XMLRPCVersion returns the wiki's own XML-RPC interface version. This is
// implementation specific and independent of the standard API version
// reported by RPCVersionSupported.
func (c *Client) XMLRPCVersion(ctx context.Context) (string, error) {
	result, err := c.Send(ctx, "dokuwiki.getXMLRPCAPIVersion")
	if err != nil {
		return "", err
	}
	s, ok := resultString(result)
	if !ok {
		return "", fmt.Errorf("dokuwiki: unexpected getXMLRPCAPIVersion result %T", result)
	}
	return s, nil
}

// RPCVersionSupported returns the supported standard RPC API version.
func (c *Client) RPCVersionSupported(ctx context.Context) (int, error) {
	result, err := c.Send(ctx, "wiki.getRPCVersionSupported")
	if err != nil {
		return 0, err
	}
	n, ok := resultInt(result)
	if !ok {
		return 0, fmt.Errorf("dokuwiki: unexpected getRPCVersionSupported result %T", result)
	}
	return n, nil
}

// Title returns the title of the wiki.
func (c *Client) Title(ctx context.Context) (string, error) {
	result, err := c.Send(ctx, "dokuwiki.getTitle")
	if err != nil {
		return "", err
	}
	s, ok := resultString(result)
	if !ok {
		return "", fmt.Errorf("dokuwiki: unexpected getTitle result %T", result)
	}
	return s, nil
}

// Login re-authenticates with the given credentials and reports whether
// the server accepted them. Construction already logs in once; this is
// for explicit re-authentication.
func (c *Client) Login(ctx context.Context, user, password string) (bool, error) {
	result, err := c.Send(ctx, "dokuwiki.login", user, password)
	if err != nil {
		return false, err
	}
	ok, valid := resultBool(result)
	if !valid {
		return false, fmt.Errorf("dokuwiki: unexpected login result %T", result)
	}
	return ok, nil
}

// AddACL adds an ACL rule restricting scope to user (use @group syntax
// for groups) with the given permission level. Reports whether the server
// added the rule.
func (c *Client) AddACL(ctx context.Context, scope, user string, permission int) (bool, error) {
	result, err := c.Send(ctx, "plugin.acl.addAcl", scope, user, permission)
	if err != nil {
		return false, err
	}
	ok, valid := resultBool(result)
	if !valid {
		return false, fmt.Errorf("dokuwiki: unexpected addAcl result %T", result)
	}
	return ok, nil
}

// DelACL deletes any ACL rule matching scope and user (or @group).
// Reports whether the server removed a rule.
func (c *Client) DelACL(ctx context.Context, scope, user string) (bool, error) {
	result, err := c.Send(ctx, "plugin.acl.delAcl", scope, user)
	if err != nil {
		return false, err
	}
	ok, valid := resultBool(result)
	if !valid {
		return false, fmt.Errorf("dokuwiki: unexpected delAcl result %T", result)
	}
	return ok, nil
}
