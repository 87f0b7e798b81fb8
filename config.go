package dokuwiki

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthType specifies the authentication mechanism.
type AuthType int

const (
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic AuthType = iota
	// AuthNTLM uses NTLM authentication.
	AuthNTLM
	// AuthCookie uses a server-issued session cookie instead of
	// per-request credentials.
	AuthCookie
)

// ParseAuthType maps a configuration string to an AuthType.
func ParseAuthType(s string) (AuthType, error) {
	switch strings.ToLower(s) {
	case "", "basic":
		return AuthBasic, nil
	case "ntlm":
		return AuthNTLM, nil
	case "cookie":
		return AuthCookie, nil
	default:
		return AuthBasic, fmt.Errorf("dokuwiki: unknown auth type %q", s)
	}
}

// Permission levels returned by Pages.Permission and used in ACL rules.
const (
	PermNone   = 0
	PermRead   = 1
	PermEdit   = 2
	PermCreate = 4
	PermUpload = 8
	PermDelete = 16
)

// endpointPath is where a wiki serves its XML-RPC API, relative to the
// base URL.
const endpointPath = "/lib/exe/xmlrpc.php"

// Config holds configuration for a wiki client.
type Config struct {
	// URL is the wiki base URL (PROTO://HOST[/PATH]); the XML-RPC
	// endpoint path is appended automatically.
	URL string

	// Username for authentication.
	Username string

	// Password for authentication.
	Password string

	// Domain for NTLM authentication.
	Domain string

	// AuthType specifies the authentication type (Basic, NTLM or Cookie).
	AuthType AuthType

	// Timeout is the per-call HTTP timeout.
	Timeout time.Duration

	// InsecureSkipVerify skips TLS certificate verification.
	// WARNING: Only use for testing.
	InsecureSkipVerify bool

	// TLSConfig optionally overrides the TLS configuration.
	TLSConfig *tls.Config

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Headers are extra headers sent with every request.
	Headers map[string]string

	// Logger receives debug logs; defaults to slog.Default(). Call
	// parameter values are never logged.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:  60 * time.Second,
		AuthType: AuthBasic,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", c.URL)
	}
	if c.Username == "" {
		return errors.New("username is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// Endpoint returns the XML-RPC endpoint URL derived from URL.
func (c *Config) Endpoint() string {
	base := strings.TrimRight(c.URL, "/")
	if strings.HasSuffix(base, endpointPath) {
		return base
	}
	return base + endpointPath
}

// HasCredentials reports whether URL, username and password are all set.
func (c *Config) HasCredentials() bool {
	return c.URL != "" && c.Username != "" && c.Password != ""
}

// Environment variable names read by LoadConfig.
const (
	EnvURL      = "DOKUWIKI_URL"
	EnvUser     = "DOKUWIKI_USER"
	EnvPassword = "DOKUWIKI_PASSWORD"
	EnvAuth     = "DOKUWIKI_AUTH"
	EnvTimeout  = "DOKUWIKI_TIMEOUT"
	EnvInsecure = "DOKUWIKI_INSECURE"
)

// LoadConfig builds a Config from the DOKUWIKI_* environment variables.
// Unset variables leave the defaults in place; Validate is not called so
// tools can report missing credentials their own way.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	cfg.URL = os.Getenv(EnvURL)
	cfg.Username = os.Getenv(EnvUser)
	cfg.Password = os.Getenv(EnvPassword)

	if v := os.Getenv(EnvAuth); v != "" {
		at, err := ParseAuthType(v)
		if err != nil {
			return cfg, err
		}
		cfg.AuthType = at
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("dokuwiki: invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv(EnvInsecure); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("dokuwiki: invalid %s: %w", EnvInsecure, err)
		}
		cfg.InsecureSkipVerify = insecure
	}

	return cfg, nil
}
