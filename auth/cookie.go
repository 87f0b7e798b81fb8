package auth

import "net/http"

// CookieAuth authenticates with a server-issued session cookie instead of
// per-request credentials. The session is established by the explicit
// login call and the cookie is retained by the transport's cookie jar, so
// no Authorization header is sent at all.
type CookieAuth struct{}

// NewCookieAuth creates a new cookie-based authentication handler.
func NewCookieAuth() *CookieAuth {
	return &CookieAuth{}
}

// Name returns the authentication scheme name.
func (a *CookieAuth) Name() string {
	return "Cookie"
}

// Transport returns base unchanged; the http.Client's cookie jar carries
// the session.
func (a *CookieAuth) Transport(base http.RoundTripper) http.RoundTripper {
	return base
}
