package auth

import (
	"encoding/base64"
	"log"
	"net/http"
	"sync"
)

// BasicAuth implements HTTP Basic authentication, the default scheme for
// wiki endpoints and the one the client's AuthBasic config selects. The
// wiki checks the credentials against its user store on every call, so no
// handshake state is kept here. Credentials.Domain is ignored; it only
// applies to NTLM.
type BasicAuth struct {
	creds Credentials
}

// NewBasicAuth creates a Basic authentication handler for the given wiki
// credentials.
func NewBasicAuth(creds Credentials) *BasicAuth {
	return &BasicAuth{creds: creds}
}

// Name returns the authentication scheme name.
func (a *BasicAuth) Name() string {
	return "Basic"
}

// Transport wraps an http.RoundTripper so every XML-RPC request carries
// the Authorization header.
func (a *BasicAuth) Transport(base http.RoundTripper) http.RoundTripper {
	return &basicTransport{
		base:  base,
		creds: a.creds,
	}
}

// basicTransport adds the Basic auth header to every wiki request.
type basicTransport struct {
	base     http.RoundTripper
	creds    Credentials
	warnOnce sync.Once
}

// RoundTrip implements http.RoundTripper.
func (t *basicTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Basic credentials are only base64-encoded; warn once when they
	// would travel to the wiki in clear.
	if req.URL.Scheme != "https" {
		t.warnOnce.Do(func() {
			log.Printf("WARNING: Basic authentication over non-HTTPS connection to %s - wiki credentials are not encrypted", req.URL.Host)
		})
	}

	// Clone the request to avoid mutating the original
	reqCopy := req.Clone(req.Context())

	auth := t.creds.Username + ":" + t.creds.Password
	encoded := base64.StdEncoding.EncodeToString([]byte(auth))
	reqCopy.Header.Set("Authorization", "Basic "+encoded)

	return t.base.RoundTrip(reqCopy)
}
