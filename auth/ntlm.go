package auth

import (
	"net/http"

	"github.com/Azure/go-ntlmssp"
)

// NTLMAuth implements NTLM authentication. It is useful when the wiki sits
// behind IIS or a reverse proxy that requires NTLM instead of Basic.
type NTLMAuth struct {
	creds Credentials
}

// NewNTLMAuth creates a new NTLM authentication handler.
func NewNTLMAuth(creds Credentials) *NTLMAuth {
	return &NTLMAuth{creds: creds}
}

// Name returns the authentication scheme name.
func (a *NTLMAuth) Name() string {
	return "NTLM"
}

// Transport wraps an http.RoundTripper with NTLM authentication.
// Uses github.com/Azure/go-ntlmssp for the NTLM handshake. The negotiator
// reads the identity from the Basic auth header, so the wrapper sets it on
// a clone of every request before negotiating.
func (a *NTLMAuth) Transport(base http.RoundTripper) http.RoundTripper {
	return &ntlmTransport{
		negotiator: ntlmssp.Negotiator{RoundTripper: base},
		creds:      a.creds,
	}
}

type ntlmTransport struct {
	negotiator ntlmssp.Negotiator
	creds      Credentials
}

// RoundTrip implements http.RoundTripper.
func (t *ntlmTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	user := t.creds.Username
	if t.creds.Domain != "" {
		user = t.creds.Domain + `\` + t.creds.Username
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.SetBasicAuth(user, t.creds.Password)

	return t.negotiator.RoundTrip(reqCopy)
}
