// Package auth provides authentication handlers for wiki connections.
//
// # Supported Authentication Methods
//
//   - Basic: HTTP Basic authentication (use only over TLS)
//   - NTLM: NT LAN Manager authentication (via github.com/Azure/go-ntlmssp),
//     for wikis served behind IIS or an NTLM-authenticating reverse proxy
//   - Cookie: session-cookie authentication established by the explicit
//     login call and retained by the transport's cookie jar
//
// # Usage
//
// Basic authentication:
//
//	a := auth.NewBasicAuth(auth.Credentials{
//	    Username: "bob",
//	    Password: "secret",
//	})
//	tr.Client().Transport = a.Transport(tr.Client().Transport)
//
// NTLM authentication:
//
//	a := auth.NewNTLMAuth(auth.Credentials{
//	    Username: "bob",
//	    Password: "secret",
//	    Domain:   "CORP",
//	})
package auth
