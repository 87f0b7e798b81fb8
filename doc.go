// Package dokuwiki provides a complete DokuWiki XML-RPC client with
// authentication and typed command groups.
//
// A Client is an authenticated session: New validates the configuration,
// builds the transport, logs in and fails fast when the wiki rejects the
// credentials. Commands are grouped by subject on the returned client.
//
// # Architecture
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  dokuwiki      Session facade + Pages/Medias/Structs    │
//	├─────────────────────────────────────────────────────────┤
//	│  xmlrpc/       XML-RPC codec and call client            │
//	├─────────────────────────────────────────────────────────┤
//	│  auth/         Basic, NTLM and cookie authentication    │
//	├─────────────────────────────────────────────────────────┤
//	│  transport/    HTTP layer (TLS, proxy, cookie jar)      │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick Start
//
//	cfg := dokuwiki.DefaultConfig()
//	cfg.URL = "https://wiki.example.com"
//	cfg.Username = "editor"
//	cfg.Password = "secret"
//
//	c, err := dokuwiki.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := c.Pages.Get(ctx, "start", 0)
package dokuwiki
