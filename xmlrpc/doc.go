// Package xmlrpc implements the XML-RPC wire protocol spoken by DokuWiki's
// remote API endpoint: request marshalling, response decoding, fault
// mapping, and a small call client over an HTTP transport.
//
// Basic usage:
//
//	tr := transport.NewHTTPTransport()
//	c := xmlrpc.NewClient("https://wiki.example.com/lib/exe/xmlrpc.php", tr)
//
//	result, err := c.Call(ctx, "dokuwiki.getVersion")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.(string))
//
// Remote faults are returned as *Fault and can be inspected with
// errors.As or the IsFault helper:
//
//	if f, ok := xmlrpc.AsFault(err); ok {
//	    fmt.Printf("server fault %d: %s\n", f.Code, f.Message)
//	}
package xmlrpc
