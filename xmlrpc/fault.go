package xmlrpc

import (
	"errors"
	"fmt"
	"strings"
)

// Fault codes the server uses for conditions that callers commonly want to
// treat as benign.
const (
	// CodePageNotFound is raised when the requested page or revision does
	// not exist.
	CodePageNotFound = 121

	// CodeNoChanges is raised by the recent-changes queries when nothing
	// changed in the requested timeframe.
	CodeNoChanges = 321
)

// Fault represents an XML-RPC fault declared by the remote server.
type Fault struct {
	// Code is the numeric fault code, preserved verbatim.
	Code int

	// Message is the human-readable fault string, preserved verbatim.
	Message string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("xmlrpc: fault %d: %s", f.Code, f.Message)
}

// IsPageNotFound returns true if the fault indicates a missing page or
// revision.
func (f *Fault) IsPageNotFound() bool {
	return f.Code == CodePageNotFound
}

// IsNoChanges returns true if the fault indicates an empty timeframe in a
// recent-changes query.
func (f *Fault) IsNoChanges() bool {
	return f.Code == CodeNoChanges
}

// IsPermissionDenied returns true if the fault indicates the authenticated
// user lacks the permission for the call.
func (f *Fault) IsPermissionDenied() bool {
	msg := strings.ToLower(f.Message)
	return strings.Contains(msg, "permission") ||
		strings.Contains(msg, "not allowed") ||
		strings.Contains(msg, "forbidden")
}

// IsFault returns true if the error is an XML-RPC Fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}

// AsFault returns the Fault wrapped in err, if any.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
