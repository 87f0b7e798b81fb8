package dokuwiki

import "errors"

// Sentinel errors for local failure conditions. Remote faults are
// *xmlrpc.Fault and carry the server's code and message.
var (
	// ErrLoginFailed indicates the server rejected the credentials.
	ErrLoginFailed = errors.New("dokuwiki: invalid login or password")

	// ErrFileExists indicates a download target already exists locally.
	ErrFileExists = errors.New("dokuwiki: file exists")

	// ErrLockFailed indicates the server refused to lock the page.
	ErrLockFailed = errors.New("dokuwiki: unable to lock page")

	// ErrUnlockFailed indicates the server refused to unlock the page.
	ErrUnlockFailed = errors.New("dokuwiki: unable to unlock page")

	// ErrNoDataentry indicates the content has no dataentry block.
	ErrNoDataentry = errors.New("dokuwiki: no dataentry found")
)
