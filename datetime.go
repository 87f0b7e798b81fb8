package dokuwiki

import "time"

// UTCToLocal converts a server timestamp to the caller's local timezone.
// Decoded timestamps arrive in UTC; converting a value that is already
// local is a no-op, so the offset is never applied twice.
func UTCToLocal(t time.Time) time.Time {
	return t.In(time.Local)
}
