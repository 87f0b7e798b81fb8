package dokuwiki

// Option sets a named option forwarded with a remote command. The option
// mapping travels as a trailing struct argument and is passed opaquely;
// the server is authoritative for option names and values.
type Option func(map[string]any)

// WithOption forwards an arbitrary name/value option verbatim. The named
// helpers below cover the documented options.
func WithOption(name string, value any) Option {
	return func(m map[string]any) { m[name] = value }
}

// WithDepth limits namespace recursion in listings; 0 lists everything.
func WithDepth(depth int) Option {
	return func(m map[string]any) { m["depth"] = depth }
}

// WithHash includes content hashes in listing results.
func WithHash() Option {
	return func(m map[string]any) { m["hash"] = true }
}

// WithSkipACL skips ACL checking in listings.
func WithSkipACL() Option {
	return func(m map[string]any) { m["skipacl"] = true }
}

// WithPattern filters media listings by the given pattern.
func WithPattern(pattern string) Option {
	return func(m map[string]any) { m["pattern"] = pattern }
}

// WithSummary attaches a change summary to a page edit.
func WithSummary(sum string) Option {
	return func(m map[string]any) { m["sum"] = sum }
}

// WithMinor marks a page edit as minor.
func WithMinor() Option {
	return func(m map[string]any) { m["minor"] = true }
}

// options collapses opts into the wire mapping. The remote API expects
// the mapping even when empty.
func options(opts []Option) map[string]any {
	m := make(map[string]any)
	for _, opt := range opts {
		opt(m)
	}
	return m
}
