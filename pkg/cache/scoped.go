package cache

// ScopedKeyer wraps a Keyer with a prefix for per-user isolation. The
// server scopes row and frame keys by session so one user's sheet never
// answers another user's request.
//
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RowsKey generates a prefixed key for fetched rows.
func (k *ScopedKeyer) RowsKey(source string, opts RowsKeyOpts) string {
	return k.prefix + k.inner.RowsKey(source, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(mode string, count int) string {
	return k.prefix + k.inner.LayoutKey(mode, count)
}

// FrameKey generates a prefixed key for rendered frames.
func (k *ScopedKeyer) FrameKey(rowsHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(rowsHash, opts)
}
