package cache

import "time"

// ScopedKeyer wraps a Keyer with a prefix to isolate namespaces.
// Useful when several workspaces share a Redis instance and their
// entries must not collide.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), WorkspacePrefix(root))
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

// DescriptorKey generates a prefixed descriptor key.
func (k *ScopedKeyer) DescriptorKey(path string, mtime time.Time, size int64) string {
	return k.prefix + k.inner.DescriptorKey(path, mtime, size)
}
