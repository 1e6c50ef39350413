package cache

import "time"

// Keyer generates cache keys for parsed POM descriptors.
type Keyer interface {
	// DescriptorKey generates a key for the descriptor parsed from the
	// file at path. The key incorporates the file's modification time
	// and size, so a changed file never hits a stale entry.
	DescriptorKey(path string, mtime time.Time, size int64) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DescriptorKey generates a key of the form pom:hash(path, mtime, size).
func (k *DefaultKeyer) DescriptorKey(path string, mtime time.Time, size int64) string {
	return hashKey("pom", path, mtime.UnixNano(), size)
}

// WorkspacePrefix derives a stable namespace prefix from a scan root.
// Use it with NewScopedKeyer when several workspaces share one Redis
// instance.
func WorkspacePrefix(root string) string {
	return "ws:" + Hash([]byte(root))[:12] + ":"
}
