package clashroyale

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotResult says what happened to the best-effort profile dump.
// A skip is a normal outcome, not an error: the snapshot must never
// fail the fetch that produced it.
type SnapshotResult struct {
	Saved  bool
	Path   string
	Reason string
}

func skipped(format string, args ...any) SnapshotResult {
	return SnapshotResult{Reason: fmt.Sprintf(format, args...)}
}

// SaveSnapshot writes the raw player payload under the configured
// snapshot directory, named after the tag.
func (c *Client) SaveSnapshot(tag string, raw []byte) SnapshotResult {
	if c.snapshotDir == "" {
		return skipped("snapshot dir not configured")
	}

	err := os.MkdirAll(c.snapshotDir, 0755)
	if err != nil {
		return skipped("failed to create snapshot dir: %s", err)
	}

	safeTag := strings.NewReplacer("#", "", " ", "").Replace(tag)
	if safeTag == "" {
		safeTag = "unknown"
	}

	path := filepath.Join(c.snapshotDir, fmt.Sprintf("player_%s.json", safeTag))
	err = os.WriteFile(path, raw, 0644)
	if err != nil {
		return skipped("failed to write snapshot: %s", err)
	}

	return SnapshotResult{Saved: true, Path: path}
}
