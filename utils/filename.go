package utils

import (
	"fmt"
	"strings"
	"time"
)

// SnapshotFilePrefix is the fixed prefix of downloaded snapshot files
const SnapshotFilePrefix = "value-tip"

// SnapshotFileName builds the download file name: prefix plus the local date, PNG extension.
// Example: value-tip-2026-10-19.png
func SnapshotFileName(prefix string, now time.Time) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = SnapshotFilePrefix
	}
	return fmt.Sprintf("%s-%s.png", prefix, now.Format("2006-01-02"))
}
