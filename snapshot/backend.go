package snapshot

import (
	"fmt"
	"log/slog"
	"os"
)

// Backend kinds accepted by NewBackend
const (
	BackendAuto     = "auto"
	BackendChrome   = "chrome"
	BackendSoftware = "software"
)

// chromeCandidates are the usual Chrome/Chromium install locations
var chromeCandidates = []string{
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/snap/bin/chromium",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

// DetectChromePath returns the configured path when it exists, else the first
// installed candidate, else "".
func DetectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	for _, path := range chromeCandidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// NewBackend builds the backend named by kind.
// "auto" uses Chrome when a binary is found and the software painter otherwise.
func NewBackend(kind, chromePath string) (Backend, error) {
	switch kind {
	case "", BackendAuto:
		if path := DetectChromePath(chromePath); path != "" {
			slog.Info("🌐 Using headless Chrome snapshot backend", "path", path)
			return NewChromeBackend(path), nil
		}
		slog.Info("🎨 Chrome not found, using software snapshot backend")
		return NewSoftwareBackend()
	case BackendChrome:
		return NewChromeBackend(DetectChromePath(chromePath)), nil
	case BackendSoftware:
		return NewSoftwareBackend()
	default:
		return nil, fmt.Errorf("unknown render backend %q", kind)
	}
}
