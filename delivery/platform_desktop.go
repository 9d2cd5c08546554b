package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// DesktopPlatform is used by the CLI: no share sheet, the system clipboard and a
// downloads directory on disk.
type DesktopPlatform struct {
	DownloadDir string
	Density     float64
}

var _ Platform = (*DesktopPlatform)(nil)

// DefaultDownloadDir returns the download directory outside the project
func DefaultDownloadDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads", "value-helper"), nil
}

func (p *DesktopPlatform) CanShare() bool      { return false }
func (p *DesktopPlatform) CanShareFiles() bool { return false }

func (p *DesktopPlatform) Share(context.Context, SharePayload) error {
	return ErrUnsupported
}

func (p *DesktopPlatform) CanWriteClipboard() bool {
	return !clipboard.Unsupported
}

func (p *DesktopPlatform) WriteClipboard(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

func (p *DesktopPlatform) PixelDensity() float64 {
	if p.Density <= 0 {
		return 1
	}
	return p.Density
}

func (p *DesktopPlatform) IsMobile() bool { return false }

// SaveFile writes data into the download directory, creating it when missing
func (p *DesktopPlatform) SaveFile(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := p.DownloadDir
	if dir == "" {
		var err error
		if dir, err = DefaultDownloadDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}
	return path, nil
}
