package delivery

import (
	"context"
	"log/slog"
	"time"

	"value-helper/utils"
)

// Download messages
const (
	MessageMobileSave = "To save on mobile:\n\n1. Long-press the preview image below\n2. Choose \"Save image\" or \"Download image\"\n3. The image is saved to your photos\n\nBrowsers do not allow saving automatically here."
	MessageDownloaded = "Image saved to your downloads folder!"
	MessageSaveFailed = "Long-press the image to save it manually."
)

// DownloadResult describes a download action. It never carries an error; failures
// become advice in Message.
type DownloadResult struct {
	Saved    bool
	FileName string
	Location string
	Message  string
}

// Download saves the image as "<prefix>-YYYY-MM-DD.png". Mobile platforms get save
// instructions instead of an automatic write.
func Download(ctx context.Context, platform Platform, image []byte, prefix string, now time.Time) DownloadResult {
	if prefix == "" {
		prefix = utils.SnapshotFilePrefix
	}
	name := utils.SnapshotFileName(prefix, now)

	if platform.IsMobile() {
		return DownloadResult{FileName: name, Message: MessageMobileSave}
	}

	location, err := platform.SaveFile(ctx, name, image)
	if err != nil {
		slog.Warn("⚠️ Snapshot download failed", "file", name, "error", err)
		return DownloadResult{FileName: name, Message: MessageSaveFailed}
	}
	slog.Info("💾 Snapshot downloaded", "file", name, "location", location)
	return DownloadResult{Saved: true, FileName: name, Location: location, Message: MessageDownloaded}
}
