package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"value-helper/models"
	"value-helper/service"
	"value-helper/snapshot"
	"value-helper/utils"
)

// pngSignature is the 8-byte header every PNG starts with
var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// SnapshotController handles the export sessions: template preview, render and image download
type SnapshotController struct {
	analysis service.AnalysisServiceInterface
	exports  service.ExportServiceInterface
	baseURL  string
	prefix   string
	now      func() time.Time
}

// NewSnapshotController creates a new SnapshotController. baseURL prefixes the
// preview and image links handed to clients; empty keeps them relative.
func NewSnapshotController(analysis service.AnalysisServiceInterface, exports service.ExportServiceInterface, baseURL, filePrefix string) *SnapshotController {
	if filePrefix == "" {
		filePrefix = utils.SnapshotFilePrefix
	}
	return &SnapshotController{
		analysis: analysis,
		exports:  exports,
		baseURL:  baseURL,
		prefix:   filePrefix,
		now:      time.Now,
	}
}

// Open handles POST /api/snapshots
// Builds the snapshot template from the submitted items and opens an export session
func (c *SnapshotController) Open(w http.ResponseWriter, r *http.Request) {
	slog.Debug("📥 OpenSnapshot: Received request", "method", r.Method, "path", r.URL.Path)

	req, ok := decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	tpl, err := c.analysis.Template(r.Context(), req, c.now())
	if err != nil {
		switch {
		case errors.Is(err, snapshot.ErrNothingToExport):
			writeError(w, http.StatusUnprocessableEntity, "Enter at least one item with a valid price and quantity")
		case errors.Is(err, service.ErrUnknownCategory):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("❌ OpenSnapshot: Error building template", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to build snapshot")
		}
		return
	}

	session := c.exports.Open(tpl)
	slog.Info("✅ OpenSnapshot: Session opened", "session", session.ID, "best", tpl.Best.Name, "entries", tpl.TotalEntries())

	writeJSON(w, http.StatusCreated, models.OpenSnapshotResponse{
		SessionID:  session.ID,
		PreviewURL: c.sessionURL(session.ID, "preview"),
		Best:       tpl.Best.Name,
		Entries:    tpl.TotalEntries(),
	})
}

// Preview handles GET /api/snapshots/{id}/preview
// Returns the template as the same HTML document the browser backend rasterizes
func (c *SnapshotController) Preview(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r)
	if !ok {
		return
	}

	tpl := session.Template()
	doc, err := snapshot.RenderHTML(snapshot.Layout(tpl), tpl.Brand)
	if err != nil {
		slog.Error("❌ Preview: Error rendering template", "session", session.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render preview")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, doc); err != nil {
		slog.Error("❌ Preview: Error writing response", "error", err)
	}
}

// Generate handles POST /api/snapshots/{id}/generate
// The body is optional; pixelDensity defaults to 1
func (c *SnapshotController) Generate(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r)
	if !ok {
		return
	}

	var req models.GenerateSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("❌ Generate: Failed to decode request body", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	slog.Info("🖼️ Generate: Rendering snapshot", "session", session.ID, "pixelDensity", req.PixelDensity)
	img, err := session.Generate(r.Context(), req.PixelDensity)
	if err != nil {
		c.writeGenerateError(w, session.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, models.GenerateSnapshotResponse{
		SessionID: session.ID,
		ImageURL:  c.sessionURL(session.ID, "image"),
		Width:     img.Width,
		Height:    img.Height,
		Scale:     img.Scale,
		Bytes:     len(img.PNG),
	})
}

func (c *SnapshotController) writeGenerateError(w http.ResponseWriter, id string, err error) {
	var renderErr *snapshot.RenderError
	switch {
	case errors.Is(err, snapshot.ErrRenderInProgress):
		writeError(w, http.StatusConflict, "A snapshot is already being generated")
	case errors.Is(err, service.ErrSessionClosed), errors.Is(err, snapshot.ErrRenderCanceled):
		slog.Info("🛑 Generate: Render canceled", "session", id)
		writeError(w, http.StatusGone, "Snapshot export was closed")
	case errors.As(err, &renderErr):
		slog.Warn("⚠️ Generate: Render failed", "session", id, "reason", renderErr.Reason, "error", renderErr.Err)
		writeJSON(w, http.StatusUnprocessableEntity, models.RenderFailureResponse{
			Reason:  string(renderErr.Reason),
			Message: renderErr.UserMessage(),
		})
	default:
		slog.Error("❌ Generate: Unexpected render error", "session", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate snapshot")
	}
}

// Reset handles POST /api/snapshots/{id}/reset
func (c *SnapshotController) Reset(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r)
	if !ok {
		return
	}
	session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// Image handles GET /api/snapshots/{id}/image
// ?download=1 sends it as an attachment, ?size=thumb|medium returns a JPEG preview
func (c *SnapshotController) Image(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r)
	if !ok {
		return
	}

	img, ok := session.Image()
	if !ok {
		writeError(w, http.StatusNotFound, "Snapshot has not been generated yet")
		return
	}

	// Validate PNG signature
	if !bytes.HasPrefix(img.PNG, pngSignature) {
		slog.Error("❌ Image: Generated data is not a valid PNG", "session", session.ID, "bytes", len(img.PNG))
		writeError(w, http.StatusInternalServerError, "Generated image is not a valid PNG")
		return
	}

	if size := r.URL.Query().Get("size"); size != "" {
		thumb, err := service.ThumbnailImage(img.PNG, size)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(thumb)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(thumb)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img.PNG)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		filename := utils.SnapshotFileName(c.prefix, c.now())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.PNG); err != nil {
		slog.Error("❌ Image: Error writing PNG", "session", session.ID, "error", err)
		return
	}
	slog.Debug("✅ Image: PNG sent", "session", session.ID, "bytes", len(img.PNG))
}

// Close handles DELETE /api/snapshots/{id}
// Dismissing the export cancels a pending render
func (c *SnapshotController) Close(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !c.exports.Close(id) {
		writeError(w, http.StatusNotFound, service.ErrSessionNotFound.Error())
		return
	}
	slog.Info("🗑️ CloseSnapshot: Session closed", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (c *SnapshotController) session(w http.ResponseWriter, r *http.Request) (*service.ExportSession, bool) {
	return lookupSession(c.exports, w, r)
}

func (c *SnapshotController) sessionURL(id, action string) string {
	return sessionURL(c.baseURL, id, action)
}

func lookupSession(exports service.ExportServiceInterface, w http.ResponseWriter, r *http.Request) (*service.ExportSession, bool) {
	session, ok := exports.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrSessionNotFound.Error())
		return nil, false
	}
	return session, true
}

func sessionURL(baseURL, id, action string) string {
	return fmt.Sprintf("%s/api/snapshots/%s/%s", baseURL, id, action)
}
