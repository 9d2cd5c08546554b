package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"value-helper/delivery"
	"value-helper/models"
	"value-helper/service"
)

// DeliveryController runs the share and download chains for generated snapshots.
// The browser reports its capabilities; the response lists the actions it must perform.
type DeliveryController struct {
	exports service.ExportServiceInterface
	baseURL string
}

// NewDeliveryController creates a new DeliveryController
func NewDeliveryController(exports service.ExportServiceInterface, baseURL string) *DeliveryController {
	return &DeliveryController{exports: exports, baseURL: baseURL}
}

// Share handles POST /api/snapshots/{id}/share
func (c *DeliveryController) Share(w http.ResponseWriter, r *http.Request) {
	session, platform, ok := c.prepare(w, r)
	if !ok {
		return
	}

	report, err := session.Share(r.Context(), platform)
	if err != nil {
		c.writeFailure(w, session.ID, err)
		return
	}

	attempts := make([]models.DeliveryAttempt, 0, len(report.Attempts))
	for _, a := range report.Attempts {
		attempt := models.DeliveryAttempt{Strategy: a.Strategy, Outcome: a.Outcome.String()}
		if a.Err != nil {
			attempt.Error = a.Err.Error()
		}
		attempts = append(attempts, attempt)
	}

	slog.Info("📤 Share: Delivery finished", "session", session.ID, "strategy", report.Strategy, "attempts", len(attempts))
	writeJSON(w, http.StatusOK, models.DeliveryResponse{
		Strategy:   report.Strategy,
		Message:    report.Message,
		Attempts:   attempts,
		Directives: platform.Directives(),
	})
}

// Download handles POST /api/snapshots/{id}/download
func (c *DeliveryController) Download(w http.ResponseWriter, r *http.Request) {
	session, platform, ok := c.prepare(w, r)
	if !ok {
		return
	}

	result, err := session.Download(r.Context(), platform)
	if err != nil {
		c.writeFailure(w, session.ID, err)
		return
	}

	strategy := "manual_save"
	if result.Saved {
		strategy = "download"
	}
	slog.Info("💾 Download: Finished", "session", session.ID, "file", result.FileName, "saved", result.Saved)
	writeJSON(w, http.StatusOK, models.DeliveryResponse{
		Strategy:   strategy,
		Message:    result.Message,
		Directives: platform.Directives(),
	})
}

func (c *DeliveryController) prepare(w http.ResponseWriter, r *http.Request) (*service.ExportSession, *delivery.ReportedPlatform, bool) {
	session, ok := lookupSession(c.exports, w, r)
	if !ok {
		return nil, nil, false
	}

	var req models.DeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("❌ Delivery: Failed to decode request body", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return nil, nil, false
	}

	fileURL := sessionURL(c.baseURL, session.ID, "image") + "?download=1"
	return session, delivery.NewReportedPlatform(req, r.UserAgent(), fileURL), true
}

func (c *DeliveryController) writeFailure(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, delivery.ErrDeliveryInProgress):
		writeError(w, http.StatusConflict, "A share is already in progress")
	case errors.Is(err, service.ErrNoImage):
		writeError(w, http.StatusConflict, "Generate the snapshot before sharing it")
	case errors.Is(err, service.ErrSessionClosed), errors.Is(err, delivery.ErrDeliveryCanceled):
		writeError(w, http.StatusGone, "Snapshot export was closed")
	default:
		slog.Error("❌ Delivery: Unexpected error", "session", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to deliver snapshot")
	}
}
