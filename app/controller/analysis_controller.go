package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"value-helper/models"
	"value-helper/service"
)

// maxItems bounds the number of rows a single request may compare
const maxItems = 200

// AnalysisController handles HTTP requests for price analysis
type AnalysisController struct {
	service service.AnalysisServiceInterface
}

// NewAnalysisController creates a new AnalysisController
func NewAnalysisController(svc service.AnalysisServiceInterface) *AnalysisController {
	return &AnalysisController{service: svc}
}

// Analyze handles POST /api/analyze
// Returns unit prices for every item, the ranking of valid items and a tip
func (c *AnalysisController) Analyze(w http.ResponseWriter, r *http.Request) {
	slog.Debug("📥 Analyze: Received request", "method", r.Method, "path", r.URL.Path)

	req, ok := decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	resp, err := c.service.Analyze(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("❌ Analyze: Error analyzing items", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to analyze items")
		return
	}

	slog.Info("✅ Analyze: Analysis completed", "items", len(req.Items), "ranked", len(resp.Ranking), "category", resp.Category)
	writeJSON(w, http.StatusOK, resp)
}

// ListCategories handles GET /api/categories
func (c *AnalysisController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.Categories(r.Context())
	if err != nil {
		slog.Error("❌ ListCategories: Error listing categories", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (models.AnalyzeRequest, bool) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("❌ Failed to decode request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return req, false
	}
	if len(req.Items) > maxItems {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d items can be compared", maxItems))
		return req, false
	}
	return req, true
}
