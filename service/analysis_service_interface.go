package service

import (
	"context"
	"time"

	"value-helper/models"
	"value-helper/snapshot"
)

// AnalysisServiceInterface defines the contract for price analysis operations
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (models.AnalyzeResponse, error)
	Template(ctx context.Context, req models.AnalyzeRequest, now time.Time) (snapshot.Template, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

// Ensure AnalysisService implements AnalysisServiceInterface
var _ AnalysisServiceInterface = (*AnalysisService)(nil)
