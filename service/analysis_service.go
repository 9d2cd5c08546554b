package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"value-helper/metrics"
	"value-helper/models"
	"value-helper/pricing"
	"value-helper/repository"
	"value-helper/snapshot"
	"value-helper/utils"
)

// ErrUnknownCategory is returned when a request names a category that is not in the catalogue
var ErrUnknownCategory = errors.New("unknown category")

// AnalysisService runs the pricing engine for a category and builds snapshot templates
type AnalysisService struct {
	categories repository.CategoryRepositoryInterface
	branding   snapshot.TemplateOptions
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(categories repository.CategoryRepositoryInterface, branding snapshot.TemplateOptions) *AnalysisService {
	return &AnalysisService{categories: categories, branding: branding}
}

// Analyze computes unit prices, the ranking and the tip for a request.
// An empty category analyzes without a category; an empty unit uses the category default.
func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalyzeRequest) (models.AnalyzeResponse, error) {
	category, err := s.category(ctx, req.Category)
	if err != nil {
		return models.AnalyzeResponse{}, err
	}

	unit := utils.NormalizeUnit(req.Unit)
	if unit == "" {
		unit = category.DefaultUnit()
	}

	analysis := pricing.Analyze(req.Items)
	tip, _ := pricing.Suggest(analysis.Ranking, unit, category.Value)
	metrics.ObserveAnalysis(analysis.HasComparison())

	return models.AnalyzeResponse{
		Category:     category.Value,
		Unit:         unit,
		UnitPrices:   analysis.UnitPrices,
		Ranking:      analysis.Ranking,
		Tip:          tip,
		HasValidData: len(analysis.Ranking) > 0,
	}, nil
}

// Template analyzes the request and projects the ranking into a snapshot template
func (s *AnalysisService) Template(ctx context.Context, req models.AnalyzeRequest, now time.Time) (snapshot.Template, error) {
	resp, err := s.Analyze(ctx, req)
	if err != nil {
		return snapshot.Template{}, err
	}

	label := ""
	if resp.Category != "" {
		category, err := s.category(ctx, resp.Category)
		if err != nil {
			return snapshot.Template{}, err
		}
		label = PlainLabel(category.Label)
	}

	analysis := models.Analysis{UnitPrices: resp.UnitPrices, Ranking: resp.Ranking}
	return snapshot.BuildTemplate(analysis, resp.Unit, label, s.branding, now)
}

// Categories lists the catalogue
func (s *AnalysisService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *AnalysisService) category(ctx context.Context, value string) (models.Category, error) {
	if strings.TrimSpace(value) == "" {
		return models.Category{}, nil
	}
	category, err := s.categories.GetByValue(ctx, value)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return models.Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, value)
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to look up category: %w", err)
	}
	return *category, nil
}

// PlainLabel drops leading pictographs from a category label, e.g. "🥛 Milk & drinks" -> "Milk & drinks"
func PlainLabel(label string) string {
	return strings.TrimLeftFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
