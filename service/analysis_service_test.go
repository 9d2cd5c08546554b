package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-helper/models"
	"value-helper/repository"
	"value-helper/snapshot"
)

func newAnalysisService() *AnalysisService {
	return NewAnalysisService(repository.NewStaticCategoryRepository(nil), snapshot.TemplateOptions{CurrencySymbol: "¥"})
}

func TestAnalyze_DefaultUnitAndTip(t *testing.T) {
	resp, err := newAnalysisService().Analyze(context.Background(), models.AnalyzeRequest{
		Category: "drinks",
		Items: []models.Item{
			{ID: "1", Name: "Small", RawPrice: "3", RawQuantity: "250"},
			{ID: "2", Name: "Large", RawPrice: "8", RawQuantity: "1000"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "drinks", resp.Category)
	assert.Equal(t, "ml", resp.Unit)
	assert.True(t, resp.HasValidData)
	require.Len(t, resp.Ranking, 2)
	assert.Equal(t, "2", resp.Ranking[0].ItemID)
	assert.Contains(t, resp.Tip, "Large")
	assert.Contains(t, resp.Tip, "per ml")
}

func TestAnalyze_NoComparisonNoTip(t *testing.T) {
	resp, err := newAnalysisService().Analyze(context.Background(), models.AnalyzeRequest{
		Unit:  "kilogram",
		Items: []models.Item{{ID: "1", RawPrice: "3", RawQuantity: "1"}, {ID: "2", RawPrice: "x", RawQuantity: "1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "kg", resp.Unit)
	assert.Empty(t, resp.Tip)
	assert.True(t, resp.HasValidData)
	assert.Equal(t, "--", resp.UnitPrices[1].DisplayPrice)
}

func TestAnalyze_UnknownCategory(t *testing.T) {
	_, err := newAnalysisService().Analyze(context.Background(), models.AnalyzeRequest{Category: "electronics"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestTemplate_UsesPlainCategoryLabel(t *testing.T) {
	tpl, err := newAnalysisService().Template(context.Background(), models.AnalyzeRequest{
		Category: "household",
		Items:    []models.Item{{ID: "1", Name: "Tissues", RawPrice: "12", RawQuantity: "3"}},
	}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "Household", tpl.CategoryLabel)
	assert.Equal(t, "piece", tpl.Unit)
	assert.Equal(t, "Tissues", tpl.Best.Name)
	assert.Equal(t, "¥", tpl.CurrencySymbol)
}

func TestTemplate_NothingToExport(t *testing.T) {
	_, err := newAnalysisService().Template(context.Background(), models.AnalyzeRequest{
		Items: []models.Item{{ID: "1", RawPrice: "", RawQuantity: ""}},
	}, fixedNow)
	assert.ErrorIs(t, err, snapshot.ErrNothingToExport)
}

func TestPlainLabel(t *testing.T) {
	assert.Equal(t, "Milk & drinks", PlainLabel("🥛 Milk & drinks"))
	assert.Equal(t, "Food", PlainLabel("Food"))
	assert.Equal(t, "", PlainLabel("🏠 "))
}
