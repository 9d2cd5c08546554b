package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-helper/models"
	"value-helper/utils"
)

func item(id, price, qty string) models.Item {
	return models.Item{ID: id, Name: "item " + id, RawPrice: price, RawQuantity: qty}
}

func TestAnalyze_RanksByUnitPrice(t *testing.T) {
	items := []models.Item{
		item("1", "10", "2"),
		item("2", "18", "4"),
		item("3", "", "3"),
	}

	got := Analyze(items)

	require.Len(t, got.UnitPrices, 3)
	assert.Equal(t, "5.00", got.UnitPrices[0].DisplayPrice)
	assert.Equal(t, "4.50", got.UnitPrices[1].DisplayPrice)
	assert.Equal(t, utils.Placeholder, got.UnitPrices[2].DisplayPrice)
	assert.False(t, got.UnitPrices[2].Valid)

	require.Len(t, got.Ranking, 2)
	assert.Equal(t, "2", got.Ranking[0].ItemID)
	assert.Equal(t, 1, got.Ranking[0].Rank)
	assert.Equal(t, 0.0, got.Ranking[0].SavingsPercent)
	assert.Equal(t, "1", got.Ranking[1].ItemID)
	assert.Equal(t, 2, got.Ranking[1].Rank)
	assert.Equal(t, 11.1, got.Ranking[1].SavingsPercent)
	assert.True(t, got.HasComparison())
}

func TestAnalyze_TiesKeepInputOrder(t *testing.T) {
	items := []models.Item{
		item("a", "6", "2"),
		item("b", "9", "3"),
		item("c", "3", "1"),
	}

	got := Analyze(items)

	require.Len(t, got.Ranking, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, got.Ranking[i].ItemID)
		assert.Equal(t, i+1, got.Ranking[i].Rank)
		assert.Equal(t, 0.0, got.Ranking[i].SavingsPercent)
		assert.Equal(t, "3.00", got.Ranking[i].DisplayPrice)
	}
}

func TestAnalyze_InvalidInputs(t *testing.T) {
	items := []models.Item{
		item("zero-qty", "10", "0"),
		item("neg-qty", "10", "-2"),
		item("text-price", "ten", "2"),
		item("nan", "NaN", "1"),
		item("blank-qty", "10", ""),
		item("neg-price", "-5", "1"),
		// a zero price is rejected like a zero quantity
		item("zero-price", "0", "1"),
	}

	got := Analyze(items)

	require.Len(t, got.UnitPrices, len(items))
	for _, up := range got.UnitPrices {
		assert.False(t, up.Valid, up.ItemID)
		assert.Equal(t, utils.Placeholder, up.DisplayPrice, up.ItemID)
	}
	assert.Empty(t, got.Ranking)
	assert.False(t, got.HasComparison())
}

func TestAnalyze_OutOfRangeQuotientIsInvalid(t *testing.T) {
	items := []models.Item{
		item("overflow", "1e308", "0.001"),
		item("underflow-a", "1e-200", "1e200"),
		item("underflow-b", "1e-200", "1e200"),
		item("normal", "10", "2"),
	}

	got := Analyze(items)

	require.Len(t, got.UnitPrices, 4)
	for _, up := range got.UnitPrices[:3] {
		assert.False(t, up.Valid, up.ItemID)
		assert.Equal(t, utils.Placeholder, up.DisplayPrice, up.ItemID)
		assert.Zero(t, up.UnitPrice, up.ItemID)
	}
	require.Len(t, got.Ranking, 1)
	assert.Equal(t, "normal", got.Ranking[0].ItemID)
	assert.Equal(t, 0.0, got.Ranking[0].SavingsPercent)

	_, err := json.Marshal(got)
	assert.NoError(t, err)
}

func TestRank_ZeroCheapestKeepsFiniteSavings(t *testing.T) {
	ranking := Rank([]models.UnitPriceResult{
		{ItemID: "a", Position: 1, Valid: true, UnitPrice: 0},
		{ItemID: "b", Position: 2, Valid: true, UnitPrice: 0},
		{ItemID: "c", Position: 3, Valid: true, UnitPrice: 5},
	})

	require.Len(t, ranking, 3)
	for _, entry := range ranking {
		assert.False(t, math.IsNaN(entry.SavingsPercent), entry.ItemID)
		assert.False(t, math.IsInf(entry.SavingsPercent, 0), entry.ItemID)
	}
}

func TestAnalyze_UnitPriceIsExactQuotient(t *testing.T) {
	got := Analyze([]models.Item{item("1", "10", "3"), item("2", "7.3", "1.7")})

	assert.Equal(t, 10.0/3.0, got.UnitPrices[0].UnitPrice)
	assert.Equal(t, "3.33", got.UnitPrices[0].DisplayPrice)
	assert.Equal(t, 7.3/1.7, got.UnitPrices[1].UnitPrice)
	assert.Equal(t, "4.29", got.UnitPrices[1].DisplayPrice)
}

func TestAnalyze_SavingsFormula(t *testing.T) {
	items := []models.Item{
		item("1", "12.99", "3"),
		item("2", "4.2", "1"),
		item("3", "25", "7.5"),
		item("4", "9.99", "2"),
		item("5", "1", "0.25"),
	}

	got := Analyze(items)
	require.Len(t, got.Ranking, 5)

	cheapest := got.Ranking[0].UnitPrice
	assert.Equal(t, 0.0, got.Ranking[0].SavingsPercent)
	for i := 1; i < len(got.Ranking); i++ {
		prev, cur := got.Ranking[i-1], got.Ranking[i]
		assert.LessOrEqual(t, prev.UnitPrice, cur.UnitPrice)
		want := utils.RoundHalfAwayFromZero((cur.UnitPrice-cheapest)/cheapest*100, 1)
		assert.Equal(t, want, cur.SavingsPercent)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	items := []models.Item{item("1", "3", "2"), item("2", "5", "4"), item("3", "x", "1")}
	before := fmt.Sprintf("%+v", items)

	first := Analyze(items)
	second := Analyze(items)

	assert.Equal(t, first, second)
	assert.Equal(t, before, fmt.Sprintf("%+v", items), "input must not be mutated")
}

func TestAnalyze_NoItems(t *testing.T) {
	got := Analyze(nil)
	assert.Empty(t, got.UnitPrices)
	assert.Empty(t, got.Ranking)
}

func TestAnalyze_PositionsAreOneBased(t *testing.T) {
	got := Analyze([]models.Item{item("x", "2", "1"), item("y", "1", "1")})

	assert.Equal(t, 1, got.UnitPrices[0].Position)
	assert.Equal(t, 2, got.UnitPrices[1].Position)
	assert.Equal(t, 2, got.Ranking[0].Position)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Oat milk", DisplayName(" Oat milk ", 1))
	assert.Equal(t, "Item 3", DisplayName("   ", 3))
}
