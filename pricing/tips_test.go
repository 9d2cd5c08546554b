package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"value-helper/models"
)

func TestSuggest_NeedsTwoEntries(t *testing.T) {
	_, ok := Suggest(nil, "kg", CategoryFood)
	assert.False(t, ok)

	_, ok = Suggest([]models.RankedEntry{{ItemID: "1", Rank: 1, Name: "Apples"}}, "kg", CategoryFood)
	assert.False(t, ok)
}

func TestSuggest_ByCategory(t *testing.T) {
	ranking := []models.RankedEntry{
		{ItemID: "2", Position: 2, Name: "Big bottle", Rank: 1},
		{ItemID: "1", Position: 1, Name: "Small bottle", Rank: 2, SavingsPercent: 5},
		{ItemID: "3", Position: 3, Name: "Can", Rank: 3, SavingsPercent: 42.5},
	}

	tests := []struct {
		category string
		contains []string
	}{
		{CategoryFood, []string{"Big bottle", "fresh produce"}},
		{CategoryDrinks, []string{"Big bottle", "42.5%", "per L"}},
		{CategoryBeauty, []string{"Big bottle", "stocking up"}},
		{CategoryHousehold, []string{"Big bottle", "bulk"}},
		{"Beverages", []string{"42.5%", "per L"}},
		{"", []string{"Big bottle is the cheapest", "42.5% more"}},
		{"pets", []string{"Big bottle is the cheapest"}},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			tip, ok := Suggest(ranking, "L", tt.category)
			assert.True(t, ok)
			for _, want := range tt.contains {
				assert.Contains(t, tip, want)
			}
		})
	}
}

func TestSuggest_BlankNameUsesPlaceholder(t *testing.T) {
	ranking := []models.RankedEntry{
		{ItemID: "b", Position: 2, Rank: 1},
		{ItemID: "a", Position: 1, Name: "A", Rank: 2, SavingsPercent: 10},
	}

	tip, ok := Suggest(ranking, "kg", "")
	assert.True(t, ok)
	assert.Contains(t, tip, "Item 2 is the cheapest")
}
