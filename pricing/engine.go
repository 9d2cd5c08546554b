// Package pricing derives unit prices from raw item input, ranks them and
// builds the shopping tip shown next to the ranking.
package pricing

import (
	"cmp"
	"math"
	"slices"

	"value-helper/models"
	"value-helper/utils"
)

// Analyze computes unit prices for every item and the ascending ranking of the valid ones.
//
// Analyze is a pure function: it keeps no state between calls and never mutates items.
// Items whose price or quantity do not parse keep their place in UnitPrices with the
// "--" placeholder and are left out of Ranking.
func Analyze(items []models.Item) models.Analysis {
	unitPrices := make([]models.UnitPriceResult, 0, len(items))
	for i, item := range items {
		unitPrices = append(unitPrices, unitPriceFor(item, i+1))
	}

	return models.Analysis{
		UnitPrices: unitPrices,
		Ranking:    Rank(unitPrices),
	}
}

func unitPriceFor(item models.Item, position int) models.UnitPriceResult {
	result := models.UnitPriceResult{
		ItemID:       item.ID,
		Position:     position,
		Name:         item.Name,
		DisplayPrice: utils.Placeholder,
	}

	price, err := utils.ParseNumericField(item.RawPrice)
	if err != nil {
		return result
	}
	quantity, err := utils.ParseNumericField(item.RawQuantity)
	if err != nil {
		return result
	}

	// a quotient that overflows or underflows cannot be ranked
	unitPrice := price / quantity
	if math.IsInf(unitPrice, 0) || math.IsNaN(unitPrice) || unitPrice <= 0 {
		return result
	}

	result.UnitPrice = unitPrice
	result.Valid = true
	result.DisplayPrice = utils.FormatUnitPrice(result.UnitPrice)
	return result
}

// Rank orders the valid unit prices ascending and assigns dense 1-based ranks.
// Equal unit prices keep their input order. The cheapest entry has 0 savings; every
// other entry carries how much more it costs than the cheapest, in percent, rounded
// to one decimal.
func Rank(unitPrices []models.UnitPriceResult) []models.RankedEntry {
	valid := make([]models.UnitPriceResult, 0, len(unitPrices))
	for _, up := range unitPrices {
		if up.Valid {
			valid = append(valid, up)
		}
	}

	slices.SortStableFunc(valid, func(a, b models.UnitPriceResult) int {
		return cmp.Compare(a.UnitPrice, b.UnitPrice)
	})

	ranking := make([]models.RankedEntry, 0, len(valid))
	for i, up := range valid {
		entry := models.RankedEntry{
			ItemID:       up.ItemID,
			Position:     up.Position,
			Name:         up.Name,
			Rank:         i + 1,
			UnitPrice:    up.UnitPrice,
			DisplayPrice: up.DisplayPrice,
		}
		if cheapest := valid[0].UnitPrice; i > 0 && cheapest > 0 {
			entry.SavingsPercent = utils.RoundHalfAwayFromZero((up.UnitPrice-cheapest)/cheapest*100, 1)
		}
		ranking = append(ranking, entry)
	}
	return ranking
}
