package pricing

import (
	"fmt"

	"value-helper/models"
	"value-helper/utils"
)

// Category tags with a dedicated tip
const (
	CategoryFood      = "food"
	CategoryDrinks    = "drinks"
	CategoryBeauty    = "beauty"
	CategoryHousehold = "household"
)

// Suggest builds the recommendation for a ranking.
// It returns false when fewer than two items could be compared. Unknown or empty
// category tags fall back to the generic message.
func Suggest(ranking []models.RankedEntry, unit string, categoryTag string) (string, bool) {
	if len(ranking) < 2 {
		return "", false
	}

	cheapest := ranking[0]
	name := DisplayName(cheapest.Name, cheapest.Position)
	savings := utils.FormatPercent(ranking[len(ranking)-1].SavingsPercent)

	switch utils.MapCategoryToTag(categoryTag) {
	case CategoryFood:
		return fmt.Sprintf("%s is the best value! Buy fresh produce as you need it and stock up when it is on offer.", name), true
	case CategoryDrinks:
		return fmt.Sprintf("Choose %s: the priciest option costs %s%% more per %s. Drinks are cheaper in large packs!", name, savings, unit), true
	case CategoryBeauty:
		return fmt.Sprintf("%s is the best deal. Beauty products keep for a long time, so it is worth stocking up.", name), true
	case CategoryHousehold:
		return fmt.Sprintf("%s offers the best value. Buy household goods in bulk to cut costs.", name), true
	default:
		return fmt.Sprintf("%s is the cheapest; the most expensive option costs %s%% more!", name, savings), true
	}
}
