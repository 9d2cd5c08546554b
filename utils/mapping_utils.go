package utils

import "strings"

// MapCategoryToTag maps category names and aliases to their canonical tag.
// Input is normalized to lowercase before mapping; unknown values are returned
// lowercased so callers can still look them up.
func MapCategoryToTag(category string) string {
	categoryLower := strings.ToLower(strings.TrimSpace(category))

	categoryMap := map[string]string{
		"food":      "food",
		"fresh":     "food",
		"groceries": "food",
		"drinks":    "drinks",
		"drink":     "drinks",
		"beverages": "drinks",
		"beauty":    "beauty",
		"cosmetics": "beauty",
		"household": "household",
		"home":      "household",
	}

	if tag, exists := categoryMap[categoryLower]; exists {
		return tag
	}
	return categoryLower
}

// NormalizeUnit normalizes unit spellings to the short form used in the catalogue.
// Litre is upper-case "L" while every other metric unit is lower-case.
func NormalizeUnit(unit string) string {
	trimmed := strings.TrimSpace(unit)
	lower := strings.ToLower(trimmed)

	unitMap := map[string]string{
		"l":          "L",
		"liter":      "L",
		"litre":      "L",
		"liters":     "L",
		"litres":     "L",
		"ml":         "ml",
		"milliliter": "ml",
		"millilitre": "ml",
		"kg":         "kg",
		"kilogram":   "kg",
		"kilograms":  "kg",
		"g":          "g",
		"gram":       "g",
		"grams":      "g",
	}

	if u, exists := unitMap[lower]; exists {
		return u
	}
	return trimmed
}
