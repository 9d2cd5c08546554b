package models

// Item represents one product row entered by the user.
// Price and quantity are kept as raw text; parsing happens in the pricing engine.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RawPrice    string `json:"price"`
	RawQuantity string `json:"quantity"`
}

// UnitPriceResult is the derived unit price for a single item
type UnitPriceResult struct {
	ItemID       string  `json:"itemId"`
	Position     int     `json:"position"` // 1-based index in the input sequence
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unitPrice"`
	Valid        bool    `json:"valid"`
	DisplayPrice string  `json:"displayPrice"` // 2 decimals, or "--" when invalid
}

// RankedEntry is a valid unit price placed in the ascending ranking
type RankedEntry struct {
	ItemID         string  `json:"itemId"`
	Position       int     `json:"position"`
	Name           string  `json:"name"`
	Rank           int     `json:"rank"`
	UnitPrice      float64 `json:"unitPrice"`
	DisplayPrice   string  `json:"displayPrice"`
	SavingsPercent float64 `json:"savingsPercent"` // how much more than rank 1, 1 decimal
}

// Analysis is the full output of one engine run
type Analysis struct {
	UnitPrices []UnitPriceResult `json:"unitPrices"`
	Ranking    []RankedEntry     `json:"ranking"`
}

// HasComparison reports whether at least two items could be compared
func (a Analysis) HasComparison() bool {
	return len(a.Ranking) >= 2
}
