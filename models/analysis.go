package models

// AnalyzeRequest represents the request body for POST /api/analyze
type AnalyzeRequest struct {
	Category string `json:"category"`
	Unit     string `json:"unit"`
	Items    []Item `json:"items"`
}

// AnalyzeResponse represents the analysis result returned to the client
type AnalyzeResponse struct {
	Category     string            `json:"category"`
	Unit         string            `json:"unit"`
	UnitPrices   []UnitPriceResult `json:"unitPrices"`
	Ranking      []RankedEntry     `json:"ranking"`
	Tip          string            `json:"tip,omitempty"`
	HasValidData bool              `json:"hasValidData"`
}
