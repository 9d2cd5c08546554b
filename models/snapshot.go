package models

// OpenSnapshotResponse is returned when an export session is opened
type OpenSnapshotResponse struct {
	SessionID  string `json:"sessionId"`
	PreviewURL string `json:"previewUrl"`
	Best       string `json:"best"`
	Entries    int    `json:"entries"`
}

// GenerateSnapshotRequest represents the request body for POST /api/snapshots/{id}/generate
type GenerateSnapshotRequest struct {
	PixelDensity float64 `json:"pixelDensity"`
}

// GenerateSnapshotResponse describes a rendered snapshot image
type GenerateSnapshotResponse struct {
	SessionID string  `json:"sessionId"`
	ImageURL  string  `json:"imageUrl"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Scale     float64 `json:"scale"`
	Bytes     int     `json:"bytes"`
}

// RenderFailureResponse carries a categorized render failure to the client
type RenderFailureResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
