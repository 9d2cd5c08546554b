package models

// ClientCapabilities is what the browser reports about its platform APIs
type ClientCapabilities struct {
	CanShare          bool    `json:"canShare"`
	CanShareFiles     bool    `json:"canShareFiles"`
	CanWriteClipboard bool    `json:"canWriteClipboard"`
	PixelDensity      float64 `json:"pixelDensity"`
	Mobile            *bool   `json:"mobile,omitempty"` // nil: derive from User-Agent
}

// DeliveryRequest represents the body of share/download requests.
// Failed lists strategies the client already tried without success.
type DeliveryRequest struct {
	Capabilities ClientCapabilities `json:"capabilities"`
	Failed       []string           `json:"failed,omitempty"`
}

// Directive is an action the client has to perform on behalf of a delivery strategy
type Directive struct {
	Kind     string `json:"kind"` // share_files, share_text, clipboard, download
	Title    string `json:"title,omitempty"`
	Text     string `json:"text,omitempty"`
	URL      string `json:"url,omitempty"`
	FileURL  string `json:"fileUrl,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// DeliveryAttempt records the outcome of one strategy in the chain
type DeliveryAttempt struct {
	Strategy string `json:"strategy"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
}

// DeliveryResponse is returned by the share and download endpoints
type DeliveryResponse struct {
	Strategy   string            `json:"strategy"`
	Message    string            `json:"message"`
	Attempts   []DeliveryAttempt `json:"attempts,omitempty"`
	Directives []Directive       `json:"directives,omitempty"`
}
