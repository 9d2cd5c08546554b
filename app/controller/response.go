package controller

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON encodes v with the given status. The body is encoded before the header
// is written so an encoding failure still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("❌ Error encoding response", "error", err)
		http.Error(w, `{"error":"Failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("❌ Error writing response", "error", err)
	}
}

// writeError sends a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
