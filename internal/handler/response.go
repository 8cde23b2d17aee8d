package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mdpreview/mdpreview/internal/types"
)

// envelope is the uniform response shape: {success, data, message?}.
type envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data"`
	Message    string            `json:"message,omitempty"`
	Pagination *types.Pagination `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondData writes a success envelope with a payload.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// respondMessage writes a success envelope with a message and no payload.
func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Data: nil, Message: message})
}

// respondPage writes a success envelope with a list payload and pagination block.
func respondPage(w http.ResponseWriter, data any, pagination types.Pagination) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: &pagination})
}

// respondError writes a failure envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Data: nil, Message: message})
}

// NotFound is the fallback for unmatched routes, keeping 404s in the same
// envelope as every other response.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Not found")
}
