// Package web holds the HTTP plumbing shared by every route: the response
// envelope, request IDs, request logging, panic recovery and metrics.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message,omitempty"`
	Query      string   `json:"query,omitempty"`
	Count      *int     `json:"count,omitempty"`
	Data       any      `json:"data,omitempty"`
	Pagination any      `json:"pagination,omitempty"`
	Error      string   `json:"error,omitempty"`
	Details    []string `json:"details,omitempty"`
	Stack      string   `json:"stack,omitempty"`
}

// RespondJSON writes payload as JSON with the given status.
func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondError writes a failure envelope with the given status.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, Envelope{Success: false, Error: message})
}
