package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the structured error body returned by every REST endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a structured error body with a stable error kind.
// The underlying error, if any, is exposed in the details field.
func WriteError(w http.ResponseWriter, status int, kind string, err error) {
	body := ErrorResponse{Error: kind}
	if err != nil {
		body.Details = err.Error()
	}
	WriteJSON(w, status, body)
}
