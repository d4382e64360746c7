package models

import (
	"encoding/json"
	"net/http"
)

// RequestIDHeader carries the preview-server request id in both directions
const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the body of every preview-server error. RequestID lets a
// client match the failure to the server log line.
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Code      int    `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes an ErrorResponse, echoing the request id already set on
// the response by the RequestID middleware.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{
		Status:    "error",
		Message:   message,
		Code:      code,
		RequestID: w.Header().Get(RequestIDHeader),
	})
}

// WriteJSON writes v as JSON. Console responses are live snapshots, so they
// are never cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
