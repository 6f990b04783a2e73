// Package httputil holds the JSON and CSP helpers shared by the local
// server and the API client.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorBody is the error envelope used by the remote API and by this
// server: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("httputil: failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Error: message})
}

// ErrorMessage extracts the message from an error response body. Bodies
// that are not an ErrorBody yield their trimmed text, or "" when that does
// not fit on one short line.
func ErrorMessage(body []byte) string {
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		return strings.TrimSpace(eb.Error)
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 || strings.ContainsAny(text, "\n<") {
		return ""
	}
	return text
}
