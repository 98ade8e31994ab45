package shared

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes v as a JSON response body with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes the rejection envelope used across the API.
// Extra context fields may be attached for debuggability.
func RespondError(w http.ResponseWriter, status int, message string, fields map[string]any) {
	body := map[string]any{
		"success": false,
		"message": message,
	}
	for k, v := range fields {
		if k == "success" || k == "message" {
			continue
		}
		body[k] = v
	}
	RespondJSON(w, status, body)
}
