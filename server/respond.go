package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

// respondError writes the standard error envelope. The short error names the
// failure; the message is safe for display to the caller.
func respondError(w http.ResponseWriter, status int, errName, message string) {
	respondJSON(w, status, map[string]any{
		"error":   errName,
		"message": message,
		"success": false,
	})
}
