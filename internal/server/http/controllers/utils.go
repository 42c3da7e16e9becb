package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// parseLimit parses a limit string and returns a valid limit value.
//
// Returns 0 for empty strings or invalid values.
func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}
