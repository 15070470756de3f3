// Package httpx holds the JSON response helpers for the plain HTTP
// endpoints outside the GraphQL schema.
package httpx

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes payload as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// JSONError writes a one-field error object with the given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}
