package response

import (
	"encoding/json"
	"net/http"
)

// Body is the envelope every endpoint answers with. Only the fields an
// endpoint sets are serialized.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	User    any    `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body Body) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Body{Success: false, Message: msg})
}
