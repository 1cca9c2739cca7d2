package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSON writes v with the given status. Encoding failures are logged; headers
// are already out by then.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}
