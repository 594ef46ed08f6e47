package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nmoreno/walletly/internal/service"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps a service error to its HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Msg
		switch se.Kind {
		case service.KindNotFound:
			status = http.StatusNotFound
		case service.KindForbidden:
			status = http.StatusForbidden
		case service.KindBadRequest:
			status = http.StatusBadRequest
		case service.KindUnauthenticated:
			status = http.StatusUnauthorized
		default:
			status = http.StatusInternalServerError
			msg = "internal error"
		}
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

// decode parses the JSON request body into v.
func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// badJSON is the uniform response for undecodable bodies.
func badJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
}
