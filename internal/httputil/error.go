package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tkaczmarz/rocket-arena/internal/service"
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	errorJSON(w, http.StatusInternalServerError, "internal server error")
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	errorJSON(w, http.StatusBadRequest, msg)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	errorJSON(w, http.StatusNotFound, msg)
}

// ServiceError maps business errors onto HTTP statuses. Anything unmapped is
// a 500 with the detail kept server-side.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTournamentNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrPlayerNotFound):
		NotFound(w, err.Error(), nil)
	case errors.Is(err, service.ErrNotOwner):
		slog.Warn("forbidden", "error", err)
		errorJSON(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrTournamentNotOpen),
		errors.Is(err, service.ErrMatchAlreadyCompleted),
		errors.Is(err, service.ErrUsernameConflict):
		slog.Warn("conflict", "error", err)
		errorJSON(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrNotEnoughPlayers),
		errors.Is(err, service.ErrInvalidScore):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, service.ErrUnavailable):
		slog.Warn("storage unavailable", "error", err)
		errorJSON(w, http.StatusServiceUnavailable, err.Error())
	default:
		InternalServerError(w, "unhandled service error", err)
	}
}
