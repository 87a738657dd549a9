package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/surligne/pkg/domain"
)

// statusFor maps editor errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDuplicateKeyword), errors.Is(err, domain.ErrZoneExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrZoneNotFound),
		errors.Is(err, domain.ErrKeywordNotFound),
		errors.Is(err, domain.ErrWorkspaceNotFound):
		return http.StatusNotFound
	case domain.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}
