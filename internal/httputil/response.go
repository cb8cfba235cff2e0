// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// StatusResponse is the wire shape devices expect for terminal failures.
// The protocol predates this server; the field names are fixed by the
// firmware parsing them.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the wire shape for malformed requests and internal faults.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON
// response using Gin. Every authentication-related failure collapses into the
// same 401 body so the caller cannot tell which check failed.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var body any

	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		body = StatusResponse{Status: "not authorized"}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		body = StatusResponse{Status: "file not found"}

	case apperrors.Is(err, apperrors.ErrNotReady):
		statusCode = http.StatusRequestTimeout
		body = StatusResponse{Status: "file not ready. retry later"}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		body = ErrorResponse{Error: err.Error()}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		body = ErrorResponse{Error: "internal error"}
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, body)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
