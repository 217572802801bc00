// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// Fixed messages for the two authorization failure kinds.
const (
	MessageUnauthenticated = "Full authentication is required to access this resource"
	MessageForbidden       = "You do not have permission to access this resource"
	MessageInternal        = "An internal error occurred"
)

// ErrorResponse is the uniform error body returned at the HTTP boundary.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// HandleErrorGin maps domain errors to HTTP status codes and writes an ErrorResponse.
// The full error chain is logged server side; the body never carries internal detail.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, message := classify(err)
	writeError(c, statusCode, message, err, logger)
}

// HandleUnauthorizedGin collapses every failure of a credential endpoint into a 401
// carrying message. Only validation errors keep their 422. Causes that are not
// authentication failures, such as a store outage, are logged at Error.
func HandleUnauthorizedGin(c *gin.Context, err error, message string, logger *slog.Logger) {
	if apperrors.Is(err, apperrors.ErrInvalidInput) {
		HandleErrorGin(c, err, logger)
		return
	}
	if !apperrors.Is(err, apperrors.ErrUnauthorized) && logger != nil {
		logger.Error("credential check failed internally",
			slog.String("path", requestPath(c)),
			slog.Any("error", err),
		)
	}
	writeError(c, http.StatusUnauthorized, message, err, logger)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.String("path", requestPath(c)), slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Status:  http.StatusBadRequest,
		Error:   http.StatusText(http.StatusBadRequest),
		Message: err.Error(),
		Path:    requestPath(c),
	})
}

// AbortWithErrorGin renders err like HandleErrorGin and stops the handler chain.
func AbortWithErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	HandleErrorGin(c, err, logger)
	c.Abort()
}

func classify(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, MessageUnauthenticated

	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, MessageForbidden

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity, publicMessage(err, apperrors.ErrInvalidInput)

	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, publicMessage(err, apperrors.ErrConflict)

	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, publicMessage(err, apperrors.ErrNotFound)

	case apperrors.Is(err, apperrors.ErrTooManyRequests):
		return http.StatusTooManyRequests, "Rate limit exceeded, please retry later"

	default:
		// Configuration and unknown errors are opaque to the caller
		return http.StatusInternalServerError, MessageInternal
	}
}

// publicMessage strips the trailing sentinel text that apperrors.Wrap appends, so
// "username is already taken: conflict" renders as "username is already taken".
func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func writeError(c *gin.Context, statusCode int, message string, err error, logger *slog.Logger) {
	path := requestPath(c)

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, ErrorResponse{
		Status:  statusCode,
		Error:   http.StatusText(statusCode),
		Message: message,
		Path:    path,
	})
}

func requestPath(c *gin.Context) string {
	if c.Request == nil || c.Request.URL == nil {
		return ""
	}
	return c.Request.URL.Path
}
