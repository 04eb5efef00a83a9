package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/unisport/internal/catalog"
	"github.com/pfrederiksen/unisport/internal/filter"
	"github.com/pfrederiksen/unisport/internal/logger"
)

// AppError is an error with the HTTP status code it should be answered with
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with a status code and message
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// WrapAppError creates an AppError wrapping an existing error
func WrapAppError(err error, code int, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// toAppError maps domain errors to HTTP errors. Unknown errors become 500.
func toAppError(err error) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, catalog.ErrNotLoaded):
		return WrapAppError(err, http.StatusServiceUnavailable, "catalog not loaded")
	case errors.Is(err, catalog.ErrCourseNotFound):
		return WrapAppError(err, http.StatusNotFound, "course not found")
	case errors.Is(err, catalog.ErrInvalidPage), errors.Is(err, filter.ErrInvalidFilter):
		return WrapAppError(err, http.StatusBadRequest, err.Error())
	default:
		return WrapAppError(err, http.StatusInternalServerError, "internal server error")
	}
}

// respondError sends a JSON error response, logging server-side failures
func respondError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error("request failed", logger.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": appErr.Code,
		}, err)
	}
	c.AbortWithStatusJSON(appErr.Code, ErrorResponse{Error: appErr.Message})
}
