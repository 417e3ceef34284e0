package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	StatusCode int      `json:"-"`
	Code       string   `json:"code,omitempty"`
	Message    string   `json:"message"`
	Details    string   `json:"details,omitempty"`
	Refs       []string `json:"refs,omitempty"`
}

func NewAPIError(statusCode int, code, message, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

func HTTPStatus(k Kind) int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindInvalidTransition:
		return http.StatusConflict
	case KindStaleDependency:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// FromError converts a use-case error to its response shape. Internal
// errors keep their cause out of the response body.
func FromError(err error) *APIError {
	var appErr *Error
	if errors.As(err, &appErr) {
		return &APIError{
			StatusCode: HTTPStatus(appErr.Kind),
			Code:       string(appErr.Kind),
			Message:    appErr.Message,
			Refs:       appErr.Refs,
		}
	}
	return NewAPIError(http.StatusInternalServerError, string(KindInternal), "internal server error", "")
}

func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{"error": err})
}

func Respond(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	RespondWithError(c, FromError(err))
}

// RespondBindError reports a request body or query that failed to bind.
func RespondBindError(c *gin.Context, err error) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, string(KindValidation), "Input validation failed", strings.TrimSpace(err.Error())))
}
