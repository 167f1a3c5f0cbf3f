package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dvsacheck/pkg/dvsa"
	"dvsacheck/pkg/logger"
	"dvsacheck/pkg/response"
)

// ErrInvalidBody indicates a request body that is not valid JSON
var ErrInvalidBody = errors.New("invalid request body")

// APIError represents a custom API error structure
type APIError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API Error (Code: %d, Message: %s): %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("API Error (Code: %d, Message: %s)", e.Code, e.Message)
}

// Unwrap supports error wrapping
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, err error) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message, Err: err}
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(message string, err error) *APIError {
	return &APIError{Code: http.StatusInternalServerError, Message: message, Err: err}
}

// ToAPIError maps check failures onto HTTP statuses. Validation problems are 400,
// everything else is 500 carrying the error text, which for a block page is the
// message shown to the user.
func ToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var ve *dvsa.ValidationError
	switch {
	case errors.As(err, &ve):
		return NewBadRequestError(ve.Message, err)
	case errors.Is(err, ErrInvalidBody):
		return NewBadRequestError("Invalid request body", err)
	default:
		return NewInternalServerError(err.Error(), err)
	}
}

// HandleError provides unified error handling
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := ToAPIError(err)
	log := logger.FromContext(c.Request.Context())
	if apiErr.Code >= http.StatusInternalServerError {
		log.Error("API error occurred", zap.Int("code", apiErr.Code), zap.Error(err))
	} else {
		log.Warn("API error occurred", zap.Int("code", apiErr.Code), zap.String("message", apiErr.Message))
	}

	response.Error(c, apiErr.Code, apiErr.Message)
}
