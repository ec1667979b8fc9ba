// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"salescrm_backend/platform/apperr"
	"salescrm_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// MsgInternal is the body text for every unexpected server error.
const MsgInternal = "Something went wrong!"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// A typed *apperr.Error anywhere in the chain decides the status code and
// message. Anything else is logged and answered with a generic 500.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) && domainErr.Kind != apperr.KindUnknown {
		status := domainErr.HTTPStatus()
		message := domainErr.Message
		if status >= http.StatusInternalServerError && domainErr.Kind == apperr.KindInternal {
			logError(c, status, err)
			message = MsgInternal
		}
		c.JSON(status, ErrorResponse{Error: message})
		return true
	}

	logError(c, http.StatusInternalServerError, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgInternal})
	return true
}

// ContextLoggerKey is the gin context key holding the request-scoped logger.
const ContextLoggerKey = "logger"

func logError(c *gin.Context, status int, err error) {
	value, ok := c.Get(ContextLoggerKey)
	if !ok {
		return
	}
	if log, ok := value.(*logger.Logger); ok && log != nil {
		log.HTTPError(c.Request.Method, c.Request.URL.Path, status, err, c.ClientIP())
	}
}
