package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"refind/apperr"
	"refind/auth"
)

// MapErrorToHTTP maps domain errors to a status code and a client-facing message.
// Classified errors surface their own message; anything else is an internal fault.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid or expired token"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError writes err to the client. Internal faults are logged with the
// request's fields and never echoed.
func respondError(c *gin.Context, handlerName string, err error) {
	status, message := MapErrorToHTTP(err)
	if status == http.StatusInternalServerError {
		requestLogger(c).WithFields(logrus.Fields{
			"handler": handlerName,
			"error":   err.Error(),
		}).Error(handlerName + ": request failed")
		JSONError(c, status, errors.New(message), message, nil)
		return
	}
	JSONError(c, status, err, message, apperr.Fields(err))
}

// handleBindError sends a standardized JSON error for binding failures
func handleBindError(c *gin.Context, handlerName string, err error) {
	wrapped := fmt.Errorf("invalid request payload: %w", err)
	JSONError(c, http.StatusBadRequest, wrapped, "invalid request payload", nil)
	requestLogger(c).WithField("error", err.Error()).Warn(handlerName + ": binding error")
}
