// Package httpkit holds the gin helpers shared by every handler: response
// envelopes, error mapping and middleware.
package httpkit

import (
	"errors"
	"net/http"

	"realty_crm_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const msgInternal = "internal error"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

func Error(c *gin.Context, status int, message string, details any) {
	JSON(c, status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes err and reports whether there was one. An *apperr.Error
// anywhere in the chain picks the status and message; anything else becomes
// a bare 500. The error is recorded on the gin context for RequestLogger.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		Error(c, http.StatusInternalServerError, msgInternal, nil)
		return true
	}

	message := appErr.Message
	if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindUnknown {
		message = msgInternal
	}
	Error(c, appErr.HTTPStatus(), message, appErr.Details)
	return true
}
