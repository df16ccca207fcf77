package response

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hurtuk18/server-announcements-be/internal/pkg/apperror"
)

// ErrorResponse is the JSON body for all error responses.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Error translates an error into an HTTP response. AppError carries its
// own status; anything else is reported as a generic 500. Internal causes
// are logged, never sent to the client.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == apperror.KindUnexpected {
			logInternal(c, appErr.Unwrap())
		}
		c.JSON(appErr.HTTPStatus(), ErrorResponse{
			Message: appErr.Message,
			Errors:  appErr.Details,
		})
		return
	}

	logInternal(c, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
}

func logInternal(c *gin.Context, err error) {
	if err == nil {
		return
	}
	evt := log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
	// Stack traces only in debug mode.
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		evt = evt.Bytes("stack", debug.Stack())
	}
	evt.Msg("request failed")
}
