// Package middleware holds the gin middleware chain: request identity,
// logging, panic recovery, CORS, rate limiting, authentication and the
// terminal error shaper.
package middleware

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/dto/response"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// Abort records err on the context and stops the handler chain. The error
// shaper turns it into the response, so nothing is written here.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler is the single place errors become responses. It classifies
// the last recorded error, logs non-operational ones, and emits exactly one
// body: JSON under /api, a minimal HTML page elsewhere. In production the
// client sees only operational messages; everything else collapses to a
// generic 500.
func ErrorHandler(logger *zap.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		if c.Writer.Written() {
			// A handler already produced a body; just log the leftovers.
			logger.Warn("errors recorded after response written",
				zap.String("path", c.Request.URL.Path),
				zap.String("errors", c.Errors.String()))
			return
		}

		err := c.Errors.Last().Err
		appErr := apperrors.Classify(err)

		if appErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)))
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			writeJSONError(c, appErr, err, production)
			return
		}
		writeHTMLError(c, appErr, production)
	}
}

func writeJSONError(c *gin.Context, appErr *apperrors.AppError, cause error, production bool) {
	body := response.Fail(appErr.Status, appErr.Message)
	if production && appErr.Status >= http.StatusInternalServerError {
		body = response.Fail(appErr.Status, "Something went very wrong!")
	}
	if !production {
		body.Error = appErr
		body.Stack = fmt.Sprintf("%+v", cause)
	}
	c.JSON(appErr.Status, body)
}

func writeHTMLError(c *gin.Context, appErr *apperrors.AppError, production bool) {
	message := appErr.Message
	if production && appErr.Status >= http.StatusInternalServerError {
		message = "Please try again later."
	}
	// Classified messages can quote raw client input, so escape before
	// interpolating into markup.
	page := fmt.Sprintf(
		"<!DOCTYPE html><html><head><title>Something went wrong!</title></head>"+
			"<body><h1>Something went wrong!</h1><p>%s</p></body></html>",
		html.EscapeString(message))
	c.Data(appErr.Status, "text/html; charset=utf-8", []byte(page))
}
