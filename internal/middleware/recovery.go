package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// Recovery converts panics into recorded internal errors. The error shaper
// sitting outside this middleware produces the actual 500 response, so a
// panicking handler still gets the standard envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
					zap.String("stack", string(debug.Stack())),
				)
				Abort(c, apperrors.ErrInternalError.WithError(fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
