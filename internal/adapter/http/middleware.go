package http

import (
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthflow-ledger/internal/adapter/dto"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// statusFor maps ledger error kinds to HTTP status codes
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return stdhttp.StatusNotFound
	case domain.KindInvalidArgument:
		return stdhttp.StatusBadRequest
	case domain.KindInvalidState, domain.KindConflict:
		return stdhttp.StatusConflict
	case domain.KindAmountMismatch:
		return stdhttp.StatusUnprocessableEntity
	case domain.KindForbidden:
		return stdhttp.StatusForbidden
	default:
		return stdhttp.StatusInternalServerError
	}
}

// fail records err on the context and writes the error body
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(domain.KindOf(err)), dto.NewErrorResponse(err))
}

// LoggingMiddleware logs one line per request. Failed requests carry the
// error kind; internal failures also carry the underlying cause.
func LoggingMiddleware(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})

		if err := c.Errors.Last(); err != nil {
			entry = entry.WithField("kind", string(domain.KindOf(err.Err)))
			if status >= stdhttp.StatusInternalServerError {
				entry.WithError(err.Err).Error("request failed")
				return
			}
			entry.Warn("request rejected")
			return
		}

		entry.Info("request completed")
	}
}

// RecoveryMiddleware turns a panicking handler into a 500 with the
// ledger error body. The panic is recorded on the context for
// LoggingMiddleware.
func RecoveryMiddleware(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"method": c.Request.Method,
					"path":   c.FullPath(),
					"panic":  r,
				}).Error("request panicked")
				fail(c, domain.NewStoreFailure(fmt.Errorf("panic: %v", r), "internal error"))
			}
		}()

		c.Next()
	}
}
