package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"companysite/internal/logging"
	"companysite/internal/session"
	"companysite/internal/web"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger logs every request and recovers from panics with a 500 page.
// It should run first so the request id covers the whole chain.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error(c.Request.Context(), "panic recovered",
					"request_id", rid,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"error", fmt.Sprint(recovered),
					"stack", string(debug.Stack()),
				)
				c.Abort()
				web.Render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Error"})
			}
			logRequest(c, log, rid, start)
		}()

		c.Next()
	}
}

func logRequest(c *gin.Context, log logging.Logger, rid string, start time.Time) {
	args := []any{
		"request_id", rid,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
		"identity", string(session.Current(c).Kind),
	}
	ctx := c.Request.Context()
	switch {
	case len(c.Errors) > 0:
		log.Error(ctx, "request", append(args, "error", c.Errors.String())...)
	case c.Writer.Status() >= http.StatusInternalServerError:
		log.Error(ctx, "request", args...)
	default:
		log.Info(ctx, "request", args...)
	}
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
