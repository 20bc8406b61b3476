package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// credentialHeaders carry the refresh cookie and the bearer access token.
var credentialHeaders = []string{"Cookie", "Authorization"}

// RequestLogger tags every request with an id and logs its outcome.
// Credential headers are logged only as present or absent.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(HeaderRequestID, rid)

		reqLog := log.With(
			zap.String("request_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		reqLog.Debug("incoming request",
			zap.String("origin", c.GetHeader("Origin")),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Strings("credentials", presentCredentials(c.Request.Header)),
		)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case len(c.Errors) > 0:
			reqLog.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
		case c.Writer.Status() >= http.StatusInternalServerError:
			reqLog.Error("completed", fields...)
		case c.IsAborted():
			reqLog.Warn("aborted", fields...)
		default:
			reqLog.Info("completed", fields...)
		}
	}
}

func presentCredentials(h http.Header) []string {
	var out []string
	for _, name := range credentialHeaders {
		if h.Get(name) != "" {
			out = append(out, name)
		}
	}
	return out
}
