package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dvsacheck/pkg/logger"
)

// quietPaths are polled by probes and scrapers and never logged
var quietPaths = map[string]bool{
	"/health":      true,
	"/metrics":     true,
	"/favicon.ico": true,
}

// GinZapLogger creates a Gin logging middleware using zap directly.
// A nil logger is resolved per request from the global logger.
func GinZapLogger(zapLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if quietPaths[path] {
			return
		}
		if strings.HasPrefix(path, "/swagger/") && path != "/swagger/index.html" {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("response_size", c.Writer.Size()),
		}
		if gin.Mode() == gin.DebugMode {
			fields = append(fields, zap.String("user_agent", c.Request.UserAgent()))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		log := zapLogger
		if log == nil {
			log = logger.Logger
		}

		// request bodies carry licence numbers and are never logged
		statusCode := c.Writer.Status()
		switch {
		case statusCode >= 500:
			log.Error("Internal server error", fields...)
		case statusCode >= 400:
			log.Warn("Client request error", fields...)
		default:
			log.Info("HTTP request completed", fields...)
		}
	}
}
