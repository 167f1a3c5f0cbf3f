package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dvsacheck/pkg/logger"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "RequestID"

// RequestIDHeader is read from the request and echoed on the response
const RequestIDHeader = "X-Request-ID"

// RequestID middleware to generate request ID if not present.
// The ID is also stored in the request context so services log it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
