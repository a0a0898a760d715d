package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID   = "X-Request-ID"
	ContextRequestID  = "requestID"
	maxRequestIDBytes = 128
)

// RequestIDMiddleware keeps a caller supplied X-Request-ID or generates one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDBytes {
			id = uuid.NewString()
		}

		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

func RequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
