package middleware

import (
	"github.com/gin-gonic/gin"

	"webslayer-go/pkg/requestid"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one, and stores
// it on the request context so backend calls forward it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" {
			id = requestid.Generate()
		}
		c.Request = c.Request.WithContext(requestid.ToContext(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}
