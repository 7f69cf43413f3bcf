package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"webslayer-go/pkg/requestid"
)

// ErrorHandler recovers from panics in handlers and answers with a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		zap.S().Named("http").Errorw("handler panic",
			"request_id", requestid.FromContext(c.Request.Context()),
			"path", c.Request.URL.Path,
			"panic", recovered)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
		c.Abort()
	})
}
