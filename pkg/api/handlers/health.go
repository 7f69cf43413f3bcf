package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webslayer-go/pkg/cache"
)

// HealthCheck reports liveness and, when a cache is configured, whether it
// answers.
func HealthCheck(repo cache.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if repo != nil {
			if err := repo.Health(c.Request.Context()); err != nil {
				body["cache"] = err.Error()
			} else {
				body["cache"] = "ok"
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
