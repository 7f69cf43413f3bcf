package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webslayer-go/pkg/state"
)

// GetState returns the draft and the tracked job.
func GetState(store *state.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"draft": store.Draft(),
			"job":   store.Job(),
		})
	}
}

// ReplaceDraft overwrites the draft; config fields are clamped.
func ReplaceDraft(store *state.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft := state.DefaultDraft()
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, store.ReplaceDraft(draft))
	}
}
