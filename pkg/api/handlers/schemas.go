package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webslayer-go/pkg/models"
	"webslayer-go/pkg/services"
	"webslayer-go/pkg/utils"
)

func ListSchemas(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := b.ListSchemas(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, names)
	}
}

func GetSchema(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := b.GetSchema(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// UpsertSchema checks field names and types locally before forwarding.
func UpsertSchema(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var s models.Schema
		if err := c.ShouldBindJSON(&s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.ValidateSchema(s); err != nil {
			respondError(c, err)
			return
		}
		saved, err := b.UpsertSchema(c.Request.Context(), s)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func DeleteSchema(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := b.DeleteSchema(c.Request.Context(), c.Param("name")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "schema deleted"})
	}
}
