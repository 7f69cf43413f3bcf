package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webslayer-go/pkg/models"
	"webslayer-go/pkg/services"
)

func ListProjects(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := b.ListProjects(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetProject(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := b.GetProject(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func UpsertProject(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.Project
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if p.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project name is required"})
			return
		}
		saved, err := b.UpsertProject(c.Request.Context(), p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func DeleteProject(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := b.DeleteProject(c.Request.Context(), c.Param("name")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
	}
}

// ProjectOverview returns a project together with the schema names it can use.
func ProjectOverview(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ov, err := projects.Overview(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ov)
	}
}

// RunProject loads a project into the draft and submits it.
func RunProject(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		created, err := projects.Run(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, created)
	}
}
