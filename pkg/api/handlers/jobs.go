package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"webslayer-go/pkg/models"
	"webslayer-go/pkg/services"
)

// StartJob submits the request body, or the current draft when the body is
// empty, and starts tracking the new job.
func StartJob(jobs *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		var req *models.JobRequest
		if len(bytes.TrimSpace(body)) > 0 {
			req = &models.JobRequest{}
			if err := binding.JSON.BindBody(body, req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		created, err := jobs.Submit(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, created)
	}
}

// CurrentJob returns the tracked job's snapshot.
func CurrentJob(jobs *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, jobs.Current())
	}
}

// ClearJob stops tracking the current job.
func ClearJob(jobs *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs.Clear()
		c.JSON(http.StatusOK, jobs.Current())
	}
}

func JobHistory(jobs *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		recs, err := jobs.History(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, recs)
	}
}

// JobStatus proxies a status request. Failures are reported as a failed job
// so pollers can treat the body uniformly.
func JobStatus(b services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := b.GetJobStatus(c.Request.Context(), c.Param("jobId"))
		if err != nil {
			code, msg := errorStatus(err)
			_ = c.Error(err)
			c.JSON(code, gin.H{"error": msg, "status": models.JobStatusFailed})
			return
		}
		c.JSON(http.StatusOK, status)
	}
}
