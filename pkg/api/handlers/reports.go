package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"webslayer-go/pkg/export"
	"webslayer-go/pkg/models"
	"webslayer-go/pkg/services"
)

func ListReports(reports *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.ReportFilter{SchemaName: c.Query("schema_name")}
		for key, dst := range map[string]**time.Time{
			"start_time": &filter.StartTime,
			"end_time":   &filter.EndTime,
		} {
			v := c.Query(key)
			if v == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key + ": expected RFC3339"})
				return
			}
			*dst = &t
		}
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			filter.Limit = n
		}

		list, err := reports.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetReport(reports *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := reports.Get(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// DownloadReport sends the report as an attachment, JSON unless
// ?format=xlsx.
func DownloadReport(reports *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := export.ParseFormat(c.Query("format"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dl, err := reports.Download(c.Request.Context(), c.Param("name"), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+dl.Filename+`"`)
		c.Data(http.StatusOK, dl.ContentType, dl.Data)
	}
}

func ArchiveReport(reports *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := export.ParseFormat(c.Query("format"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := reports.Archive(c.Request.Context(), c.Param("name"), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// CheckReport validates report content against ?schema, or the schema the
// report names.
func CheckReport(reports *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := reports.Check(c.Request.Context(), c.Param("name"), c.Query("schema"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func DeleteReport(reports *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := reports.Delete(c.Request.Context(), c.Param("name")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
	}
}
