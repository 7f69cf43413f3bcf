package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"webslayer-go/pkg/backend"
	"webslayer-go/pkg/services"
	"webslayer-go/pkg/utils"
)

// errorStatus maps an error to the HTTP status and body message the
// dashboard answers with. Backend responses are relayed with their status;
// failures to reach the backend become 502.
func errorStatus(err error) (int, string) {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, "validation failed"
	}
	if errors.Is(err, services.ErrArchiveDisabled) {
		return http.StatusNotImplemented, err.Error()
	}
	if rerr, ok := backend.AsRequestError(err); ok {
		if rerr.StatusCode == 0 {
			if rerr.Type == backend.ErrorTypeInvalidResponse {
				return http.StatusBadGateway, rerr.UserMessage()
			}
			return http.StatusBadGateway, "backend unavailable"
		}
		return rerr.StatusCode, rerr.Message
	}
	return http.StatusInternalServerError, err.Error()
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, msg := errorStatus(err)
	body := gin.H{"error": msg}
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	c.JSON(status, body)
}
