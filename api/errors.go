package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/validation"
)

const (
	codeInternal       = "internal"
	codeUnavailable    = "unavailable"
	codeInvalidRequest = "InvalidRequest"

	messageHeader = "X-Message"
)

func sendError(c *gin.Context, log logger.Logger, err error) {
	if f, ok := validation.AsFailure(err); ok {
		if f.Status == http.StatusNoContent {
			// 204 carries no body, the message travels in a header
			c.Header(messageHeader, f.Message)
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(f.Status, gin.H{
			"error": f.Message,
			"code":  f.Code,
		})
		return
	}

	if errors.Is(err, domain.ErrStoreUnavailable) {
		log.Warn("store unavailable", logger.F("path", c.FullPath()), logger.F("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "service temporarily unavailable, retry the request",
			"code":      codeUnavailable,
			"retryable": true,
		})
		return
	}

	log.Error("request failed", logger.F("path", c.FullPath()), logger.F("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal Server Error",
		"code":  codeInternal,
	})
}

// bindJSON decodes the body into req. An empty body leaves req zero so the
// validation pipeline reports the missing parameters.
func bindJSON(c *gin.Context, req any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "request body is not valid JSON: " + err.Error(),
			"code":  codeInvalidRequest,
		})
		return false
	}
	return true
}
