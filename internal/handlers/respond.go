package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisab-app/hisab/internal/errs"
)

// respondError maps a service error onto an HTTP status and JSON body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindPermission:
		status = http.StatusForbidden
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindDuplicate:
		status = http.StatusConflict
	case errs.KindConsistency:
		status = http.StatusInternalServerError
	case errs.KindTransientIO:
		status = http.StatusServiceUnavailable
	}

	if status >= 500 {
		slog.Error("Request error", "path", c.FullPath(), "error", err)
		// Do not leak internals to the client.
		c.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
