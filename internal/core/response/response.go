// Package response holds the error envelope shared by the HTTP handlers.
package response

import (
	"net/http"

	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error aborts the request with {"error": message, "details": err}. The
// status comes from the error type; server side failures are logged.
func Error(c *gin.Context, logger *zap.Logger, message string, err error) {
	status := custom_error.HTTPStatus(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error(message,
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message, "details": err.Error()})
}

// Month parses the :month path parameter, answering 400 when it is not YYYY-MM.
func Month(c *gin.Context) (metadata.Month, bool) {
	month, err := metadata.ParseMonth(c.Param("month"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid month", "details": err.Error()})
		return metadata.Month{}, false
	}
	return month, true
}
