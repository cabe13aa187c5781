// internal/middleware/logging_middleware.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/utils"
)

// probePaths are polled by orchestrators and only logged when they fail
var probePaths = map[string]bool{
	"/health": true,
	"/live":   true,
	"/ready":  true,
}

// LoggingMiddleware logs every request once it has been served, with the
// request id and the printer it addressed
func LoggingMiddleware(logger *utils.ServiceLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if probePaths[path] && status < http.StatusInternalServerError {
			return
		}

		fields := []zap.Field{zap.String("request_id", utils.GetRequestID(c))}
		if printer := c.Param("name"); printer != "" {
			fields = append(fields, zap.String("printer", printer))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		logger.LogAPIRequest(
			c.Request.Method,
			path,
			c.Request.UserAgent(),
			c.ClientIP(),
			status,
			time.Since(startTime),
			fields...,
		)
	}
}
