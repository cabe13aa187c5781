// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/utils"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope. The panic
// is logged with the request id so it can be matched to the audit trail.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		fields := []zap.Field{
			zap.Any("panic", recovered),
			zap.String("request_id", utils.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Stack("stacktrace"),
		}
		if printer := c.Param("name"); printer != "" {
			fields = append(fields, zap.String("printer", printer))
		}
		logger.Error("Panic recovered", fields...)

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
	})
}
