package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SchedulerAuthMiddleware guards the periodic-job endpoints with a shared
// token carried in the X-Scheduler-Token header. An empty configured token
// disables the endpoints entirely.
func SchedulerAuthMiddleware(schedulerToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		if schedulerToken == "" {
			logger.Warn("Scheduler endpoint called but SCHEDULER_TOKEN is not configured")
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		provided := c.GetHeader("X-Scheduler-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(schedulerToken)) != 1 {
			logger.Warn("Scheduler token mismatch")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid scheduler token"})
			return
		}

		c.Next()
	}
}
