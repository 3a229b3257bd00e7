package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RequestLogger logs one structured line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Start time of the request
		c.Next()            // Run the rest of the chain
		entry := logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,           // HTTP method
			"path":      c.Request.URL.Path,         // Request path
			"status":    c.Writer.Status(),          // Response status
			"latency":   time.Since(start).String(), // Time spent
			"client_ip": c.ClientIP(),               // Caller address
		})
		// Server errors at error level, everything else at info
		if c.Writer.Status() >= 500 {
			entry.Error("Request failed")
			return
		}
		entry.Info("Request served")
	}
}
