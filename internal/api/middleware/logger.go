package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RunIDHeader carries the id assigned to each request.
	RunIDHeader = "X-Run-ID"
	runIDKey    = "run_id"
)

// Logger assigns a run id to each request and logs it once served.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Set(runIDKey, id)
		c.Header(RunIDHeader, id)

		c.Next()

		logger.Info("request",
			zap.String("run_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// RunID returns the id Logger assigned, or a fresh one when it did not run.
func RunID(c *gin.Context) string {
	if v, ok := c.Get(runIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return uuid.NewString()
}
