package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request with the request id and the acting user.
// Handler errors attached through c.Error are appended for 4xx/5xx responses.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		actor := GetActor(c)
		if actor == "" {
			actor = "-"
		}
		line := "[HTTP] request_id=%s method=%s path=%s status=%d latency_ms=%.3f bytes=%d actor=%s ip=%s"
		args := []any{
			GetRequestID(c),
			c.Request.Method,
			path,
			status,
			float64(time.Since(start).Microseconds()) / 1000.0,
			max(c.Writer.Size(), 0),
			actor,
			c.ClientIP(),
		}
		if status >= 400 && len(c.Errors) > 0 {
			line += " errors=%q"
			args = append(args, c.Errors.String())
		}
		log.Printf(line, args...)
	}
}
