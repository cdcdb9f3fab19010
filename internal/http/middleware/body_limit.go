// README: Caps request body size for the JSON API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultBodyLimit fits any fare or invoice form many times over.
const DefaultBodyLimit = 64 << 10

// BodyLimit makes reads past n bytes fail, so the JSON binder returns an
// error instead of buffering an unbounded body.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
