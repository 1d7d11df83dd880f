package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is the request ID header honored on the way in and set on the way
// out.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware tags every request with an ID. An inbound X-Request-ID is kept
// so IDs stay stable across the frontend proxy; otherwise a fresh UUID is
// assigned.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value returns the current request's ID, or "" outside the middleware.
func Value(c *gin.Context) string {
	id, _ := c.Value(contextKey).(string)
	return id
}
