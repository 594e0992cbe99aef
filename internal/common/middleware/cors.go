package middleware

import (
	"github.com/gin-gonic/gin"
)

// EntryHeaders sets the fixed CORS and content headers on every response
// of the entry endpoint, with or without an Origin header on the request.
func EntryHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Content-Type", "application/json")
		c.Next()
	}
}
