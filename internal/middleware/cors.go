package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS lets the POS counter frontend and the public price-check page call
// the API from another origin. The deployment sits behind the pharmacy's
// reverse proxy, so the allowed origin stays permissive here.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
