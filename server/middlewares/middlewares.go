package middlewares

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const accessTokenHeader = "X-Access-Token"

// AccessGate rejects requests that don't carry the shared secret in the
// access token header. With no secret configured the gate is open, which is
// the local development default.
func AccessGate() gin.HandlerFunc {
	secret := os.Getenv("ACCESS_GATE_SECRET")
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		if c.GetHeader(accessTokenHeader) != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		c.Next()
	}
}

// Cors allows cross-origin calls from the dashboard frontends.
func Cors() gin.HandlerFunc {
	return cors.Default()
}
