package mobile

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sudo-init-do/khadamni/internal/nav"
)

const shellKey = "shell"

// requireShell resolves the bearer token to a live shell.
func requireShell(signer *Signer, reg *nav.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		id, err := signer.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		sh, ok := reg.Get(id)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set(shellKey, sh)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func shell(c *gin.Context) *nav.Shell {
	return c.MustGet(shellKey).(*nav.Shell)
}
