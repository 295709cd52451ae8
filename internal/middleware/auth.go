package middleware

import (
	"net/http"
	"strings"

	"github.com/Jambo-goods/bgsbusiness-sub002/config"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/auth"

	"github.com/gin-gonic/gin"
)

// OperatorRequired validates the back-office JWT and sets operator identity
// in the context. The reconciliation webhooks themselves are unauthenticated;
// only the admin repair endpoints sit behind this.
func OperatorRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("operator_id", claims.OperatorID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}
