package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/csec08/authlab/core"
	"github.com/csec08/authlab/service"
)

// contextClaimsKey is where the middleware stores validated session claims.
const contextClaimsKey = "sessionClaims"

// AuthMiddleware validates bearer session tokens and rejects requests with
// the same {error, category, message} triple as every other failure.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			fault := core.NewFault(core.KindInvalidToken)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    fault.Kind,
				"category": fault.Category,
				"message":  fault.Message,
			})
			return
		}

		claims, err := authService.ValidateSession(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			fault, ok := core.AsFault(err)
			if !ok {
				fault = core.NewFault(core.KindInvalidToken)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    fault.Kind,
				"category": fault.Category,
				"message":  fault.Message,
			})
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}
