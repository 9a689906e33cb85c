package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rldguard/internal/authz"
	"rldguard/internal/models"
)

// RequireApprover lets through only actors the policy allows to decide overrides.
func RequireApprover(policy *authz.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Result{Error: "no actor in context"})
			return
		}
		if !policy.CanApprove(actor) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.Result{Error: "forbidden", DealID: c.Param("id")})
			return
		}
		c.Next()
	}
}
