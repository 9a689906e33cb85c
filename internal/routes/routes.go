package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rldguard/internal/authz"
	"rldguard/internal/handlers"
	"rldguard/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	policy *authz.Policy,
	dealHandler *handlers.DealHandler,
	slackHandler *handlers.SlackHandler, // может быть nil, если нет signing secret
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Slack interactive endpoint публикуем только если есть интеграция
	if slackHandler != nil {
		r.POST("/integrations/slack/actions", slackHandler.Actions)
	}

	// ---- protected
	deals := r.Group("/deals", middleware.AuthMiddleware(jwtSecret))
	{
		deals.GET("/:id", dealHandler.Get)
		deals.PATCH("/:id/properties", dealHandler.UpdateProperties)
		deals.GET("/:id/compliance", dealHandler.Compliance)
		deals.POST("/:id/reconcile", dealHandler.Reconcile)
		deals.POST("/:id/rld/suggested", dealHandler.ApplySuggested)
		deals.POST("/:id/rld", dealHandler.SetRLD)
		deals.POST("/:id/rld/override", dealHandler.SetRLDWithOverride)
		deals.POST("/:id/override/request", dealHandler.RequestOverride)
		deals.GET("/:id/report.pdf", dealHandler.Report)
		deals.GET("/:id/overrides", dealHandler.History)

		approvers := deals.Group("", middleware.RequireApprover(policy))
		{
			approvers.POST("/:id/override/approve", dealHandler.Approve)
			approvers.POST("/:id/override/deny", dealHandler.Deny)
		}
	}

	return r
}
