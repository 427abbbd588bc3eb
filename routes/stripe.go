package routes

import (
	"github.com/dinkhousedev/dink-house-db/db"
	"github.com/dinkhousedev/dink-house-db/handlers/stripe"
	"github.com/dinkhousedev/dink-house-db/middleware"

	"github.com/gin-gonic/gin"
)

func StripeRoutes(r *gin.Engine) {
	h := stripe.NewHandler(db.DB)

	r.POST("/stripe/webhook", h.HandleWebhook)
	r.POST("/crowdfunding/checkout", h.CreateCheckoutSession)

	admin := r.Group("/crowdfunding")
	admin.Use(middleware.AdminAuth())
	{
		admin.POST("/reconcile", h.ReconcileContributions)
	}
}
