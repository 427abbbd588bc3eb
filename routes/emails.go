package routes

import (
	"github.com/dinkhousedev/dink-house-db/handlers/emails"
	"github.com/dinkhousedev/dink-house-db/middleware"

	"github.com/gin-gonic/gin"
)

func EmailRoutes(r *gin.Engine) {
	staff := r.Group("/contribution-emails")
	staff.Use(middleware.JWTAuth())
	{
		staff.POST("/send-thank-you", emails.SendThankYou)
		staff.POST("/send-refund-notice", emails.SendRefundNotice)
		staff.POST("/process-pending", emails.ProcessPending)
	}
}
