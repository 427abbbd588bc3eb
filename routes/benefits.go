package routes

import (
	"github.com/dinkhousedev/dink-house-db/handlers/benefits"
	"github.com/dinkhousedev/dink-house-db/middleware"

	"github.com/gin-gonic/gin"
)

func BenefitsRoutes(r *gin.Engine) {
	staff := r.Group("/")
	staff.Use(middleware.JWTAuth())
	{
		staff.GET("/backers/:id/benefits", benefits.GetBackerBenefits)
		staff.POST("/benefits/redeem", benefits.RedeemBenefit)
		staff.GET("/benefits/:id/usage-history", benefits.GetUsageHistory)
		staff.PATCH("/benefits/:id/fulfill", benefits.FulfillBenefit)
		staff.PATCH("/benefits/:id/status", benefits.UpdateBenefitStatus)
		staff.GET("/benefits/pending", benefits.GetPendingBenefits)
		staff.GET("/benefits/summary", benefits.GetBenefitSummary)
	}
}
