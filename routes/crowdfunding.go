package routes

import (
	"github.com/dinkhousedev/dink-house-db/handlers/crowdfunding"

	"github.com/gin-gonic/gin"
)

func CrowdfundingRoutes(r *gin.Engine) {
	public := r.Group("/crowdfunding")
	{
		public.GET("/campaigns", crowdfunding.GetCampaigns)
		public.GET("/campaigns/:id", crowdfunding.GetCampaign)
		public.GET("/founders-wall", crowdfunding.GetFoundersWall)
		public.GET("/court-sponsors", crowdfunding.GetCourtSponsors)
		public.GET("/backers/search", crowdfunding.SearchBacker)
		public.GET("/contributions/session/:sessionId", crowdfunding.GetContributionBySession)
	}
}
