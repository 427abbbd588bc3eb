package crowdfunding

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dinkhousedev/dink-house-db/db"
	"github.com/dinkhousedev/dink-house-db/models"
	"github.com/dinkhousedev/dink-house-db/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CampaignWithProgress struct {
	models.Campaign
	Percentage int `json:"percentage"`
}

type TierWithAvailability struct {
	models.ContributionTier
	SpotsRemaining *int `json:"spotsRemaining"`
}

// @Summary List active campaigns
// @Description Returns all active campaigns with their funding progress
// @Tags crowdfunding
// @Produce json
// @Success 200 {object} utils.Response "data: campaigns with percentage"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /crowdfunding/campaigns [get]
func GetCampaigns(c *gin.Context) {
	var campaigns []models.Campaign
	if err := db.DB.Where("is_active = ?", true).Order("display_order").Find(&campaigns).Error; err != nil {
		utils.LogError(err, "Error fetching campaigns")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch campaigns")
		return
	}

	result := make([]CampaignWithProgress, 0, len(campaigns))
	for _, campaign := range campaigns {
		result = append(result, CampaignWithProgress{
			Campaign:   campaign,
			Percentage: campaign.Percentage(),
		})
	}

	utils.SendSuccess(c, http.StatusOK, "", result)
}

// @Summary Campaign details with available tiers
// @Description Returns one active campaign with its non-full tiers and remaining spots
// @Tags crowdfunding
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} utils.Response "data: campaign and tiers"
// @Failure 404 {object} utils.Response "error: Campaign not found"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /crowdfunding/campaigns/{id} [get]
func GetCampaign(c *gin.Context) {
	id := c.Param("id")

	var campaign models.Campaign
	err := db.DB.First(&campaign, "id = ? AND is_active = ?", id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendError(c, http.StatusNotFound, "Campaign not found")
		return
	}
	if err != nil {
		utils.LogError(err, "Error fetching campaign")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch campaign details")
		return
	}

	var tiers []models.ContributionTier
	if err := db.DB.Where("campaign_id = ? AND is_active = ?", campaign.ID, true).
		Order("display_order").
		Find(&tiers).Error; err != nil {
		utils.LogError(err, "Error fetching campaign tiers")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch campaign details")
		return
	}

	// Full tiers are hidden rather than shown as sold out
	available := make([]TierWithAvailability, 0, len(tiers))
	for _, tier := range tiers {
		if tier.IsFull() {
			continue
		}
		available = append(available, TierWithAvailability{
			ContributionTier: tier,
			SpotsRemaining:   tier.SpotsRemaining(),
		})
	}

	utils.SendSuccess(c, http.StatusOK, "", gin.H{
		"campaign": CampaignWithProgress{Campaign: campaign, Percentage: campaign.Percentage()},
		"tiers":    available,
	})
}

// @Summary Public founders wall
// @Description Returns the founders wall entries ordered by total contributed
// @Tags crowdfunding
// @Produce json
// @Success 200 {object} utils.Response "data: founders wall entries"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /crowdfunding/founders-wall [get]
func GetFoundersWall(c *gin.Context) {
	var founders []models.FoundersWallEntry
	if err := db.DB.Order("total_contributed desc").Order("display_order").Find(&founders).Error; err != nil {
		utils.LogError(err, "Error fetching founders wall")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch founders wall")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "", founders)
}

// @Summary Active court sponsors
// @Description Returns the active court sponsors ordered for display
// @Tags crowdfunding
// @Produce json
// @Success 200 {object} utils.Response "data: court sponsors"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /crowdfunding/court-sponsors [get]
func GetCourtSponsors(c *gin.Context) {
	var sponsors []models.CourtSponsor
	if err := db.DB.Where("is_active = ?", true).Order("display_order").Find(&sponsors).Error; err != nil {
		utils.LogError(err, "Error fetching court sponsors")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch court sponsors")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "", sponsors)
}

// @Summary Search a backer by email
// @Description Returns the backer matching the email, or null when unknown
// @Tags crowdfunding
// @Produce json
// @Param email query string true "Backer email"
// @Success 200 {object} utils.Response "data: backer or null"
// @Failure 400 {object} utils.Response "error: Email parameter is required"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /crowdfunding/backers/search [get]
func SearchBacker(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.SendError(c, http.StatusBadRequest, "Email parameter is required")
		return
	}

	var backer models.Backer
	err := db.DB.First(&backer, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendSuccess(c, http.StatusOK, "", nil)
		return
	}
	if err != nil {
		utils.LogError(err, "Error searching for backer")
		utils.SendError(c, http.StatusInternalServerError, "Failed to search for backer")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "", backer)
}

// @Summary Contribution details by checkout session
// @Description Returns the contribution tied to a Stripe checkout session, for the success page
// @Tags crowdfunding
// @Produce json
// @Param sessionId path string true "Stripe checkout session ID"
// @Success 200 {object} utils.Response "data: contribution with backer, campaign and tier"
// @Failure 404 {object} utils.Response "error: Contribution not found"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /crowdfunding/contributions/session/{sessionId} [get]
func GetContributionBySession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var contribution models.Contribution
	err := db.DB.First(&contribution, "stripe_checkout_session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendError(c, http.StatusNotFound, "Contribution not found")
		return
	}
	if err != nil {
		utils.LogError(err, "Error fetching contribution")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch contribution details")
		return
	}

	response := gin.H{"contribution": contribution}

	var backer models.Backer
	if err := db.DB.First(&backer, "id = ?", contribution.BackerID).Error; err == nil {
		response["backer"] = gin.H{
			"firstName":   backer.FirstName,
			"lastInitial": backer.LastInitial,
		}
	}
	var campaign models.Campaign
	if err := db.DB.First(&campaign, "id = ?", contribution.CampaignID).Error; err == nil {
		response["campaign"] = gin.H{"name": campaign.Name, "slug": campaign.Slug}
	}
	if contribution.TierID != nil {
		var tier models.ContributionTier
		if err := db.DB.First(&tier, "id = ?", *contribution.TierID).Error; err == nil {
			response["tier"] = gin.H{"name": tier.Name}
		}
	}

	utils.SendSuccess(c, http.StatusOK, "", response)
}
