package stripe

import (
	"errors"
	"math"
	"net/http"
	"os"
	"strings"

	"github.com/dinkhousedev/dink-house-db/models"
	"github.com/dinkhousedev/dink-house-db/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	Backer       models.BackerCreate       `json:"backer" binding:"required"`
	Contribution models.ContributionCreate `json:"contribution" binding:"required"`
}

// CreateCheckoutSession opens a Stripe Checkout session for a contribution.
// @Summary Create a Stripe Checkout session for a contribution
// @Description Validates the backer and contribution payload, creates the backer if needed, opens a Stripe Checkout session and records a pending contribution tied to it.
// @Tags crowdfunding
// @Accept json
// @Produce json
// @Param checkout body CheckoutRequest true "Backer and contribution information"
// @Success 200 {object} map[string]interface{} "data: sessionId and url of the Stripe Checkout session"
// @Failure 400 {object} map[string]interface{} "error: Invalid input or full tier"
// @Failure 404 {object} map[string]interface{} "error: Campaign or tier not found"
// @Failure 500 {object} map[string]interface{} "error: Stripe or server error"
// @Router /crowdfunding/checkout [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var input CheckoutRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if !utils.ValidateEmail(input.Backer.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	email := strings.ToLower(input.Backer.Email)

	var campaign models.Campaign
	if err := h.db.First(&campaign, "id = ? AND is_active = ?", input.Contribution.CampaignID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	var tier *models.ContributionTier
	if input.Contribution.TierID != "" {
		var found models.ContributionTier
		if err := h.db.First(&found, "id = ? AND campaign_id = ?", input.Contribution.TierID, campaign.ID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tier not found"})
			return
		}
		if found.IsFull() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This tier has no spots remaining"})
			return
		}
		tier = &found
	}

	// Backers are keyed by email and reused across contributions.
	var backer models.Backer
	err := h.db.First(&backer, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		backer = models.Backer{
			Email:       email,
			FirstName:   input.Backer.FirstName,
			LastInitial: strings.ToUpper(input.Backer.LastInitial),
			Phone:       input.Backer.Phone,
			City:        input.Backer.City,
			State:       strings.ToUpper(input.Backer.State),
		}
		err = h.db.Create(&backer).Error
	}
	if err != nil {
		utils.LogError(err, "Error resolving backer for checkout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resolving backer"})
		return
	}

	isPublic := true
	if input.Contribution.IsPublic != nil {
		isPublic = *input.Contribution.IsPublic
	}
	showAmount := true
	if input.Contribution.ShowAmount != nil {
		showAmount = *input.Contribution.ShowAmount
	}

	// The contribution id goes into the session metadata so the webhook can
	// resolve the row even before the session-id index is visible.
	contributionID := uuid.New().String()

	productName := campaign.Name
	if tier != nil {
		productName = campaign.Name + " - " + tier.Name
	}
	description := input.Contribution.CustomMessage
	if description == "" {
		description = "Crowdfunding contribution"
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	siteURL := os.Getenv("SITE_URL")

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(siteURL + "/crowdfunding/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(siteURL + "/crowdfunding?cancelled=true"),
		CustomerEmail:      stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(int64(math.Round(input.Contribution.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"contribution_id": contributionID,
			"backer_id":       backer.ID,
			"campaign_id":     campaign.ID,
			"tier_id":         input.Contribution.TierID,
		},
	}

	checkoutSession, err := session.New(params)
	if err != nil {
		utils.LogError(err, "Error creating Stripe checkout session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating Stripe checkout session"})
		return
	}

	contribution := models.Contribution{
		ID:                      contributionID,
		BackerID:                backer.ID,
		CampaignID:              campaign.ID,
		Amount:                  input.Contribution.Amount,
		Status:                  models.ContributionPending,
		StripeCheckoutSessionId: checkoutSession.ID,
		IsPublic:                isPublic,
		ShowAmount:              showAmount,
		CustomMessage:           input.Contribution.CustomMessage,
	}
	if tier != nil {
		contribution.TierID = &tier.ID
	}
	if err := h.db.Create(&contribution).Error; err != nil {
		utils.LogError(err, "Error creating pending contribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating contribution"})
		return
	}

	utils.SendSuccess(c, http.StatusOK, "Checkout session created", gin.H{
		"sessionId": checkoutSession.ID,
		"url":       checkoutSession.URL,
	})
}
