package emails

import (
	"errors"
	"net/http"
	"time"

	"github.com/dinkhousedev/dink-house-db/db"
	"github.com/dinkhousedev/dink-house-db/models"
	"github.com/dinkhousedev/dink-house-db/utils"
	mailsmodels "github.com/dinkhousedev/dink-house-db/utils/mails-models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SendRequest struct {
	ContributionID string `json:"contributionId" binding:"required,uuid"`
}

// @Summary Send the contribution thank-you email
// @Description Sends (or resends) the thank-you email for a completed contribution and records the outcome in the email log
// @Tags emails
// @Accept json
// @Produce json
// @Param request body SendRequest true "Contribution ID"
// @Security BearerAuth
// @Success 200 {object} utils.Response "message: Email sent"
// @Failure 400 {object} utils.Response "error: Contribution is not completed"
// @Failure 404 {object} utils.Response "error: Contribution not found"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /contribution-emails/send-thank-you [post]
func SendThankYou(c *gin.Context) {
	var input SendRequest
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	contribution, backer, status := loadContribution(c, input.ContributionID)
	if status != http.StatusOK {
		return
	}
	if contribution.Status != models.ContributionCompleted {
		utils.SendError(c, http.StatusBadRequest, "Contribution is not completed")
		return
	}

	entry := findOrCreateLog(contribution, backer, models.EmailTemplateThankYou)

	data := mailsmodels.ContributionEmailData{
		FirstName:   backer.FirstName,
		LastInitial: backer.LastInitial,
		Email:       backer.Email,
		Amount:      contribution.Amount,
	}
	var campaign models.Campaign
	if err := db.DB.First(&campaign, "id = ?", contribution.CampaignID).Error; err == nil {
		data.CampaignName = campaign.Name
	}
	if contribution.TierID != nil {
		var tier models.ContributionTier
		if err := db.DB.First(&tier, "id = ?", *contribution.TierID).Error; err == nil {
			data.TierName = tier.Name
		}
	}
	var sponsor models.CourtSponsor
	if err := db.DB.First(&sponsor, "contribution_id = ?", contribution.ID).Error; err == nil {
		data.IsSponsor = sponsor.IsActive
	}

	if err := mailsmodels.ContributionThankYou(data); err != nil {
		markLog(entry, models.EmailFailed, err.Error())
		utils.SendError(c, http.StatusInternalServerError, "Failed to send email")
		return
	}
	markLog(entry, models.EmailSent, "")

	utils.SendSuccess(c, http.StatusOK, "Contribution thank you email sent successfully", gin.H{
		"recipient": backer.Email,
	})
}

// @Summary Send the contribution refund notice
// @Description Sends the refund confirmation email for a refunded contribution
// @Tags emails
// @Accept json
// @Produce json
// @Param request body SendRequest true "Contribution ID"
// @Security BearerAuth
// @Success 200 {object} utils.Response "message: Email sent"
// @Failure 400 {object} utils.Response "error: Contribution is not refunded"
// @Failure 404 {object} utils.Response "error: Contribution not found"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /contribution-emails/send-refund-notice [post]
func SendRefundNotice(c *gin.Context) {
	var input SendRequest
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	contribution, backer, status := loadContribution(c, input.ContributionID)
	if status != http.StatusOK {
		return
	}
	if contribution.Status != models.ContributionRefunded {
		utils.SendError(c, http.StatusBadRequest, "Contribution is not refunded")
		return
	}

	entry := findOrCreateLog(contribution, backer, models.EmailTemplateRefundNotice)

	data := mailsmodels.RefundEmailData{
		FirstName:   backer.FirstName,
		LastInitial: backer.LastInitial,
		Email:       backer.Email,
		Amount:      contribution.Amount,
	}
	var campaign models.Campaign
	if err := db.DB.First(&campaign, "id = ?", contribution.CampaignID).Error; err == nil {
		data.CampaignName = campaign.Name
	}

	if err := mailsmodels.RefundNotice(data); err != nil {
		markLog(entry, models.EmailFailed, err.Error())
		utils.SendError(c, http.StatusInternalServerError, "Failed to send email")
		return
	}
	markLog(entry, models.EmailSent, "")

	utils.SendSuccess(c, http.StatusOK, "Refund notice sent successfully", gin.H{
		"recipient": backer.Email,
	})
}

// @Summary Process pending contribution emails
// @Description Sends up to 50 queued thank-you emails, typically invoked by a scheduled job
// @Tags emails
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response "data: processed and failed counts"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /contribution-emails/process-pending [post]
func ProcessPending(c *gin.Context) {
	var pending []models.EmailLog
	if err := db.DB.Where("template_key = ? AND status = ?", models.EmailTemplateThankYou, models.EmailPending).
		Order("created_at asc").
		Limit(50).
		Find(&pending).Error; err != nil {
		utils.LogError(err, "Error fetching pending emails")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch pending emails")
		return
	}

	processed := 0
	failed := 0
	for i := range pending {
		entry := &pending[i]
		if entry.ContributionID == nil {
			markLog(entry, models.EmailFailed, "email log without contribution")
			failed++
			continue
		}

		var contribution models.Contribution
		if err := db.DB.First(&contribution, "id = ?", *entry.ContributionID).Error; err != nil {
			markLog(entry, models.EmailFailed, "contribution not found")
			failed++
			continue
		}
		var backer models.Backer
		if err := db.DB.First(&backer, "id = ?", contribution.BackerID).Error; err != nil {
			markLog(entry, models.EmailFailed, "backer not found")
			failed++
			continue
		}

		data := mailsmodels.ContributionEmailData{
			FirstName:   backer.FirstName,
			LastInitial: backer.LastInitial,
			Email:       backer.Email,
			Amount:      contribution.Amount,
		}
		var campaign models.Campaign
		if err := db.DB.First(&campaign, "id = ?", contribution.CampaignID).Error; err == nil {
			data.CampaignName = campaign.Name
		}

		if err := mailsmodels.ContributionThankYou(data); err != nil {
			markLog(entry, models.EmailFailed, err.Error())
			failed++
			continue
		}
		markLog(entry, models.EmailSent, "")
		processed++
	}

	utils.SendSuccess(c, http.StatusOK, "Pending emails processed", gin.H{
		"processed": processed,
		"failed":    failed,
	})
}

// loadContribution resolves the contribution and its backer, writing the
// error response itself when something is missing.
func loadContribution(c *gin.Context, id string) (*models.Contribution, *models.Backer, int) {
	var contribution models.Contribution
	err := db.DB.First(&contribution, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendError(c, http.StatusNotFound, "Contribution not found")
		return nil, nil, http.StatusNotFound
	}
	if err != nil {
		utils.LogError(err, "Error fetching contribution for email")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch contribution")
		return nil, nil, http.StatusInternalServerError
	}

	var backer models.Backer
	if err := db.DB.First(&backer, "id = ?", contribution.BackerID).Error; err != nil {
		utils.LogError(err, "Error fetching backer for email")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch backer")
		return nil, nil, http.StatusInternalServerError
	}

	return &contribution, &backer, http.StatusOK
}

func findOrCreateLog(contribution *models.Contribution, backer *models.Backer, templateKey string) *models.EmailLog {
	var entry models.EmailLog
	err := db.DB.First(&entry, "contribution_id = ? AND template_key = ?", contribution.ID, templateKey).Error
	if err == nil {
		return &entry
	}

	entry = models.EmailLog{
		ToEmail:        backer.Email,
		TemplateKey:    templateKey,
		Status:         models.EmailPending,
		ContributionID: &contribution.ID,
	}
	if err := db.DB.Create(&entry).Error; err != nil {
		utils.LogError(err, "Error creating email log")
	}
	return &entry
}

func markLog(entry *models.EmailLog, status models.EmailStatus, errorMessage string) {
	if entry.ID == "" {
		return
	}
	updates := map[string]interface{}{
		"status":        status,
		"error_message": errorMessage,
	}
	if status == models.EmailSent {
		updates["sent_at"] = time.Now()
	}
	if err := db.DB.Model(entry).Updates(updates).Error; err != nil {
		utils.LogError(err, "Error updating email log")
	}
}
