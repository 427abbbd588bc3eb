package stripe

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dinkhousedev/dink-house-db/models"
	"github.com/dinkhousedev/dink-house-db/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultSponsorThreshold = 1000

// Handler holds the clients the payment flow needs. It is constructed once
// at route registration and shared read-only across webhook deliveries;
// correctness under concurrent deliveries relies on per-row update
// atomicity and uniqueness constraints, not on in-process locking.
type Handler struct {
	db               *gorm.DB
	webhookSecret    string
	sponsorThreshold float64
}

func NewHandler(database *gorm.DB) *Handler {
	threshold := float64(defaultSponsorThreshold)
	if raw := os.Getenv("COURT_SPONSOR_THRESHOLD"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			threshold = parsed
		}
	}

	return &Handler{
		db:               database,
		webhookSecret:    os.Getenv("STRIPE_WEBHOOK_SECRET"),
		sponsorThreshold: threshold,
	}
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not read the request body"})
		return
	}

	if h.webhookSecret == "" {
		utils.LogError(nil, "STRIPE_WEBHOOK_SECRET is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	// Signature before parsing: nothing is decoded or written for an
	// unverified payload.
	sig := c.GetHeader("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, h.webhookSecret)
	if err != nil {
		utils.LogError(err, "Stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutSessionCompleted(c, event)
	case "payment_intent.succeeded":
		h.handlePaymentIntentSucceeded(c, event)
	case "payment_intent.payment_failed":
		h.handlePaymentIntentFailed(c, event)
	case "charge.refunded":
		h.handleChargeRefunded(c, event)
	default:
		// Acknowledged so Stripe does not retry content we cannot handle.
		utils.LogEvent(event.ID, "Unhandled event type: "+string(event.Type))
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func (h *Handler) handleCheckoutSessionCompleted(c *gin.Context, event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing CheckoutSession"})
		return
	}
	if session.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CheckoutSession without id"})
		return
	}

	var contribution models.Contribution
	err := h.db.First(&contribution, "stripe_checkout_session_id = ?", session.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && session.Metadata["contribution_id"] != "" {
		err = h.db.First(&contribution, "id = ?", session.Metadata["contribution_id"]).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Row not visible yet; Stripe redelivery covers the lag.
		utils.LogEvent(event.ID, "No contribution for checkout session "+session.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err != nil {
		utils.LogEventError(event.ID, err, "Error finding contribution for checkout session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error finding contribution"})
		return
	}

	if contribution.Status == models.ContributionRefunded {
		utils.LogEvent(event.ID, "Contribution already refunded, completion ignored")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	updates := map[string]interface{}{
		"stripe_checkout_session_id": session.ID,
	}
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		updates["stripe_payment_intent_id"] = session.PaymentIntent.ID
	}
	if len(session.PaymentMethodTypes) > 0 {
		updates["payment_method"] = session.PaymentMethodTypes[0]
	} else if contribution.PaymentMethod == "" {
		updates["payment_method"] = "card"
	}

	if err := h.markCompleted(&contribution, updates); err != nil {
		utils.LogEventError(event.ID, err, "Error updating contribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating contribution"})
		return
	}

	if err := h.finalizeCompletion(&contribution); err != nil {
		// Some benefit or recognition rows are missing; a 500 makes Stripe
		// redeliver so the fan-out can re-derive them.
		utils.LogEventError(event.ID, err, "Completion fan-out incomplete")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error completing contribution side effects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) handlePaymentIntentSucceeded(c *gin.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing PaymentIntent"})
		return
	}
	if pi.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PaymentIntent without id"})
		return
	}

	var contribution models.Contribution
	err := h.db.First(&contribution, "stripe_payment_intent_id = ?", pi.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogEvent(event.ID, "No contribution for payment intent "+pi.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err != nil {
		utils.LogEventError(event.ID, err, "Error finding contribution for payment intent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error finding contribution"})
		return
	}

	if contribution.Status == models.ContributionRefunded {
		utils.LogEvent(event.ID, "Contribution already refunded, payment success ignored")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// A success after payment_intent.payment_failed is a valid recovery:
	// the row re-enters completed.
	updates := map[string]interface{}{}
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		updates["stripe_charge_id"] = pi.LatestCharge.ID
	}

	if err := h.markCompleted(&contribution, updates); err != nil {
		utils.LogEventError(event.ID, err, "Error updating contribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating contribution"})
		return
	}

	if err := h.finalizeCompletion(&contribution); err != nil {
		utils.LogEventError(event.ID, err, "Completion fan-out incomplete")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error completing contribution side effects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) handlePaymentIntentFailed(c *gin.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing PaymentIntent"})
		return
	}
	if pi.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PaymentIntent without id"})
		return
	}

	// Only pending rows fail: a stale failure event must not overwrite a
	// contribution that has since completed or been refunded.
	res := h.db.Model(&models.Contribution{}).
		Where("stripe_payment_intent_id = ? AND status = ?", pi.ID, models.ContributionPending).
		Update("status", models.ContributionFailed)
	if res.Error != nil {
		utils.LogEventError(event.ID, res.Error, "Error failing contribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating contribution"})
		return
	}
	if res.RowsAffected == 0 {
		utils.LogEvent(event.ID, "No pending contribution for failed payment intent "+pi.ID)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) handleChargeRefunded(c *gin.Context, event stripe.Event) {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Charge"})
		return
	}
	if charge.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Charge without id"})
		return
	}

	var contribution models.Contribution
	err := h.db.First(&contribution, "stripe_charge_id = ?", charge.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
		// charge.succeeded may not have landed before the refund
		err = h.db.First(&contribution, "stripe_payment_intent_id = ?", charge.PaymentIntent.ID).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogEvent(event.ID, "No contribution for refunded charge "+charge.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err != nil {
		utils.LogEventError(event.ID, err, "Error finding contribution for refund")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error finding contribution"})
		return
	}

	updates := map[string]interface{}{
		"status":           models.ContributionRefunded,
		"stripe_charge_id": charge.ID,
	}
	if contribution.RefundedAt == nil {
		updates["refunded_at"] = time.Now()
	}
	if err := h.db.Model(&contribution).Updates(updates).Error; err != nil {
		utils.LogEventError(event.ID, err, "Error updating contribution on refund")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating contribution"})
		return
	}

	// Two independent deactivation steps; both are attempted even if one
	// fails, and a failure forces redelivery of the whole event.
	var firstErr error
	if err := h.db.Model(&models.BenefitAllocation{}).
		Where("contribution_id = ?", contribution.ID).
		Update("is_active", false).Error; err != nil {
		utils.LogEventError(event.ID, err, "Error deactivating benefit allocations")
		firstErr = err
	}
	if err := h.db.Model(&models.CourtSponsor{}).
		Where("contribution_id = ?", contribution.ID).
		Update("is_active", false).Error; err != nil {
		utils.LogEventError(event.ID, err, "Error deactivating court sponsor")
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deactivating contribution side effects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// markCompleted claims the completed transition with a guarded update: only
// the delivery whose UPDATE matches a not-yet-completed row bumps the
// campaign/tier/backer running totals, so concurrent or redelivered events
// cannot double-count. The guard lives in the WHERE clause, not in a prior
// read, same as the payment_failed handler.
func (h *Handler) markCompleted(contribution *models.Contribution, updates map[string]interface{}) error {
	updates["status"] = models.ContributionCompleted
	if contribution.CompletedAt == nil {
		updates["completed_at"] = time.Now()
	}
	res := h.db.Model(&models.Contribution{}).
		Where("id = ? AND status NOT IN ?", contribution.ID,
			[]models.ContributionStatus{models.ContributionCompleted, models.ContributionRefunded}).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	contribution.Status = models.ContributionCompleted

	if res.RowsAffected == 0 {
		// another delivery already claimed the transition, it owns the bumps
		return nil
	}

	// Bump failures are logged only; the reconciliation sweep re-derives all
	// running totals from the contribution rows and repairs any lost bump.
	if err := h.db.Model(&models.Campaign{}).Where("id = ?", contribution.CampaignID).
		UpdateColumn("current_amount", gorm.Expr("current_amount + ?", contribution.Amount)).Error; err != nil {
		utils.LogError(err, "Error updating campaign total")
	}
	if contribution.TierID != nil {
		if err := h.db.Model(&models.ContributionTier{}).Where("id = ?", *contribution.TierID).
			UpdateColumn("current_backers", gorm.Expr("current_backers + 1")).Error; err != nil {
			utils.LogError(err, "Error updating tier backer count")
		}
	}
	if err := h.db.Model(&models.Backer{}).Where("id = ?", contribution.BackerID).
		UpdateColumn("total_contributed", gorm.Expr("total_contributed + ?", contribution.Amount)).Error; err != nil {
		utils.LogError(err, "Error updating backer total")
	}

	return nil
}

// finalizeCompletion fans out the side effects of a completed contribution:
// benefit allocations, court sponsorship, founders wall, thank-you email.
// Every step is idempotent and attempted regardless of sibling failures;
// the first error is returned so the caller can force a redelivery.
func (h *Handler) finalizeCompletion(contribution *models.Contribution) error {
	var backer models.Backer
	if err := h.db.First(&backer, "id = ?", contribution.BackerID).Error; err != nil {
		utils.LogError(err, "Error loading backer for completion fan-out")
		return err
	}

	var firstErr error
	var tier *models.ContributionTier
	if contribution.TierID != nil {
		var found models.ContributionTier
		if err := h.db.First(&found, "id = ?", *contribution.TierID).Error; err != nil {
			utils.LogError(err, "Error fetching tier for completion fan-out")
			firstErr = err
		} else {
			tier = &found
		}
	}

	if err := h.allocateBenefits(contribution, tier); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := h.ensureCourtSponsor(contribution, &backer); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := h.ensureFoundersWallEntry(contribution, &backer, tier); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := h.queueThankYouEmail(contribution, &backer); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// allocateBenefits grants one allocation per tier benefit descriptor. The
// descriptor list is read from the catalog at completion time, details are
// copied verbatim, and the (contribution, benefit type) pair is checked
// before insert so redelivered webhooks cannot double-grant.
func (h *Handler) allocateBenefits(contribution *models.Contribution, tier *models.ContributionTier) error {
	if tier == nil || len(tier.Benefits) == 0 {
		return nil
	}

	var descriptors []models.BenefitDescriptor
	if err := json.Unmarshal(tier.Benefits, &descriptors); err != nil {
		utils.LogError(err, "Error parsing tier benefits for tier "+tier.ID)
		return err
	}

	var firstErr error
	for _, descriptor := range descriptors {
		if descriptor.Type == "" {
			utils.LogError(nil, "Tier "+tier.ID+" has a benefit descriptor without type")
			continue
		}

		var existing models.BenefitAllocation
		err := h.db.First(&existing, "contribution_id = ? AND benefit_type = ?", contribution.ID, descriptor.Type).Error
		if err == nil {
			continue // already granted on a previous delivery
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogError(err, "Error checking existing benefit allocation")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		details := datatypes.JSON([]byte("{}"))
		if descriptor.Details != nil {
			if raw, marshalErr := json.Marshal(descriptor.Details); marshalErr == nil {
				details = datatypes.JSON(raw)
			}
		}

		allocation := models.BenefitAllocation{
			BackerID:          contribution.BackerID,
			ContributionID:    contribution.ID,
			BenefitType:       descriptor.Type,
			BenefitName:       descriptor.Name,
			BenefitDetails:    details,
			ExpiresAt:         descriptor.Expiry(),
			Quantity:          descriptor.DescriptorQuantity(),
			IsActive:          true,
			FulfillmentStatus: models.FulfillmentAllocated,
		}
		if err := h.db.Create(&allocation).Error; err != nil {
			if isDuplicateKey(err) {
				continue // a concurrent delivery won the race, benign
			}
			utils.LogError(err, "Error creating benefit allocation "+descriptor.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ensureCourtSponsor creates the recognition row for contributions at or
// above the sponsorship threshold, once per contribution.
func (h *Handler) ensureCourtSponsor(contribution *models.Contribution, backer *models.Backer) error {
	if contribution.Amount < h.sponsorThreshold {
		return nil
	}

	var existing models.CourtSponsor
	err := h.db.First(&existing, "contribution_id = ?", contribution.ID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError(err, "Error checking existing court sponsor")
		return err
	}

	now := time.Now()
	sponsor := models.CourtSponsor{
		BackerID:         contribution.BackerID,
		ContributionID:   contribution.ID,
		SponsorName:      backer.DisplayName(),
		SponsorType:      "individual",
		SponsorshipStart: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		IsActive:         true,
	}
	if err := h.db.Create(&sponsor).Error; err != nil {
		if isDuplicateKey(err) {
			return nil
		}
		utils.LogError(err, "Error creating court sponsor")
		return err
	}

	utils.LogSuccess("Court sponsor created for contribution " + contribution.ID)
	return nil
}

// ensureFoundersWallEntry upserts the backer's public wall entry. Private
// contributions never touch the wall.
func (h *Handler) ensureFoundersWallEntry(contribution *models.Contribution, backer *models.Backer, tier *models.ContributionTier) error {
	if !contribution.IsPublic {
		return nil
	}

	location := backer.City
	if backer.State != "" {
		if location != "" {
			location += ", "
		}
		location += backer.State
	}

	var entry models.FoundersWallEntry
	err := h.db.First(&entry, "backer_id = ?", contribution.BackerID).Error
	if err == nil {
		updates := map[string]interface{}{
			"total_contributed": backer.TotalContributed,
		}
		if tier != nil {
			updates["contribution_tier"] = tier.Name
		}
		if err := h.db.Model(&entry).Updates(updates).Error; err != nil {
			utils.LogError(err, "Error updating founders wall entry")
			return err
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError(err, "Error checking founders wall entry")
		return err
	}

	entry = models.FoundersWallEntry{
		BackerID:         contribution.BackerID,
		DisplayName:      backer.DisplayName(),
		Location:         location,
		TotalContributed: backer.TotalContributed,
	}
	if tier != nil {
		entry.ContributionTier = tier.Name
	}
	if err := h.db.Create(&entry).Error; err != nil {
		if isDuplicateKey(err) {
			return nil
		}
		utils.LogError(err, "Error creating founders wall entry")
		return err
	}
	return nil
}

// queueThankYouEmail records the pending thank-you email once per
// contribution; delivery itself happens in the contribution-emails handlers.
func (h *Handler) queueThankYouEmail(contribution *models.Contribution, backer *models.Backer) error {
	var existing models.EmailLog
	err := h.db.First(&existing, "contribution_id = ? AND template_key = ?", contribution.ID, models.EmailTemplateThankYou).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError(err, "Error checking email log")
		return err
	}

	entry := models.EmailLog{
		ToEmail:        backer.Email,
		TemplateKey:    models.EmailTemplateThankYou,
		Status:         models.EmailPending,
		ContributionID: &contribution.ID,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		utils.LogError(err, "Error queueing thank-you email")
		return err
	}
	return nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key")
}
