package stripe

import (
	"net/http"

	"github.com/dinkhousedev/dink-house-db/models"
	"github.com/dinkhousedev/dink-house-db/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReconcileContributions re-derives missing benefit allocations, court
// sponsorships and founders wall entries from completed contributions, then
// recomputes the running totals from the rows themselves. The webhook fan-out
// is best-effort across independent writes, so a delivery that half-failed
// can leave a completed contribution without its side effects; this sweep is
// idempotent and safe to re-run any number of times.
// @Summary Re-derive side effects of completed contributions
// @Description Sweeps all completed contributions, recreates any missing benefit allocations, court sponsor rows or founders wall entries, and recomputes campaign/tier/backer totals. Idempotent.
// @Tags crowdfunding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response "data: swept and failed counts"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /crowdfunding/reconcile [post]
func (h *Handler) ReconcileContributions(c *gin.Context) {
	var contributions []models.Contribution
	if err := h.db.Where("status = ?", models.ContributionCompleted).
		Order("completed_at asc").
		Find(&contributions).Error; err != nil {
		utils.LogError(err, "Error listing completed contributions for reconciliation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing contributions"})
		return
	}

	failed := 0
	for i := range contributions {
		if err := h.finalizeCompletion(&contributions[i]); err != nil {
			utils.LogError(err, "Reconciliation incomplete for contribution "+contributions[i].ID)
			failed++
		}
	}

	if err := h.refreshTotals(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error recomputing totals"})
		return
	}

	utils.SendSuccess(c, http.StatusOK, "Reconciliation finished", gin.H{
		"swept":  len(contributions),
		"failed": failed,
	})
}

// refreshTotals recomputes the campaign, tier and backer aggregates from the
// completed contribution rows. The webhook's incremental bumps are log-only
// on failure, so the sweep is the repair path for the totals too.
func (h *Handler) refreshTotals() error {
	db := h.db.Session(&gorm.Session{AllowGlobalUpdate: true})

	if err := db.Model(&models.Campaign{}).
		UpdateColumn("current_amount", gorm.Expr(
			"(SELECT COALESCE(SUM(amount), 0) FROM contributions WHERE contributions.campaign_id = campaigns.id AND contributions.status = ?)",
			models.ContributionCompleted)).Error; err != nil {
		utils.LogError(err, "Error recomputing campaign totals")
		return err
	}
	if err := db.Model(&models.ContributionTier{}).
		UpdateColumn("current_backers", gorm.Expr(
			"(SELECT COUNT(*) FROM contributions WHERE contributions.tier_id = contribution_tiers.id AND contributions.status = ?)",
			models.ContributionCompleted)).Error; err != nil {
		utils.LogError(err, "Error recomputing tier backer counts")
		return err
	}
	if err := db.Model(&models.Backer{}).
		UpdateColumn("total_contributed", gorm.Expr(
			"(SELECT COALESCE(SUM(amount), 0) FROM contributions WHERE contributions.backer_id = backers.id AND contributions.status = ?)",
			models.ContributionCompleted)).Error; err != nil {
		utils.LogError(err, "Error recomputing backer totals")
		return err
	}
	return nil
}
