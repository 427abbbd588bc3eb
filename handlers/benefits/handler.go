package benefits

import (
	"errors"
	"net/http"
	"time"

	"github.com/dinkhousedev/dink-house-db/db"
	"github.com/dinkhousedev/dink-house-db/models"
	"github.com/dinkhousedev/dink-house-db/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RedeemRequest struct {
	AllocationID  string `json:"allocationId" binding:"required,uuid"`
	BackerID      string `json:"backerId" binding:"required,uuid"`
	QuantityUsed  int    `json:"quantityUsed"`
	UsedFor       string `json:"usedFor"`
	Notes         string `json:"notes"`
	StaffID       string `json:"staffId"`
	StaffVerified bool   `json:"staffVerified"`
}

type StatusUpdateRequest struct {
	Status  string `json:"status" binding:"required"`
	StaffID string `json:"staffId"`
	Notes   string `json:"notes"`
}

// @Summary Benefits of a backer
// @Description Returns the active benefit allocations of a backer
// @Tags benefits
// @Produce json
// @Param id path string true "Backer ID"
// @Security BearerAuth
// @Success 200 {object} utils.Response "data: benefit allocations"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /backers/{id}/benefits [get]
func GetBackerBenefits(c *gin.Context) {
	id := c.Param("id")

	var allocations []models.BenefitAllocation
	if err := db.DB.Where("backer_id = ? AND is_active = ?", id, true).Find(&allocations).Error; err != nil {
		utils.LogError(err, "Error fetching backer benefits")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch backer benefits")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "", allocations)
}

// @Summary Redeem a benefit
// @Description Logs a benefit usage after checking quantity and expiry
// @Tags benefits
// @Accept json
// @Produce json
// @Param redemption body RedeemRequest true "Redemption details"
// @Security BearerAuth
// @Success 200 {object} utils.Response "data: usage log and updated allocation"
// @Failure 400 {object} utils.Response "error: Insufficient quantity or expired benefit"
// @Failure 404 {object} utils.Response "error: Benefit allocation not found"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /benefits/redeem [post]
func RedeemBenefit(c *gin.Context) {
	var input RedeemRequest
	if !utils.ValidateRequestBody(c, &input) {
		return
	}
	if input.QuantityUsed <= 0 {
		input.QuantityUsed = 1
	}

	var allocation models.BenefitAllocation
	err := db.DB.First(&allocation, "id = ?", input.AllocationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendError(c, http.StatusNotFound, "Benefit allocation not found")
		return
	}
	if err != nil {
		utils.LogError(err, "Error fetching benefit allocation")
		utils.SendError(c, http.StatusInternalServerError, "Failed to redeem benefit")
		return
	}

	if !allocation.IsActive {
		utils.SendError(c, http.StatusBadRequest, "This benefit is no longer active")
		return
	}
	if allocation.IsExpired() {
		utils.SendError(c, http.StatusBadRequest, "This benefit has expired")
		return
	}
	if remaining := allocation.Remaining(); remaining != nil && *remaining < input.QuantityUsed {
		utils.SendError(c, http.StatusBadRequest, "Insufficient quantity remaining")
		return
	}

	usage := models.BenefitUsage{
		AllocationID:  allocation.ID,
		BackerID:      input.BackerID,
		QuantityUsed:  input.QuantityUsed,
		UsedFor:       input.UsedFor,
		Notes:         input.Notes,
		StaffID:       input.StaffID,
		StaffVerified: input.StaffVerified,
		UsageTime:     time.Now(),
	}
	if err := db.DB.Create(&usage).Error; err != nil {
		utils.LogError(err, "Error logging benefit usage")
		utils.SendError(c, http.StatusInternalServerError, "Failed to redeem benefit")
		return
	}

	if err := db.DB.Model(&allocation).
		UpdateColumn("quantity_used", gorm.Expr("quantity_used + ?", input.QuantityUsed)).Error; err != nil {
		utils.LogError(err, "Error updating allocation quantity")
		utils.SendError(c, http.StatusInternalServerError, "Failed to redeem benefit")
		return
	}
	allocation.QuantityUsed += input.QuantityUsed

	utils.SendSuccess(c, http.StatusOK, "Benefit redeemed successfully", gin.H{
		"usageLog":          usage,
		"updatedAllocation": allocation,
	})
}

// @Summary Usage history of a benefit allocation
// @Tags benefits
// @Produce json
// @Param id path string true "Allocation ID"
// @Security BearerAuth
// @Success 200 {object} utils.Response "data: usage entries"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /benefits/{id}/usage-history [get]
func GetUsageHistory(c *gin.Context) {
	id := c.Param("id")

	var history []models.BenefitUsage
	if err := db.DB.Where("allocation_id = ?", id).Order("usage_time desc").Find(&history).Error; err != nil {
		utils.LogError(err, "Error fetching usage history")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch usage history")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "", history)
}

// @Summary Mark a benefit as fulfilled
// @Tags benefits
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param fulfillment body StatusUpdateRequest true "Staff and notes"
// @Security BearerAuth
// @Success 200 {object} utils.Response "message: Benefit marked as fulfilled"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /benefits/{id}/fulfill [patch]
func FulfillBenefit(c *gin.Context) {
	id := c.Param("id")

	// Status is implied here, only staff and notes are read from the body
	var input struct {
		StaffID string `json:"staffId"`
		Notes   string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&input)

	res := db.DB.Model(&models.BenefitAllocation{}).Where("id = ?", id).Updates(map[string]interface{}{
		"fulfillment_status": models.FulfillmentFulfilled,
		"fulfilled_by":       input.StaffID,
		"fulfilled_at":       time.Now(),
		"fulfillment_notes":  input.Notes,
	})
	if res.Error != nil {
		utils.LogError(res.Error, "Error fulfilling benefit")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fulfill benefit")
		return
	}
	if res.RowsAffected == 0 {
		utils.SendError(c, http.StatusNotFound, "Benefit allocation not found")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "Benefit marked as fulfilled", nil)
}

// @Summary Update the fulfillment status of a benefit
// @Tags benefits
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param status body StatusUpdateRequest true "New status"
// @Security BearerAuth
// @Success 200 {object} utils.Response "message: Benefit status updated"
// @Failure 400 {object} utils.Response "error: Invalid status"
// @Failure 404 {object} utils.Response "error: Benefit allocation not found"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /benefits/{id}/status [patch]
func UpdateBenefitStatus(c *gin.Context) {
	id := c.Param("id")

	var input StatusUpdateRequest
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	status := models.FulfillmentStatus(input.Status)
	switch status {
	case models.FulfillmentAllocated, models.FulfillmentInProgress, models.FulfillmentFulfilled,
		models.FulfillmentExpired, models.FulfillmentCancelled:
	default:
		utils.SendError(c, http.StatusBadRequest, "Invalid status: "+input.Status)
		return
	}

	updates := map[string]interface{}{
		"fulfillment_status": status,
		"fulfillment_notes":  input.Notes,
	}
	if status == models.FulfillmentFulfilled {
		updates["fulfilled_by"] = input.StaffID
		updates["fulfilled_at"] = time.Now()
	}

	res := db.DB.Model(&models.BenefitAllocation{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		utils.LogError(res.Error, "Error updating benefit status")
		utils.SendError(c, http.StatusInternalServerError, "Failed to update benefit status")
		return
	}
	if res.RowsAffected == 0 {
		utils.SendError(c, http.StatusNotFound, "Benefit allocation not found")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "Benefit status updated to "+input.Status, nil)
}

// @Summary Pending benefits requiring fulfillment
// @Tags benefits
// @Produce json
// @Param benefitType query string false "Filter by benefit type"
// @Security BearerAuth
// @Success 200 {object} utils.Response "data: pending allocations"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /benefits/pending [get]
func GetPendingBenefits(c *gin.Context) {
	query := db.DB.Where("is_active = ? AND fulfillment_status IN ?", true,
		[]models.FulfillmentStatus{models.FulfillmentAllocated, models.FulfillmentInProgress})

	if benefitType := c.Query("benefitType"); benefitType != "" {
		query = query.Where("benefit_type = ?", benefitType)
	}

	var pending []models.BenefitAllocation
	if err := query.Order("expires_at asc NULLS LAST").Find(&pending).Error; err != nil {
		utils.LogError(err, "Error fetching pending benefits")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch pending benefits")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "", pending)
}

type fulfillmentSummaryRow struct {
	BenefitType       string `json:"benefitType"`
	FulfillmentStatus string `json:"fulfillmentStatus"`
	Total             int64  `json:"total"`
}

// @Summary Fulfillment summary statistics
// @Tags benefits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response "data: counts per benefit type and status"
// @Failure 500 {object} utils.Response "error: Error message"
// @Router /benefits/summary [get]
func GetBenefitSummary(c *gin.Context) {
	var summary []fulfillmentSummaryRow
	if err := db.DB.Model(&models.BenefitAllocation{}).
		Select("benefit_type, fulfillment_status, count(*) as total").
		Group("benefit_type").Group("fulfillment_status").
		Order("benefit_type").
		Scan(&summary).Error; err != nil {
		utils.LogError(err, "Error fetching benefit summary")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch benefit summary")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "", summary)
}
