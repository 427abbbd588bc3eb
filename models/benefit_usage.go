package models

import (
	"time"
)

// BenefitUsage is one redemption logged against a benefit allocation.
type BenefitUsage struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AllocationID  string    `json:"allocationId" gorm:"type:uuid;not null;index"`
	BackerID      string    `json:"backerId" gorm:"type:uuid;not null"`
	QuantityUsed  int       `json:"quantityUsed" gorm:"default:1"`
	UsedFor       string    `json:"usedFor"`
	Notes         string    `json:"notes"`
	StaffID       string    `json:"staffId"`
	StaffVerified bool      `json:"staffVerified" gorm:"default:false"`
	UsageTime     time.Time `json:"usageTime"`
	CreatedAt     time.Time `json:"createdAt"`
}
