package models

import (
	"time"

	"gorm.io/datatypes"
)

type ContributionTier struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CampaignID     string         `json:"campaignId" gorm:"type:uuid;not null"`
	Name           string         `json:"name" gorm:"not null"`
	Description    string         `json:"description"`
	Amount         float64        `json:"amount" gorm:"not null"`
	Benefits       datatypes.JSON `json:"benefits"`
	MaxBackers     *int           `json:"maxBackers"`
	CurrentBackers int            `json:"currentBackers" gorm:"default:0"`
	DisplayOrder   int            `json:"displayOrder" gorm:"default:0"`
	IsActive       bool           `json:"isActive" gorm:"default:true"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// IsFull reports whether the tier has no spots left. A nil MaxBackers means
// unlimited capacity.
func (t ContributionTier) IsFull() bool {
	return t.MaxBackers != nil && t.CurrentBackers >= *t.MaxBackers
}

// SpotsRemaining returns nil for unlimited tiers.
func (t ContributionTier) SpotsRemaining() *int {
	if t.MaxBackers == nil {
		return nil
	}
	remaining := *t.MaxBackers - t.CurrentBackers
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
