package models

import (
	"time"
)

// FoundersWallEntry is the public recognition row for a backer. One entry per
// backer, upserted when a public contribution completes.
type FoundersWallEntry struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BackerID         string    `json:"backerId" gorm:"type:uuid;not null;uniqueIndex"`
	DisplayName      string    `json:"displayName" gorm:"not null"`
	Location         string    `json:"location"`
	ContributionTier string    `json:"contributionTier"`
	TotalContributed float64   `json:"totalContributed" gorm:"default:0"`
	IsFeatured       bool      `json:"isFeatured" gorm:"default:false"`
	DisplayOrder     int       `json:"displayOrder" gorm:"default:0"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
