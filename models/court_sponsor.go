package models

import (
	"time"
)

// CourtSponsor is the recognition record for contributions at or above the
// sponsorship threshold. One per qualifying contribution; deactivated on
// refund, never deleted.
type CourtSponsor struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BackerID         string     `json:"backerId" gorm:"type:uuid;not null"`
	ContributionID   string     `json:"contributionId" gorm:"type:uuid;not null;uniqueIndex"`
	SponsorName      string     `json:"sponsorName" gorm:"not null"`
	SponsorType      string     `json:"sponsorType" gorm:"type:varchar(20);default:'individual'"`
	LogoURL          string     `json:"logoUrl"`
	CourtNumber      *int       `json:"courtNumber"`
	SponsorshipStart time.Time  `json:"sponsorshipStart" gorm:"type:date"`
	SponsorshipEnd   *time.Time `json:"sponsorshipEnd" gorm:"type:date"`
	DisplayOrder     int        `json:"displayOrder" gorm:"default:0"`
	IsActive         bool       `json:"isActive" gorm:"default:true"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
