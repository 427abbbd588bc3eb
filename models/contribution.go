package models

import (
	"time"
)

type ContributionStatus string

const (
	ContributionPending   ContributionStatus = "pending"
	ContributionCompleted ContributionStatus = "completed"
	ContributionFailed    ContributionStatus = "failed"
	ContributionRefunded  ContributionStatus = "refunded"
)

// Contribution is one pledge attempt. Rows are created when a checkout
// session is opened (status pending) and then only ever transition via the
// Stripe webhook: pending -> completed -> refunded, or pending -> failed.
// Refunded is terminal. Rows are never deleted.
type Contribution struct {
	ID                      string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BackerID                string             `json:"backerId" gorm:"type:uuid;not null"`
	CampaignID              string             `json:"campaignId" gorm:"type:uuid;not null"`
	TierID                  *string            `json:"tierId" gorm:"type:uuid"`
	Amount                  float64            `json:"amount" gorm:"not null"`
	Status                  ContributionStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	StripeCheckoutSessionId string             `json:"stripeCheckoutSessionId" gorm:"index"`
	StripePaymentIntentId   string             `json:"stripePaymentIntentId" gorm:"index"`
	StripeChargeId          string             `json:"stripeChargeId" gorm:"index"`
	PaymentMethod           string             `json:"paymentMethod"`
	CompletedAt             *time.Time         `json:"completedAt"`
	RefundedAt              *time.Time         `json:"refundedAt"`
	IsPublic                bool               `json:"isPublic" gorm:"default:true"`
	ShowAmount              bool               `json:"showAmount" gorm:"default:true"`
	CustomMessage           string             `json:"customMessage" gorm:"type:varchar(500)"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt"`
}

type ContributionCreate struct {
	CampaignID    string  `json:"campaignId" binding:"required,uuid"`
	TierID        string  `json:"tierId" binding:"omitempty,uuid"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	IsPublic      *bool   `json:"isPublic"`
	ShowAmount    *bool   `json:"showAmount"`
	CustomMessage string  `json:"customMessage" binding:"max=500"`
}
