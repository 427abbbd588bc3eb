package models

import (
	"time"
)

type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

const (
	EmailTemplateThankYou     = "contribution_thank_you"
	EmailTemplateRefundNotice = "contribution_refund_notice"
)

// EmailLog records every transactional email the system intends to send.
// The webhook only queues rows (status pending); delivery and the
// sent/failed transition happen in the contribution-emails handlers.
type EmailLog struct {
	ID             string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ToEmail        string      `json:"toEmail" gorm:"not null"`
	TemplateKey    string      `json:"templateKey" gorm:"not null;index"`
	Status         EmailStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	ErrorMessage   string      `json:"errorMessage"`
	ContributionID *string     `json:"contributionId" gorm:"type:uuid;index"`
	SentAt         *time.Time  `json:"sentAt"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}
