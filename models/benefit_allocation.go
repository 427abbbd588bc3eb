package models

import (
	"time"

	"gorm.io/datatypes"
)

type FulfillmentStatus string

const (
	FulfillmentAllocated  FulfillmentStatus = "allocated"
	FulfillmentInProgress FulfillmentStatus = "in_progress"
	FulfillmentFulfilled  FulfillmentStatus = "fulfilled"
	FulfillmentExpired    FulfillmentStatus = "expired"
	FulfillmentCancelled  FulfillmentStatus = "cancelled"
)

// BenefitAllocation is one benefit granted to a backer for a completed
// contribution. Details are copied from the tier descriptor at allocation
// time and never re-derived. The (contribution_id, benefit_type) pair is
// unique so redelivered webhooks cannot double-grant.
type BenefitAllocation struct {
	ID                string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BackerID          string            `json:"backerId" gorm:"type:uuid;not null"`
	ContributionID    string            `json:"contributionId" gorm:"type:uuid;not null;uniqueIndex:idx_allocations_contribution_benefit"`
	BenefitType       string            `json:"benefitType" gorm:"not null;uniqueIndex:idx_allocations_contribution_benefit"`
	BenefitName       string            `json:"benefitName"`
	BenefitDetails    datatypes.JSON    `json:"benefitDetails"`
	ExpiresAt         *time.Time        `json:"expiresAt"`
	Quantity          *int              `json:"quantity"`
	QuantityUsed      int               `json:"quantityUsed" gorm:"default:0"`
	IsActive          bool              `json:"isActive" gorm:"default:true"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus" gorm:"type:varchar(20);default:'allocated'"`
	FulfilledBy       string            `json:"fulfilledBy"`
	FulfilledAt       *time.Time        `json:"fulfilledAt"`
	FulfillmentNotes  string            `json:"fulfillmentNotes"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// Remaining returns how many uses are left, or nil for unlimited benefits.
func (a BenefitAllocation) Remaining() *int {
	if a.Quantity == nil {
		return nil
	}
	left := *a.Quantity - a.QuantityUsed
	if left < 0 {
		left = 0
	}
	return &left
}

// IsExpired reports whether the benefit's validity window has passed.
// A nil ExpiresAt means lifetime.
func (a BenefitAllocation) IsExpired() bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(time.Now())
}

// BenefitDescriptor is the external tier-catalog contract for one benefit.
// ExpiresAt is an absolute date authored in the catalog and is copied to the
// allocation verbatim; lifetime benefits carry no expiry at all.
type BenefitDescriptor struct {
	Type      string                 `json:"type"`
	Name      string                 `json:"name,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Lifetime  bool                   `json:"lifetime,omitempty"`
	ExpiresAt string                 `json:"expiresAt,omitempty"`
}

// Expiry parses the descriptor's absolute expiry. Lifetime descriptors and
// unparseable dates yield nil.
func (d BenefitDescriptor) Expiry() *time.Time {
	if d.Lifetime || d.ExpiresAt == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, d.ExpiresAt); err == nil {
			return &ts
		}
	}
	return nil
}

// DescriptorQuantity reads an optional usage quota from the descriptor
// details, e.g. {"quantity": 4} on a guest-pass benefit.
func (d BenefitDescriptor) DescriptorQuantity() *int {
	if d.Details == nil {
		return nil
	}
	if raw, ok := d.Details["quantity"].(float64); ok && raw > 0 {
		q := int(raw)
		return &q
	}
	return nil
}
