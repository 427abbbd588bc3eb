package models

import (
	"time"
)

type Campaign struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name          string    `json:"name" gorm:"not null"`
	Slug          string    `json:"slug" gorm:"uniqueIndex"`
	Description   string    `json:"description"`
	GoalAmount    float64   `json:"goalAmount" gorm:"default:0"`
	CurrentAmount float64   `json:"currentAmount" gorm:"default:0"`
	DisplayOrder  int       `json:"displayOrder" gorm:"default:0"`
	IsActive      bool      `json:"isActive" gorm:"default:true"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Percentage of the funding goal reached, rounded to whole percents.
func (c Campaign) Percentage() int {
	if c.GoalAmount <= 0 {
		return 0
	}
	return int(c.CurrentAmount/c.GoalAmount*100 + 0.5)
}
