package models

import (
	"time"
)

type Backer struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email            string    `json:"email" gorm:"uniqueIndex;not null"`
	FirstName        string    `json:"firstName" gorm:"not null"`
	LastInitial      string    `json:"lastInitial" gorm:"type:varchar(1);not null"`
	Phone            string    `json:"phone"`
	City             string    `json:"city"`
	State            string    `json:"state" gorm:"type:varchar(2)"`
	TotalContributed float64   `json:"totalContributed" gorm:"default:0"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DisplayName is the public form used on sponsor plaques and the founders wall.
func (b Backer) DisplayName() string {
	return b.FirstName + " " + b.LastInitial + "."
}

type BackerCreate struct {
	Email       string `json:"email" binding:"required"`
	FirstName   string `json:"firstName" binding:"required,max=100"`
	LastInitial string `json:"lastInitial" binding:"required,len=1"`
	Phone       string `json:"phone" binding:"max=30"`
	City        string `json:"city" binding:"max=100"`
	State       string `json:"state" binding:"omitempty,len=2"`
}
