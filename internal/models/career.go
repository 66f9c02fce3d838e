package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CareerStatus string

const (
	CareerActive   CareerStatus = "active"
	CareerInactive CareerStatus = "inactive"
)

// Career is a job posting candidates apply to.
type Career struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title        string         `gorm:"type:text;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Requirements pq.StringArray `gorm:"type:text[]" json:"requirements"`
	Status       CareerStatus   `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Career) TableName() string {
	return "careers"
}
