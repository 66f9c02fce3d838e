package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ScreeningStatus string

const (
	ScreeningQueued     ScreeningStatus = "queued"
	ScreeningProcessing ScreeningStatus = "processing"
	ScreeningCompleted  ScreeningStatus = "completed"
	ScreeningFailed     ScreeningStatus = "failed"
)

// Screening is an AI evaluation of an applicant's CV against a career.
type Screening struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"interviewId"`
	CareerID     uuid.UUID       `gorm:"type:uuid;not null" json:"careerId"`
	CVDocumentID uuid.UUID       `gorm:"type:uuid;not null" json:"cvDocumentId"`
	Status       ScreeningStatus `gorm:"not null;default:'queued'" json:"status"`
	MatchRate    *float64        `gorm:"type:decimal(3,2)" json:"matchRate,omitempty"`
	Strengths    pq.StringArray  `gorm:"type:text[]" json:"strengths,omitempty"`
	Gaps         pq.StringArray  `gorm:"type:text[]" json:"gaps,omitempty"`
	Feedback     *string         `gorm:"type:text" json:"feedback,omitempty"`
	ErrorMessage *string         `gorm:"type:text" json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	CVDocument Document `gorm:"foreignKey:CVDocumentID" json:"-"`
}

func (Screening) TableName() string {
	return "screenings"
}
