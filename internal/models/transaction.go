package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit labels written to TransactionRecord.Action and ApplicationMetadata.Action.
const (
	ActionEndorsed       = "Endorsed"
	ActionDropped        = "Dropped"
	ActionReconsidered   = "Reconsidered"
	ActionHired          = "Hired"
	ActionCVScreened     = "CV Screened"
	ActionRetakeApproved = "Retake Approved"
	ActionRetakeRejected = "Retake Rejected"
)

// TransactionRecord is an append-only history row written alongside every
// persisted transition. Current state is never derived from it.
type TransactionRecord struct {
	ID          uuid.UUID                 `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID uuid.UUID                 `gorm:"type:uuid;not null;index" json:"interviewId"`
	FromStage   string                    `gorm:"type:text;not null" json:"fromStage"`
	ToStage     string                    `gorm:"type:text;not null" json:"toStage"`
	Action      string                    `gorm:"type:text;not null" json:"action"`
	UpdatedBy   datatypes.JSONType[Actor] `gorm:"type:jsonb" json:"updatedBy"`
	Timestamp   time.Time                 `gorm:"not null;index" json:"timestamp"`
}

func (TransactionRecord) TableName() string {
	return "interview_transactions"
}
