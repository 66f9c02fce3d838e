package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Coarse pipeline phases stored in Interview.CurrentStep.
const (
	StepApplied        = "Applied"
	StepCVScreening    = "CV Screening"
	StepAIInterview    = "AI Interview"
	StepHumanInterview = "Human Interview"
	StepJobInterview   = "Job Interview"
	StepJobOffered     = "Job Offered"
	StepContractSigned = "Contract Signed"
)

// Sub-states stored in Interview.Status. They are scoped to CurrentStep.
const (
	StatusForCVScreening          = "For CV Screening"
	StatusForInterview            = "For Interview"
	StatusForAIInterview          = "For AI Interview"
	StatusForAIInterviewReview    = "For AI Interview Review"
	StatusForHumanInterview       = "For Human Interview"
	StatusForHumanInterviewReview = "For Human Interview Review"
	StatusOffered                 = "Offered"
	StatusAccepted                = "Accepted"
)

type ApplicationStatus string

const (
	ApplicationOngoing   ApplicationStatus = "Ongoing"
	ApplicationDropped   ApplicationStatus = "Dropped"
	ApplicationCancelled ApplicationStatus = "Cancelled"
	ApplicationHired     ApplicationStatus = "Hired"
)

// IsRemoved reports whether the candidate belongs in a dropped bucket.
func (s ApplicationStatus) IsRemoved() bool {
	return s == ApplicationDropped || s == ApplicationCancelled
}

type RetakeStatus string

const (
	RetakePending  RetakeStatus = "Pending"
	RetakeApproved RetakeStatus = "Approved"
	RetakeRejected RetakeStatus = "Rejected"
)

func (s RetakeStatus) IsValid() bool {
	switch s {
	case RetakePending, RetakeApproved, RetakeRejected:
		return true
	default:
		return false
	}
}

// Actor identifies whoever performed a pipeline action.
type Actor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// ApplicationMetadata records the last action taken on an application.
type ApplicationMetadata struct {
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy Actor     `json:"updatedBy"`
	Action    string    `json:"action"`
}

// RetakeRequest is a candidate's request to redo the AI interview.
type RetakeRequest struct {
	Status     RetakeStatus `json:"status"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	ApprovedBy *Actor       `json:"approvedBy,omitempty"`
}

// Interview is one candidate's application to one career.
type Interview struct {
	ID                  uuid.UUID                               `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CareerID            uuid.UUID                               `gorm:"type:uuid;not null;index" json:"careerId"`
	CandidateName       string                                  `gorm:"type:text" json:"candidateName"`
	CandidateEmail      string                                  `gorm:"type:text;index" json:"candidateEmail"`
	CurrentStep         string                                  `gorm:"type:text" json:"currentStep"`
	Status              string                                  `gorm:"type:text" json:"status"`
	ApplicationStatus   ApplicationStatus                       `gorm:"type:text;not null;default:'Ongoing'" json:"applicationStatus"`
	ApplicationMetadata datatypes.JSONType[ApplicationMetadata] `gorm:"type:jsonb" json:"applicationMetadata"`
	RetakeRequest       datatypes.JSONType[*RetakeRequest]      `gorm:"type:jsonb" json:"retakeRequest"`
	CVDocumentID        *uuid.UUID                              `gorm:"type:uuid" json:"cvDocumentId,omitempty"`
	AIInterviewData     datatypes.JSON                          `gorm:"type:jsonb" json:"aiInterviewData,omitempty"`
	AIInterviewScore    *float64                                `gorm:"type:decimal(5,2)" json:"aiInterviewScore,omitempty"`
	CreatedAt           time.Time                               `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt           time.Time                               `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (iv *Interview) BeforeCreate(tx *gorm.DB) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	if iv.ApplicationStatus == "" {
		iv.ApplicationStatus = ApplicationOngoing
	}
	if len(iv.AIInterviewData) == 0 {
		iv.AIInterviewData = datatypes.JSON("{}")
	}
	return nil
}

// Metadata returns the last-action audit stamp.
func (iv *Interview) Metadata() ApplicationMetadata {
	return iv.ApplicationMetadata.Data()
}

// Retake returns the pending or resolved retake request, nil when none exists.
func (iv *Interview) Retake() *RetakeRequest {
	return iv.RetakeRequest.Data()
}

// LastActivityAt is the most recent recorded activity on the application.
func (iv *Interview) LastActivityAt() time.Time {
	if at := iv.Metadata().UpdatedAt; !at.IsZero() {
		return at
	}
	if !iv.UpdatedAt.IsZero() {
		return iv.UpdatedAt
	}
	return iv.CreatedAt
}
