package pipeline

import (
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/datatypes"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// FieldPatch is the set of interview fields a transition changes. Nil fields
// are left untouched.
type FieldPatch struct {
	CurrentStep         *string                     `json:"currentStep,omitempty"`
	Status              *string                     `json:"status,omitempty"`
	ApplicationStatus   *models.ApplicationStatus   `json:"applicationStatus,omitempty"`
	RetakeRequest       *models.RetakeRequest       `json:"retakeRequest,omitempty"`
	ApplicationMetadata *models.ApplicationMetadata `json:"applicationMetadata,omitempty"`
}

// Mutation is the body of the update-interview call: a patch plus the audit
// record persisted with it.
type Mutation struct {
	Patch       FieldPatch                `json:"patch"`
	Transaction *models.TransactionRecord `json:"transaction,omitempty"`
}

func (p FieldPatch) IsEmpty() bool {
	return p.CurrentStep == nil &&
		p.Status == nil &&
		p.ApplicationStatus == nil &&
		p.RetakeRequest == nil &&
		p.ApplicationMetadata == nil
}

// Validate rejects patches carrying values outside their closed sets.
func (p FieldPatch) Validate() error {
	if p.IsEmpty() {
		return errors.New("patch is empty")
	}
	if (p.CurrentStep == nil) != (p.Status == nil) {
		return errors.New("currentStep and status must be patched together")
	}
	if p.ApplicationStatus != nil {
		switch *p.ApplicationStatus {
		case models.ApplicationOngoing, models.ApplicationDropped, models.ApplicationCancelled, models.ApplicationHired:
		default:
			return errors.Newf("invalid applicationStatus %q", *p.ApplicationStatus)
		}
	}
	if p.RetakeRequest != nil && !p.RetakeRequest.Status.IsValid() {
		return errors.Newf("invalid retakeRequest status %q", p.RetakeRequest.Status)
	}
	if p.CurrentStep != nil {
		if _, err := ClassifyFields(*p.CurrentStep, *p.Status); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo returns a copy of iv with the patch applied.
func (p FieldPatch) ApplyTo(iv models.Interview) models.Interview {
	if p.CurrentStep != nil {
		iv.CurrentStep = *p.CurrentStep
	}
	if p.Status != nil {
		iv.Status = *p.Status
	}
	if p.ApplicationStatus != nil {
		iv.ApplicationStatus = *p.ApplicationStatus
	}
	if p.RetakeRequest != nil {
		retake := *p.RetakeRequest
		iv.RetakeRequest = datatypes.NewJSONType(&retake)
	}
	if p.ApplicationMetadata != nil {
		iv.ApplicationMetadata = datatypes.NewJSONType(*p.ApplicationMetadata)
	}
	return iv
}

// Columns converts the patch into a column map for a GORM Updates call.
func (p FieldPatch) Columns(now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"updated_at": now,
	}

	if p.CurrentStep != nil {
		updates["current_step"] = *p.CurrentStep
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.ApplicationStatus != nil {
		updates["application_status"] = *p.ApplicationStatus
	}
	if p.RetakeRequest != nil {
		retake := *p.RetakeRequest
		updates["retake_request"] = datatypes.NewJSONType(&retake)
	}
	if p.ApplicationMetadata != nil {
		updates["application_metadata"] = datatypes.NewJSONType(*p.ApplicationMetadata)
	}

	return updates
}

func stringPtr(s string) *string {
	return &s
}
