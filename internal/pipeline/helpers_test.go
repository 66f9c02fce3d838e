package pipeline

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

var (
	fixedNow  = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	recruiter = models.Actor{Name: "Rina Recruiter", Email: "rina@example.com"}
)

func testEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return fixedNow }))
}

// candidateIn builds an interview sitting in the given stage.
func candidateIn(stage StageName, status models.ApplicationStatus, lastActivity time.Time) models.Interview {
	fields := StageFields{Step: models.StepApplied, Status: models.StatusForCVScreening}
	if s, ok := Lookup(stage); ok {
		fields = s.CurrentStage
	}
	return models.Interview{
		ID:                uuid.New(),
		CareerID:          uuid.MustParse("6a0c2a52-8f0e-4b7e-9c1a-3f1f1b8d2a10"),
		CandidateName:     "Candidate " + string(stage),
		CandidateEmail:    "candidate@example.com",
		CurrentStep:       fields.Step,
		Status:            fields.Status,
		ApplicationStatus: status,
		ApplicationMetadata: datatypes.NewJSONType(models.ApplicationMetadata{
			UpdatedAt: lastActivity,
			UpdatedBy: recruiter,
			Action:    models.ActionEndorsed,
		}),
	}
}
