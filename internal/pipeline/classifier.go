package pipeline

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// Placement is where a candidate sits: a stage plus which of its two buckets.
type Placement struct {
	Stage   StageName `json:"stage"`
	Dropped bool      `json:"dropped"`
}

func (p Placement) String() string {
	if p.Dropped {
		return fmt.Sprintf("%s (dropped)", p.Stage)
	}
	return string(p.Stage)
}

// ClassifyFields maps a raw (currentStep, status) pair to a stage. Rules are
// evaluated in order and the first match wins.
func ClassifyFields(currentStep, status string) (StageName, error) {
	switch {
	case currentStep == "",
		currentStep == models.StepAIInterview,
		currentStep == models.StepCVScreening && status == models.StatusForAIInterview:
		if status == models.StatusForInterview || status == models.StatusForAIInterview {
			return StagePendingAIInterview, nil
		}
		return StageAIInterviewReview, nil

	case currentStep == models.StepCVScreening:
		return StageCVReview, nil

	case currentStep == models.StepHumanInterview:
		if status == models.StatusForHumanInterviewReview {
			return StageHumanInterviewReview, nil
		}
		return StageForHumanInterview, nil

	case currentStep == models.StepJobInterview:
		return StagePendingJobInterview, nil

	case currentStep == models.StepJobOffered:
		return StageJobOffered, nil

	case currentStep == models.StepContractSigned:
		return StageContractSigned, nil

	case currentStep == models.StepApplied:
		return StageApplied, nil
	}

	return "", errors.WithHint(
		&UnknownStageError{CurrentStep: currentStep, Status: status},
		"the interview's currentStep is not one the pipeline produces; fix the record upstream",
	)
}

// Classify derives the stage of an interview record.
func Classify(iv *models.Interview) (StageName, error) {
	stage, err := ClassifyFields(iv.CurrentStep, iv.Status)
	if err != nil {
		var unknown *UnknownStageError
		if errors.As(err, &unknown) {
			unknown.InterviewID = iv.ID
		}
		return "", err
	}
	return stage, nil
}

// Locate classifies an interview and picks its bucket. Dropped and cancelled
// applications always land in the dropped bucket of their stage.
func Locate(iv *models.Interview) (Placement, error) {
	stage, err := Classify(iv)
	if err != nil {
		return Placement{}, err
	}
	return Placement{Stage: stage, Dropped: iv.ApplicationStatus.IsRemoved()}, nil
}
