// Package pipeline holds the candidate pipeline state machine: the stage
// table, the classifier that derives a stage from an interview's raw
// (currentStep, status) fields, the transition engine, and the optimistic
// board that mirrors the server of record.
package pipeline

import (
	"github.com/cockroachdb/errors"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// StageName is a closed set of pipeline stages. StageApplied precedes the
// board and is never rendered as a column.
type StageName string

const (
	StageCVReview             StageName = "CV Review"
	StagePendingAIInterview   StageName = "Pending AI Interview"
	StageAIInterviewReview    StageName = "AI Interview Review"
	StageForHumanInterview    StageName = "For Human Interview"
	StageHumanInterviewReview StageName = "Human Interview Review"
	StagePendingJobInterview  StageName = "Pending Job Interview"
	StageJobOffered           StageName = "Job Offered"
	StageContractSigned       StageName = "Contract Signed"

	StageApplied StageName = "Applied"
)

// StageFields are the raw persisted fields a stage corresponds to.
type StageFields struct {
	Step   string `json:"step" yaml:"step"`
	Status string `json:"status" yaml:"status"`
}

// NextStage is the forward endorsement target of a stage.
type NextStage struct {
	Name   StageName `json:"name" yaml:"name"`
	Step   string    `json:"step" yaml:"step"`
	Status string    `json:"status" yaml:"status"`
}

// Stage is one column of the pipeline board.
type Stage struct {
	Name         StageName   `json:"name" yaml:"name"`
	Color        string      `json:"color" yaml:"color"`
	CurrentStage StageFields `json:"currentStage" yaml:"currentStage"`
	NextStage    *NextStage  `json:"nextStage,omitempty" yaml:"nextStage,omitempty"`
}

func next(name StageName, step, status string) *NextStage {
	return &NextStage{Name: name, Step: step, Status: status}
}

// stageTable is ordered: index order is display order and the only forward
// endorsement path.
var stageTable = []Stage{
	{
		Name:         StageCVReview,
		Color:        "#6366F1",
		CurrentStage: StageFields{Step: models.StepCVScreening, Status: models.StatusForCVScreening},
		NextStage:    next(StagePendingAIInterview, models.StepAIInterview, models.StatusForAIInterview),
	},
	{
		Name:         StagePendingAIInterview,
		Color:        "#0EA5E9",
		CurrentStage: StageFields{Step: models.StepAIInterview, Status: models.StatusForAIInterview},
		NextStage:    next(StageAIInterviewReview, models.StepAIInterview, models.StatusForAIInterviewReview),
	},
	{
		Name:         StageAIInterviewReview,
		Color:        "#14B8A6",
		CurrentStage: StageFields{Step: models.StepAIInterview, Status: models.StatusForAIInterviewReview},
		NextStage:    next(StageForHumanInterview, models.StepHumanInterview, models.StatusForHumanInterview),
	},
	{
		Name:         StageForHumanInterview,
		Color:        "#22C55E",
		CurrentStage: StageFields{Step: models.StepHumanInterview, Status: models.StatusForHumanInterview},
		NextStage:    next(StageHumanInterviewReview, models.StepHumanInterview, models.StatusForHumanInterviewReview),
	},
	{
		Name:         StageHumanInterviewReview,
		Color:        "#84CC16",
		CurrentStage: StageFields{Step: models.StepHumanInterview, Status: models.StatusForHumanInterviewReview},
		NextStage:    next(StagePendingJobInterview, models.StepJobInterview, models.StatusForInterview),
	},
	{
		Name:         StagePendingJobInterview,
		Color:        "#EAB308",
		CurrentStage: StageFields{Step: models.StepJobInterview, Status: models.StatusForInterview},
		NextStage:    next(StageJobOffered, models.StepJobOffered, models.StatusOffered),
	},
	{
		Name:         StageJobOffered,
		Color:        "#F97316",
		CurrentStage: StageFields{Step: models.StepJobOffered, Status: models.StatusOffered},
		NextStage:    next(StageContractSigned, models.StepContractSigned, models.StatusAccepted),
	},
	{
		Name:         StageContractSigned,
		Color:        "#A855F7",
		CurrentStage: StageFields{Step: models.StepContractSigned, Status: models.StatusAccepted},
	},
}

// Stages returns a copy of the ordered stage table.
func Stages() []Stage {
	out := make([]Stage, len(stageTable))
	for i, s := range stageTable {
		out[i] = s
		if s.NextStage != nil {
			n := *s.NextStage
			out[i].NextStage = &n
		}
	}
	return out
}

// StageNames returns the board stages in display order.
func StageNames() []StageName {
	names := make([]StageName, len(stageTable))
	for i, s := range stageTable {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the table entry for a board stage.
func Lookup(name StageName) (Stage, bool) {
	if i := Index(name); i >= 0 {
		return stageTable[i], true
	}
	return Stage{}, false
}

// Index returns the board position of a stage, or -1 when it is not on the board.
func Index(name StageName) int {
	for i, s := range stageTable {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// OnBoard reports whether the stage is one of the board columns.
func (s StageName) OnBoard() bool {
	return Index(s) >= 0
}

func (s StageName) String() string {
	return string(s)
}

// ParseStageName converts a raw name into a StageName, accepting Applied.
func ParseStageName(raw string) (StageName, error) {
	name := StageName(raw)
	if name == StageApplied || name.OnBoard() {
		return name, nil
	}
	return "", errors.Newf("unknown stage name %q", raw)
}

// ValidateTable checks that every stage's own fields classify back to it and
// that each nextStage names the following stage with that stage's fields.
func ValidateTable(stages []Stage) error {
	if len(stages) == 0 {
		return errors.New("stage table is empty")
	}
	seen := map[StageName]struct{}{}
	for _, s := range stages {
		if _, dup := seen[s.Name]; dup {
			return errors.Newf("stage table: duplicate stage %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}

	for i, s := range stages {
		got, err := ClassifyFields(s.CurrentStage.Step, s.CurrentStage.Status)
		if err != nil {
			return errors.Wrapf(err, "stage table: %s", s.Name)
		}
		if got != s.Name {
			return errors.Newf("stage table: %s fields classify to %s", s.Name, got)
		}

		if i == len(stages)-1 {
			if s.NextStage != nil {
				return errors.Newf("stage table: last stage %s must not have a next stage", s.Name)
			}
			continue
		}
		want := stages[i+1]
		if s.NextStage == nil {
			return errors.Newf("stage table: %s has no next stage", s.Name)
		}
		if s.NextStage.Name != want.Name ||
			s.NextStage.Step != want.CurrentStage.Step ||
			s.NextStage.Status != want.CurrentStage.Status {
			return errors.Newf("stage table: %s next stage does not match %s", s.Name, want.Name)
		}
	}
	return nil
}
