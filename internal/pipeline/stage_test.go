package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

func TestStageTableIsValid(t *testing.T) {
	require.NoError(t, ValidateTable(Stages()))
	assert.Len(t, Stages(), 8)
}

func TestStageOrder(t *testing.T) {
	assert.Equal(t, []StageName{
		StageCVReview,
		StagePendingAIInterview,
		StageAIInterviewReview,
		StageForHumanInterview,
		StageHumanInterviewReview,
		StagePendingJobInterview,
		StageJobOffered,
		StageContractSigned,
	}, StageNames())
}

func TestStagesReturnsCopy(t *testing.T) {
	stages := Stages()
	stages[0].NextStage.Name = StageJobOffered
	stages[1].Color = "#000000"

	fresh := Stages()
	assert.Equal(t, StagePendingAIInterview, fresh[0].NextStage.Name)
	assert.NotEqual(t, "#000000", fresh[1].Color)
}

func TestValidateTableRejectsBrokenChain(t *testing.T) {
	stages := Stages()
	stages[2].NextStage.Name = StageJobOffered
	assert.ErrorContains(t, ValidateTable(stages), "next stage does not match")

	stages = Stages()
	stages[0].CurrentStage = StageFields{Step: models.StepJobOffered, Status: models.StatusOffered}
	assert.ErrorContains(t, ValidateTable(stages), "classify to")

	stages = Stages()
	stages = append(stages, stages[0])
	assert.ErrorContains(t, ValidateTable(stages), "duplicate")
}

func TestParseStageName(t *testing.T) {
	name, err := ParseStageName("Pending Job Interview")
	require.NoError(t, err)
	assert.Equal(t, StagePendingJobInterview, name)

	name, err = ParseStageName("Applied")
	require.NoError(t, err)
	assert.False(t, name.OnBoard())

	_, err = ParseStageName("Onboarding")
	assert.Error(t, err)
}
