package pipeline

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

func TestEndorseMovesToNextStage(t *testing.T) {
	engine := testEngine()
	stages := Stages()

	for i, stage := range stages[:len(stages)-1] {
		iv := candidateIn(stage.Name, models.ApplicationOngoing, fixedNow.Add(-time.Hour))

		tr, err := engine.Apply(&iv, Request{Action: ActionEndorse, Actor: recruiter})
		require.NoError(t, err, stage.Name)

		assert.Equal(t, stages[i+1].Name, tr.To.Stage)
		assert.Greater(t, Index(tr.To.Stage), Index(tr.From.Stage))

		updated := tr.Patch.ApplyTo(iv)
		got, err := Classify(&updated)
		require.NoError(t, err)
		assert.Equal(t, stage.NextStage.Name, got)

		require.NotNil(t, tr.Record)
		assert.Equal(t, string(stage.Name), tr.Record.FromStage)
		assert.Equal(t, string(stages[i+1].Name), tr.Record.ToStage)
		assert.Equal(t, models.ActionEndorsed, tr.Record.Action)
		assert.Equal(t, recruiter, tr.Record.UpdatedBy.Data())
		assert.Equal(t, fixedNow, tr.Record.Timestamp)
		assert.Equal(t, iv.ID, tr.Record.InterviewID)
	}
}

func TestEndorseStampsMetadata(t *testing.T) {
	iv := candidateIn(StageCVReview, models.ApplicationOngoing, fixedNow.Add(-time.Hour))

	tr, err := testEngine().Apply(&iv, Request{Action: ActionEndorse, Actor: recruiter})
	require.NoError(t, err)

	require.NotNil(t, tr.Patch.ApplicationMetadata)
	assert.Equal(t, models.ApplicationMetadata{
		UpdatedAt: fixedNow,
		UpdatedBy: recruiter,
		Action:    models.ActionEndorsed,
	}, *tr.Patch.ApplicationMetadata)
}

func TestEndorseFromLastStageIsInvalid(t *testing.T) {
	iv := candidateIn(StageContractSigned, models.ApplicationOngoing, fixedNow)

	_, err := testEngine().Apply(&iv, Request{Action: ActionEndorse, Actor: recruiter})

	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, StageContractSigned, invalid.From.Stage)
}

func TestEndorseDroppedCandidateIsInvalid(t *testing.T) {
	iv := candidateIn(StageAIInterviewReview, models.ApplicationDropped, fixedNow)

	_, err := testEngine().Apply(&iv, Request{Action: ActionEndorse, Actor: recruiter})

	var invalid *InvalidTransitionError
	assert.True(t, errors.As(err, &invalid))
}

func TestScenarioD_DragSkipsIntermediateStages(t *testing.T) {
	iv := candidateIn(StageCVReview, models.ApplicationOngoing, fixedNow)

	tr, err := testEngine().Apply(&iv, Request{
		Action:      ActionEndorse,
		Actor:       recruiter,
		Destination: StagePendingJobInterview,
	})
	require.NoError(t, err)

	dest, _ := Lookup(StagePendingJobInterview)
	require.NotNil(t, tr.Patch.CurrentStep)
	assert.Equal(t, dest.CurrentStage.Step, *tr.Patch.CurrentStep)
	assert.Equal(t, dest.CurrentStage.Status, *tr.Patch.Status)

	require.NotNil(t, tr.Record)
	assert.Equal(t, "CV Review", tr.Record.FromStage)
	assert.Equal(t, "Pending Job Interview", tr.Record.ToStage)
	assert.Equal(t, "Endorsed", tr.Record.Action)
}

func TestDragBackwardIsAllowed(t *testing.T) {
	iv := candidateIn(StageJobOffered, models.ApplicationOngoing, fixedNow)

	tr, err := testEngine().Apply(&iv, Request{Action: ActionEndorse, Actor: recruiter, Destination: StageForHumanInterview})
	require.NoError(t, err)
	assert.Equal(t, StageForHumanInterview, tr.To.Stage)
}

func TestDragOntoSameStageIsNoOp(t *testing.T) {
	iv := candidateIn(StageAIInterviewReview, models.ApplicationOngoing, fixedNow)

	tr, err := testEngine().Apply(&iv, Request{Action: ActionEndorse, Actor: recruiter, Destination: StageAIInterviewReview})
	require.NoError(t, err)

	assert.True(t, tr.NoOp)
	assert.True(t, tr.Patch.IsEmpty())
	assert.Nil(t, tr.Record)
}

func TestDragToUnknownDestination(t *testing.T) {
	iv := candidateIn(StageCVReview, models.ApplicationOngoing, fixedNow)

	_, err := testEngine().Apply(&iv, Request{Action: ActionEndorse, Actor: recruiter, Destination: StageApplied})

	var invalid *InvalidTransitionError
	assert.True(t, errors.As(err, &invalid))
}

func TestDropAndReconsider(t *testing.T) {
	engine := testEngine()
	iv := candidateIn(StageForHumanInterview, models.ApplicationOngoing, fixedNow)

	drop, err := engine.Apply(&iv, Request{Action: ActionDrop, Actor: recruiter})
	require.NoError(t, err)
	assert.Equal(t, Placement{Stage: StageForHumanInterview, Dropped: true}, drop.To)
	assert.Equal(t, models.ApplicationDropped, *drop.Patch.ApplicationStatus)
	assert.Equal(t, models.ActionDropped, drop.Record.Action)

	dropped := drop.Patch.ApplyTo(iv)

	_, err = engine.Apply(&dropped, Request{Action: ActionDrop, Actor: recruiter})
	var invalid *InvalidTransitionError
	assert.True(t, errors.As(err, &invalid), "dropping twice must fail")

	back, err := engine.Apply(&dropped, Request{Action: ActionReconsider, Actor: recruiter})
	require.NoError(t, err)
	assert.Equal(t, Placement{Stage: StageForHumanInterview}, back.To)
	assert.Equal(t, models.ActionReconsidered, back.Record.Action)

	restored := back.Patch.ApplyTo(dropped)
	assert.Equal(t, models.ApplicationOngoing, restored.ApplicationStatus)
	assert.Equal(t, iv.CurrentStep, restored.CurrentStep)
	assert.Equal(t, iv.Status, restored.Status)
}

func TestReconsiderActiveCandidateIsInvalid(t *testing.T) {
	iv := candidateIn(StageCVReview, models.ApplicationOngoing, fixedNow)

	_, err := testEngine().Apply(&iv, Request{Action: ActionReconsider, Actor: recruiter})

	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Error(), "not dropped")
}

func TestReconsiderCancelledCandidate(t *testing.T) {
	iv := candidateIn(StageJobOffered, models.ApplicationCancelled, fixedNow)

	tr, err := testEngine().Apply(&iv, Request{Action: ActionReconsider, Actor: recruiter})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationOngoing, *tr.Patch.ApplicationStatus)
}

func TestRetakeApprove(t *testing.T) {
	iv := candidateIn(StageAIInterviewReview, models.ApplicationOngoing, fixedNow)
	iv.RetakeRequest = datatypes.NewJSONType(&models.RetakeRequest{Status: models.RetakePending, UpdatedAt: fixedNow.Add(-time.Hour)})

	tr, err := testEngine().Apply(&iv, Request{Action: ActionRetakeApprove, Actor: recruiter})
	require.NoError(t, err)

	assert.True(t, tr.ResetInterviewData)
	assert.Equal(t, StagePendingAIInterview, tr.To.Stage)
	require.NotNil(t, tr.Patch.RetakeRequest)
	assert.Equal(t, models.RetakeApproved, tr.Patch.RetakeRequest.Status)
	assert.Equal(t, &recruiter, tr.Patch.RetakeRequest.ApprovedBy)
	assert.Equal(t, models.ActionRetakeApproved, tr.Patch.ApplicationMetadata.Action)

	require.NotNil(t, tr.Record)
	assert.Equal(t, "AI Interview Review", tr.Record.FromStage)
	assert.Equal(t, "Pending AI Interview", tr.Record.ToStage)
	assert.Equal(t, models.ActionEndorsed, tr.Record.Action)

	updated := tr.Patch.ApplyTo(iv)
	stage, err := Classify(&updated)
	require.NoError(t, err)
	assert.Equal(t, StagePendingAIInterview, stage)
	assert.Equal(t, models.RetakePending, iv.Retake().Status, "original record must not change")
}

func TestRetakeReject(t *testing.T) {
	iv := candidateIn(StageAIInterviewReview, models.ApplicationOngoing, fixedNow)
	iv.RetakeRequest = datatypes.NewJSONType(&models.RetakeRequest{Status: models.RetakePending})

	tr, err := testEngine().Apply(&iv, Request{Action: ActionRetakeReject, Actor: recruiter})
	require.NoError(t, err)

	assert.Nil(t, tr.Record)
	assert.False(t, tr.ResetInterviewData)
	assert.Equal(t, tr.From, tr.To)
	assert.Equal(t, models.RetakeRejected, tr.Patch.RetakeRequest.Status)
	assert.Nil(t, tr.Patch.CurrentStep)
}

func TestRetakeWithoutPendingRequest(t *testing.T) {
	engine := testEngine()
	iv := candidateIn(StageAIInterviewReview, models.ApplicationOngoing, fixedNow)

	for _, action := range []Action{ActionRetakeApprove, ActionRetakeReject} {
		_, err := engine.Apply(&iv, Request{Action: action, Actor: recruiter})
		var invalid *InvalidTransitionError
		assert.True(t, errors.As(err, &invalid), action)
	}

	iv.RetakeRequest = datatypes.NewJSONType(&models.RetakeRequest{Status: models.RetakeRejected})
	_, err := engine.Apply(&iv, Request{Action: ActionRetakeApprove, Actor: recruiter})
	var invalid *InvalidTransitionError
	assert.True(t, errors.As(err, &invalid))
}

func TestHire(t *testing.T) {
	engine := testEngine()
	iv := candidateIn(StageContractSigned, models.ApplicationOngoing, fixedNow)

	tr, err := engine.Apply(&iv, Request{Action: ActionHire, Actor: recruiter})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationHired, *tr.Patch.ApplicationStatus)
	assert.Equal(t, models.ActionHired, tr.Record.Action)

	hired := tr.Patch.ApplyTo(iv)
	_, err = engine.Apply(&hired, Request{Action: ActionDrop, Actor: recruiter})
	var invalid *InvalidTransitionError
	assert.True(t, errors.As(err, &invalid), "hired is terminal")

	early := candidateIn(StageJobOffered, models.ApplicationOngoing, fixedNow)
	_, err = engine.Apply(&early, Request{Action: ActionHire, Actor: recruiter})
	assert.True(t, errors.As(err, &invalid))
}

func TestScreen(t *testing.T) {
	engine := testEngine()

	passed := candidateIn(StageApplied, models.ApplicationOngoing, fixedNow)
	tr, err := engine.Apply(&passed, Request{Action: ActionScreen, Actor: recruiter, ScreeningPassed: true})
	require.NoError(t, err)
	assert.Equal(t, StagePendingAIInterview, tr.To.Stage)
	assert.Equal(t, models.StepCVScreening, *tr.Patch.CurrentStep)
	assert.Equal(t, models.StatusForAIInterview, *tr.Patch.Status)
	assert.Equal(t, "Applied", tr.Record.FromStage)
	assert.Equal(t, models.ActionCVScreened, tr.Record.Action)

	held := candidateIn(StageApplied, models.ApplicationOngoing, fixedNow)
	tr, err = engine.Apply(&held, Request{Action: ActionScreen, Actor: recruiter})
	require.NoError(t, err)
	assert.Equal(t, StageCVReview, tr.To.Stage)

	screened := candidateIn(StageCVReview, models.ApplicationOngoing, fixedNow)
	_, err = engine.Apply(&screened, Request{Action: ActionScreen, Actor: recruiter})
	var invalid *InvalidTransitionError
	assert.True(t, errors.As(err, &invalid))
}

func TestApplyUnknownStage(t *testing.T) {
	iv := candidateIn(StageCVReview, models.ApplicationOngoing, fixedNow)
	iv.CurrentStep = "Background Check"

	_, err := testEngine().Apply(&iv, Request{Action: ActionEndorse, Actor: recruiter})

	var unknown *UnknownStageError
	assert.True(t, errors.As(err, &unknown))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Retake-Approve ")
	require.NoError(t, err)
	assert.Equal(t, ActionRetakeApprove, a)

	_, err = ParseAction("promote")
	assert.Error(t, err)
}

func TestPatchValidate(t *testing.T) {
	assert.Error(t, FieldPatch{}.Validate())

	step := models.StepJobOffered
	assert.Error(t, FieldPatch{CurrentStep: &step}.Validate())

	bogus := models.ApplicationStatus("Paused")
	assert.Error(t, FieldPatch{ApplicationStatus: &bogus}.Validate())

	unknownStep, status := "Onboarding", "x"
	err := FieldPatch{CurrentStep: &unknownStep, Status: &status}.Validate()
	var unknown *UnknownStageError
	assert.True(t, errors.As(err, &unknown))

	offered := models.StatusOffered
	assert.NoError(t, FieldPatch{CurrentStep: &step, Status: &offered}.Validate())
}

func TestPatchColumns(t *testing.T) {
	iv := candidateIn(StageCVReview, models.ApplicationOngoing, fixedNow)
	tr, err := testEngine().Apply(&iv, Request{Action: ActionDrop, Actor: recruiter})
	require.NoError(t, err)

	cols := tr.Patch.Columns(fixedNow)
	assert.Equal(t, models.ApplicationDropped, cols["application_status"])
	assert.Equal(t, fixedNow, cols["updated_at"])
	assert.Contains(t, cols, "application_metadata")
	assert.NotContains(t, cols, "current_step")
}
