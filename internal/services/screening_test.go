package services

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

type screeningFixture struct {
	interviews *fakeInterviewRepo
	screenings *fakeScreeningRepo
	gemini     *fakeGemini
	qdrant     *fakeQdrant
	pdf        *fakePDF
	service    ScreeningService
	screening  models.Screening
	interview  models.Interview
}

func newScreeningFixture(t *testing.T, response string) *screeningFixture {
	t.Helper()
	iv := interviewAt(models.StepApplied, models.StatusForCVScreening)
	doc := models.Document{ID: uuid.New(), FilePath: "/uploads/cv.pdf", FileType: models.DocumentTypeCV}
	career := models.Career{ID: careerID, Title: "Backend Engineer", Requirements: []string{"Go"}, Status: models.CareerActive}
	screening := models.Screening{
		ID:           uuid.New(),
		InterviewID:  iv.ID,
		CareerID:     careerID,
		CVDocumentID: doc.ID,
		Status:       models.ScreeningQueued,
	}

	f := &screeningFixture{
		interviews: newFakeInterviewRepo(iv),
		screenings: newFakeScreeningRepo(),
		gemini:     &fakeGemini{response: response},
		qdrant:     &fakeQdrant{results: []SearchResult{{Text: "Own Go services end to end.", Score: 0.9}}},
		pdf:        &fakePDF{text: "Dewi Candidate\n\nFive years of Go."},
		screening:  screening,
		interview:  iv,
	}
	require.NoError(t, f.screenings.Create(&screening))

	f.service = NewScreeningService(
		f.screenings,
		&fakeDocumentRepo{docs: map[uuid.UUID]models.Document{doc.ID: doc}},
		&fakeCareerRepo{careers: map[uuid.UUID]models.Career{career.ID: career}},
		newTestPipeline(f.interviews),
		f.gemini,
		f.qdrant,
		f.pdf,
		3,
	)
	return f
}

func TestScreenCandidatePassMovesToPendingAIInterview(t *testing.T) {
	f := newScreeningFixture(t, "```json\n{\"match_rate\": 0.84, \"strengths\": [\"Go\"], \"gaps\": [], \"feedback\": \"Good fit.\"}\n```")

	require.NoError(t, f.service.ScreenCandidate(context.Background(), f.screening.ID))

	assert.Equal(t, careerID.String(), f.qdrant.filter)
	require.Len(t, f.gemini.prompts, 1)
	assert.Contains(t, f.gemini.prompts[0], "Own Go services end to end.")
	assert.Contains(t, f.gemini.prompts[0], "Five years of Go.")

	got, _ := f.interviews.FindByID(f.interview.ID)
	assert.Equal(t, models.StatusForAIInterview, got.Status)

	resp, err := f.service.Get(f.screening.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ScreeningCompleted), resp.Status)
	require.NotNil(t, resp.Result)
	assert.InDelta(t, 0.84, resp.Result.MatchRate, 1e-9)
}

func TestScreenCandidateBelowThresholdStaysInCVReview(t *testing.T) {
	f := newScreeningFixture(t, `{"match_rate": 0.41, "strengths": [], "gaps": ["Go"], "feedback": "Junior."}`)

	require.NoError(t, f.service.ScreenCandidate(context.Background(), f.screening.ID))

	got, _ := f.interviews.FindByID(f.interview.ID)
	assert.Equal(t, models.StepCVScreening, got.CurrentStep)
	assert.Equal(t, models.StatusForCVScreening, got.Status)
}

func TestScreenCandidateRecordsFailure(t *testing.T) {
	f := newScreeningFixture(t, "")
	f.pdf.err = errors.New("corrupt pdf")

	err := f.service.ScreenCandidate(context.Background(), f.screening.ID)
	require.Error(t, err)

	resp, getErr := f.service.Get(f.screening.ID)
	require.NoError(t, getErr)
	assert.Equal(t, string(models.ScreeningFailed), resp.Status)
	require.NotNil(t, resp.ErrorMessage)
	assert.Contains(t, *resp.ErrorMessage, "corrupt pdf")
	assert.Nil(t, resp.Result)

	got, _ := f.interviews.FindByID(f.interview.ID)
	assert.Equal(t, models.StepApplied, got.CurrentStep)
}

func TestParseScreeningResult(t *testing.T) {
	res, err := parseScreeningResult("Here you go:\n{\"match_rate\": 0.62, \"feedback\": \"ok\"}\nThanks")
	require.NoError(t, err)
	assert.InDelta(t, 0.62, res.MatchRate, 1e-9)
	assert.Equal(t, []string{}, res.Strengths)
	assert.Equal(t, []string{}, res.Gaps)

	res, err = parseScreeningResult(`{"match_rate": 1}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.MatchRate)

	_, err = parseScreeningResult("   ")
	assert.Error(t, err)

	_, err = parseScreeningResult("not json at all")
	assert.Error(t, err)
}

func TestParseScreeningResultPercentScale(t *testing.T) {
	res, err := parseScreeningResult(`{"match_rate": 85, "feedback": "ok"}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, res.MatchRate, 1e-9)

	res, err = parseScreeningResult(`{"match_rate": 41}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.41, res.MatchRate, 1e-9)

	_, err = parseScreeningResult(`{"match_rate": 140}`)
	assert.Error(t, err)

	_, err = parseScreeningResult(`{"match_rate": -0.2}`)
	assert.Error(t, err)
}

func TestScreenCandidatePercentScaleBelowThreshold(t *testing.T) {
	f := newScreeningFixture(t, `{"match_rate": 41, "strengths": [], "gaps": ["Go"], "feedback": "Junior."}`)

	require.NoError(t, f.service.ScreenCandidate(context.Background(), f.screening.ID))

	got, _ := f.interviews.FindByID(f.interview.ID)
	assert.Equal(t, models.StatusForCVScreening, got.Status, "41 on a 0-100 scale does not pass 0.7")
}

func TestScreenCandidateRequeuesWhenInterviewCannotBeMoved(t *testing.T) {
	f := newScreeningFixture(t, `{"match_rate": 0.84, "strengths": ["Go"], "gaps": [], "feedback": "Good fit."}`)
	f.interviews.mutateErr = errors.New("connection reset by peer")

	err := f.service.ScreenCandidate(context.Background(), f.screening.ID)
	require.Error(t, err)

	got, _ := f.interviews.FindByID(f.interview.ID)
	assert.Equal(t, models.StepApplied, got.CurrentStep)

	resp, getErr := f.service.Get(f.screening.ID)
	require.NoError(t, getErr)
	assert.Equal(t, string(models.ScreeningQueued), resp.Status)
	assert.Nil(t, resp.Result)

	pending, err := f.screenings.FindPendingJobs(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.screening.ID, pending[0].ID)

	f.interviews.mutateErr = nil
	require.NoError(t, f.service.ScreenCandidate(context.Background(), f.screening.ID))

	got, _ = f.interviews.FindByID(f.interview.ID)
	assert.Equal(t, models.StatusForAIInterview, got.Status)
	resp, _ = f.service.Get(f.screening.ID)
	assert.Equal(t, string(models.ScreeningCompleted), resp.Status)
}

func TestScreenCandidateFailsWhenInterviewAlreadyScreened(t *testing.T) {
	f := newScreeningFixture(t, `{"match_rate": 0.84, "strengths": ["Go"], "gaps": [], "feedback": "Good fit."}`)
	moved := f.interview
	moved.CurrentStep = models.StepCVScreening
	f.interviews.interviews[moved.ID] = moved

	err := f.service.ScreenCandidate(context.Background(), f.screening.ID)
	require.Error(t, err)

	resp, getErr := f.service.Get(f.screening.ID)
	require.NoError(t, getErr)
	assert.Equal(t, string(models.ScreeningFailed), resp.Status)
	assert.Nil(t, resp.Result)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1,2]`, extractJSON("values: [1,2]"))
	assert.Equal(t, "plain", extractJSON("plain"))
}
