package services

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

// PipelineService is the server of record for interview state.
type PipelineService interface {
	Stages() []pipeline.Stage
	ListInterviews(careerID uuid.UUID) ([]models.Interview, error)
	Board(careerID uuid.UUID) (*BoardView, error)
	ApplyMutation(interviewID uuid.UUID, mutation pipeline.Mutation) (*models.Interview, error)
	ApplyAction(ctx context.Context, interviewID uuid.UUID, req ActionInput) (*ActionResult, error)
	ResetInterviewData(interviewID uuid.UUID) error
	History(interviewID uuid.UUID) ([]models.TransactionRecord, error)
	CareerHistory(careerID uuid.UUID) ([]models.TransactionRecord, error)
	CompleteScreening(interviewID uuid.UUID, matchRate float64) (*pipeline.Transition, error)
}

// ActionInput is a recruiter action addressed to the server.
type ActionInput struct {
	Action      string
	Destination string
	Actor       models.Actor
}

type ActionResult struct {
	Interview *models.Interview         `json:"interview"`
	From      pipeline.Placement        `json:"from"`
	To        pipeline.Placement        `json:"to"`
	NoOp      bool                      `json:"noOp"`
	Record    *models.TransactionRecord `json:"transaction,omitempty"`
}

// BoardColumn is one stage of a rendered board.
type BoardColumn struct {
	pipeline.Stage
	pipeline.Bucket
}

type BoardView struct {
	CareerID   uuid.UUID          `json:"careerId"`
	Stages     []BoardColumn      `json:"stages"`
	Unscreened []models.Interview `json:"unscreened"`
	Errors     []string           `json:"errors"`
}

// ScreeningPolicy decides how a finished screening moves the candidate.
type ScreeningPolicy struct {
	PassThreshold float64
	Actor         models.Actor
}

type pipelineService struct {
	interviewRepo repositories.InterviewRepository
	engine        *pipeline.Engine
	policy        ScreeningPolicy
}

func NewPipelineService(
	interviewRepo repositories.InterviewRepository,
	engine *pipeline.Engine,
	policy ScreeningPolicy,
) PipelineService {
	return &pipelineService{
		interviewRepo: interviewRepo,
		engine:        engine,
		policy:        policy,
	}
}

func (s *pipelineService) Stages() []pipeline.Stage {
	return pipeline.Stages()
}

// ListInterviews returns a career's interviews in bucket order.
func (s *pipelineService) ListInterviews(careerID uuid.UUID) ([]models.Interview, error) {
	interviews, err := s.interviewRepo.ListByCareer(careerID)
	if err != nil {
		return nil, err
	}
	pipeline.SortInterviews(interviews)
	return interviews, nil
}

func (s *pipelineService) Board(careerID uuid.UUID) (*BoardView, error) {
	interviews, err := s.interviewRepo.ListByCareer(careerID)
	if err != nil {
		return nil, err
	}

	board := pipeline.NewBoard()
	view := &BoardView{CareerID: careerID, Errors: []string{}}

	if err := board.Load(interviews); err != nil {
		unknown := pipeline.UnknownStages(err)
		if len(unknown) == 0 {
			return nil, err
		}
		for _, u := range unknown {
			view.Errors = append(view.Errors, u.Error())
		}
		logger.Warnw("interviews left off the board",
			logger.FieldCareerID, careerID,
			"count", len(view.Errors))
	}

	for _, stage := range pipeline.Stages() {
		view.Stages = append(view.Stages, BoardColumn{Stage: stage, Bucket: board.Bucket(stage.Name)})
	}
	view.Unscreened = board.Unscreened()
	if view.Unscreened == nil {
		view.Unscreened = []models.Interview{}
	}

	return view, nil
}

// ApplyMutation persists a client-computed patch and its audit record
// together.
func (s *pipelineService) ApplyMutation(interviewID uuid.UUID, mutation pipeline.Mutation) (*models.Interview, error) {
	if err := mutation.Patch.Validate(); err != nil {
		var unknown *pipeline.UnknownStageError
		if errors.As(err, &unknown) {
			return nil, err
		}
		return nil, errors.Mark(err, ErrInvalidInput)
	}

	record := mutation.Transaction
	if record != nil {
		switch record.InterviewID {
		case uuid.Nil:
			record.InterviewID = interviewID
		case interviewID:
		default:
			return nil, invalidInput("transaction interviewId %s does not match interview %s", record.InterviewID, interviewID)
		}
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		if record.Action == "" || record.FromStage == "" || record.ToStage == "" {
			return nil, invalidInput("transaction requires fromStage, toStage and action")
		}
	}

	updated, err := s.interviewRepo.ApplyMutation(interviewID, mutation.Patch, record)
	if err != nil {
		return nil, err
	}

	logger.Infow("interview updated",
		logger.FieldInterviewID, interviewID,
		logger.FieldAction, actionLabel(mutation))
	return updated, nil
}

func actionLabel(m pipeline.Mutation) string {
	if m.Transaction != nil {
		return m.Transaction.Action
	}
	if m.Patch.ApplicationMetadata != nil {
		return m.Patch.ApplicationMetadata.Action
	}
	return ""
}

// ApplyAction runs a recruiter action through the engine and persists it.
// Screening outcomes are reserved for the screening worker.
func (s *pipelineService) ApplyAction(ctx context.Context, interviewID uuid.UUID, input ActionInput) (*ActionResult, error) {
	action, err := pipeline.ParseAction(input.Action)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidInput)
	}
	if action == pipeline.ActionScreen {
		return nil, invalidInput("action %q is performed by the screening worker", action)
	}
	if input.Actor.Email == "" {
		return nil, invalidInput("updatedBy.email is required")
	}

	var destination pipeline.StageName
	if input.Destination != "" {
		if action != pipeline.ActionEndorse {
			return nil, invalidInput("destination is only valid for %s", pipeline.ActionEndorse)
		}
		destination = pipeline.StageName(input.Destination)
	}

	iv, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	t, err := s.engine.Apply(iv, pipeline.Request{
		Action:      action,
		Actor:       input.Actor,
		Destination: destination,
	})
	if err != nil {
		return nil, err
	}

	if t.NoOp {
		return &ActionResult{Interview: iv, From: t.From, To: t.To, NoOp: true}, nil
	}

	updated, err := s.persist(ctx, t)
	if err != nil {
		return nil, err
	}

	return &ActionResult{Interview: updated, From: t.From, To: t.To, Record: t.Record}, nil
}

func (s *pipelineService) persist(ctx context.Context, t *pipeline.Transition) (*models.Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, &pipeline.PersistenceFailure{Action: t.Action, Err: err}
	}

	if t.ResetInterviewData {
		if err := s.interviewRepo.ResetInterviewData(t.InterviewID); err != nil {
			return nil, &pipeline.PersistenceFailure{Action: t.Action, Err: err}
		}
	}

	updated, err := s.interviewRepo.ApplyMutation(t.InterviewID, t.Patch, t.Record)
	if err != nil {
		return nil, &pipeline.PersistenceFailure{Action: t.Action, Err: err}
	}

	logger.Infow("transition applied",
		logger.FieldInterviewID, t.InterviewID,
		logger.FieldAction, t.Action,
		logger.FieldStage, t.To.String())
	return updated, nil
}

func (s *pipelineService) ResetInterviewData(interviewID uuid.UUID) error {
	return s.interviewRepo.ResetInterviewData(interviewID)
}

func (s *pipelineService) History(interviewID uuid.UUID) ([]models.TransactionRecord, error) {
	if _, err := s.interviewRepo.FindByID(interviewID); err != nil {
		return nil, err
	}
	return s.interviewRepo.History(interviewID)
}

func (s *pipelineService) CareerHistory(careerID uuid.UUID) ([]models.TransactionRecord, error) {
	return s.interviewRepo.HistoryByCareer(careerID)
}

// CompleteScreening moves a freshly screened candidate onto the board.
func (s *pipelineService) CompleteScreening(interviewID uuid.UUID, matchRate float64) (*pipeline.Transition, error) {
	iv, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	t, err := s.engine.Apply(iv, pipeline.Request{
		Action:          pipeline.ActionScreen,
		Actor:           s.policy.Actor,
		ScreeningPassed: matchRate >= s.policy.PassThreshold,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.persist(context.Background(), t); err != nil {
		return nil, err
	}
	return t, nil
}
