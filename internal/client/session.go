package client

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
)

// ErrCancelled is returned when the confirmer declines a proposal.
var ErrCancelled = errors.New("action cancelled")

// API is the subset of the pipeline API a Session needs.
type API interface {
	ListInterviews(ctx context.Context, careerID uuid.UUID) ([]models.Interview, error)
	UpdateInterview(ctx context.Context, id uuid.UUID, mutation pipeline.Mutation) (*models.Interview, error)
	ResetInterviewData(ctx context.Context, id uuid.UUID) error
}

// Confirmer is asked before a proposal is persisted. Returning false rolls the
// proposal back.
type Confirmer func(ctx context.Context, p *pipeline.Proposal) (bool, error)

// Session drives one career's board: every action is shown on the board at
// once, then persisted, then committed or rolled back.
type Session struct {
	api      API
	careerID uuid.UUID
	actor    models.Actor
	engine   *pipeline.Engine
	board    *pipeline.Board
	confirm  Confirmer
}

type SessionOption func(*Session)

func WithEngine(e *pipeline.Engine) SessionOption {
	return func(s *Session) {
		s.engine = e
	}
}

func WithConfirmer(c Confirmer) SessionOption {
	return func(s *Session) {
		s.confirm = c
	}
}

func NewSession(api API, careerID uuid.UUID, actor models.Actor, opts ...SessionOption) *Session {
	s := &Session{
		api:      api,
		careerID: careerID,
		actor:    actor,
		engine:   pipeline.NewEngine(),
		board:    pipeline.NewBoard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Board() *pipeline.Board {
	return s.board
}

// Load refetches the career and replaces the board. Unclassifiable records are
// returned as an error after the rest of the board has been loaded.
func (s *Session) Load(ctx context.Context) error {
	interviews, err := s.api.ListInterviews(ctx, s.careerID)
	if err != nil {
		return err
	}
	return s.board.Load(interviews)
}

func (s *Session) Endorse(ctx context.Context, id uuid.UUID) (*pipeline.Transition, error) {
	return s.act(ctx, id, pipeline.Request{Action: pipeline.ActionEndorse})
}

// Drag endorses a candidate onto an explicit stage.
func (s *Session) Drag(ctx context.Context, id uuid.UUID, destination pipeline.StageName) (*pipeline.Transition, error) {
	return s.act(ctx, id, pipeline.Request{Action: pipeline.ActionEndorse, Destination: destination})
}

func (s *Session) Drop(ctx context.Context, id uuid.UUID) (*pipeline.Transition, error) {
	return s.act(ctx, id, pipeline.Request{Action: pipeline.ActionDrop})
}

func (s *Session) Reconsider(ctx context.Context, id uuid.UUID) (*pipeline.Transition, error) {
	return s.act(ctx, id, pipeline.Request{Action: pipeline.ActionReconsider})
}

func (s *Session) ApproveRetake(ctx context.Context, id uuid.UUID) (*pipeline.Transition, error) {
	return s.act(ctx, id, pipeline.Request{Action: pipeline.ActionRetakeApprove})
}

func (s *Session) RejectRetake(ctx context.Context, id uuid.UUID) (*pipeline.Transition, error) {
	return s.act(ctx, id, pipeline.Request{Action: pipeline.ActionRetakeReject})
}

func (s *Session) Hire(ctx context.Context, id uuid.UUID) (*pipeline.Transition, error) {
	return s.act(ctx, id, pipeline.Request{Action: pipeline.ActionHire})
}

func (s *Session) act(ctx context.Context, id uuid.UUID, req pipeline.Request) (*pipeline.Transition, error) {
	iv, _, ok := s.board.Find(id)
	if !ok {
		return nil, errors.Newf("candidate %s is not on the board", id)
	}

	req.Actor = s.actor
	t, err := s.engine.Apply(&iv, req)
	if err != nil {
		return nil, err
	}
	if t.NoOp {
		return t, nil
	}

	proposal, err := s.board.Propose(t, t.Patch.ApplyTo(iv))
	if err != nil {
		return nil, err
	}

	if s.confirm != nil {
		ok, err := s.confirm(ctx, proposal)
		if err != nil || !ok {
			s.resolve(proposal, pipeline.OutcomeRollback, nil)
			if err != nil {
				return nil, err
			}
			return nil, ErrCancelled
		}
	}

	if t.ResetInterviewData {
		if err := s.api.ResetInterviewData(ctx, id); err != nil {
			s.resolve(proposal, pipeline.OutcomeRollback, nil)
			return nil, &pipeline.PersistenceFailure{Action: t.Action, Err: err}
		}
	}

	confirmed, err := s.api.UpdateInterview(ctx, id, t.Mutation())
	if err != nil {
		s.resolve(proposal, pipeline.OutcomeRollback, nil)
		return nil, &pipeline.PersistenceFailure{Action: t.Action, Err: err}
	}

	s.resolve(proposal, pipeline.OutcomeCommit, confirmed)
	return t, nil
}

// resolve settles a proposal. A failure here means the board was reloaded
// underneath the proposal, which already dropped it.
func (s *Session) resolve(p *pipeline.Proposal, outcome pipeline.Outcome, confirmed *models.Interview) {
	if err := s.board.Resolve(p, outcome, confirmed); err != nil {
		logger.Warnw("proposal could not be resolved",
			logger.FieldInterviewID, p.CandidateID,
			"outcome", outcome.String(),
			logger.FieldError, err)
	}
}
