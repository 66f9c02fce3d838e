package pipeline

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// Action is a recruiter (or screener) request against one candidate.
type Action string

const (
	ActionEndorse       Action = "endorse"
	ActionDrop          Action = "drop"
	ActionReconsider    Action = "reconsider"
	ActionRetakeApprove Action = "retake-approve"
	ActionRetakeReject  Action = "retake-reject"
	ActionHire          Action = "hire"
	ActionScreen        Action = "screen"
)

// ParseAction converts a raw action name, case-insensitively.
func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case ActionEndorse, ActionDrop, ActionReconsider, ActionRetakeApprove,
		ActionRetakeReject, ActionHire, ActionScreen:
		return a, nil
	}
	return "", errors.Newf("unknown action %q", raw)
}

// Request carries everything an action needs besides the candidate.
type Request struct {
	Action Action
	Actor  models.Actor
	// Destination is an explicit drag target for ActionEndorse. Empty means
	// the table's nextStage.
	Destination StageName
	// ScreeningPassed selects the outcome of ActionScreen.
	ScreeningPassed bool
}

// Transition is the computed result of an action: what to persist, what to
// log, and where the candidate moves on the board.
type Transition struct {
	InterviewID uuid.UUID
	Action      Action
	From        Placement
	To          Placement
	Patch       FieldPatch
	// Record is nil for actions that emit no audit row (retake rejection) and
	// for no-op transitions.
	Record *models.TransactionRecord
	// ResetInterviewData asks the caller to invoke the reset-interview-data
	// collaborator before persisting.
	ResetInterviewData bool
	// NoOp marks a transition that changes nothing (drag onto the candidate's
	// own stage). Nothing is persisted or logged.
	NoOp bool
}

// Mutation returns the update-interview payload for the transition.
func (t *Transition) Mutation() Mutation {
	return Mutation{Patch: t.Patch, Transaction: t.Record}
}

// Engine computes transitions. It holds no candidate state and never retries.
type Engine struct {
	now func() time.Time
}

type EngineOption func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply computes the transition for an action on an interview. The interview
// is not modified.
func (e *Engine) Apply(iv *models.Interview, req Request) (*Transition, error) {
	from, err := Locate(iv)
	if err != nil {
		return nil, err
	}

	if iv.ApplicationStatus == models.ApplicationHired {
		return nil, &InvalidTransitionError{Action: req.Action, From: from, Reason: "candidate is already hired"}
	}

	now := e.now().UTC()
	t := &Transition{
		InterviewID: iv.ID,
		Action:      req.Action,
		From:        from,
	}

	switch req.Action {
	case ActionEndorse:
		err = e.endorse(t, req, now)
	case ActionDrop:
		err = e.drop(t, req, now)
	case ActionReconsider:
		err = e.reconsider(t, req, now)
	case ActionRetakeApprove:
		err = e.approveRetake(t, iv, req, now)
	case ActionRetakeReject:
		err = e.rejectRetake(t, iv, req, now)
	case ActionHire:
		err = e.hire(t, req, now)
	case ActionScreen:
		err = e.screen(t, req, now)
	default:
		err = errors.Newf("unknown action %q", req.Action)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (e *Engine) endorse(t *Transition, req Request, now time.Time) error {
	if err := requireActiveOnBoard(t); err != nil {
		return err
	}

	source, _ := Lookup(t.From.Stage)
	var target StageFields
	var targetName StageName

	switch {
	case req.Destination == t.From.Stage:
		t.To = t.From
		t.NoOp = true
		return nil
	case req.Destination != "":
		dest, ok := Lookup(req.Destination)
		if !ok {
			return &InvalidTransitionError{
				Action: t.Action, From: t.From,
				Reason: "destination " + string(req.Destination) + " is not a pipeline stage",
			}
		}
		target, targetName = dest.CurrentStage, dest.Name
	case source.NextStage != nil:
		target = StageFields{Step: source.NextStage.Step, Status: source.NextStage.Status}
		targetName = source.NextStage.Name
	default:
		return &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "stage has no next stage"}
	}

	t.To = Placement{Stage: targetName}
	t.Patch = FieldPatch{
		CurrentStep:         stringPtr(target.Step),
		Status:              stringPtr(target.Status),
		ApplicationMetadata: stamp(req.Actor, models.ActionEndorsed, now),
	}
	t.Record = record(t.InterviewID, t.From.Stage, targetName, models.ActionEndorsed, req.Actor, now)
	return nil
}

func (e *Engine) drop(t *Transition, req Request, now time.Time) error {
	if err := requireActiveOnBoard(t); err != nil {
		return err
	}
	status := models.ApplicationDropped
	t.To = Placement{Stage: t.From.Stage, Dropped: true}
	t.Patch = FieldPatch{
		ApplicationStatus:   &status,
		ApplicationMetadata: stamp(req.Actor, models.ActionDropped, now),
	}
	t.Record = record(t.InterviewID, t.From.Stage, t.From.Stage, models.ActionDropped, req.Actor, now)
	return nil
}

func (e *Engine) reconsider(t *Transition, req Request, now time.Time) error {
	if !t.From.Dropped {
		return &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "candidate is not dropped"}
	}
	status := models.ApplicationOngoing
	t.To = Placement{Stage: t.From.Stage}
	t.Patch = FieldPatch{
		ApplicationStatus:   &status,
		ApplicationMetadata: stamp(req.Actor, models.ActionReconsidered, now),
	}
	t.Record = record(t.InterviewID, t.From.Stage, t.From.Stage, models.ActionReconsidered, req.Actor, now)
	return nil
}

// approveRetake sends the candidate back to Pending AI Interview. The audit
// row keeps the Endorsed label the platform has always written for it.
func (e *Engine) approveRetake(t *Transition, iv *models.Interview, req Request, now time.Time) error {
	if err := requirePendingRetake(t, iv); err != nil {
		return err
	}
	target, _ := Lookup(StagePendingAIInterview)
	approver := req.Actor

	t.To = Placement{Stage: StagePendingAIInterview, Dropped: t.From.Dropped}
	t.Patch = FieldPatch{
		CurrentStep: stringPtr(target.CurrentStage.Step),
		Status:      stringPtr(target.CurrentStage.Status),
		RetakeRequest: &models.RetakeRequest{
			Status:     models.RetakeApproved,
			UpdatedAt:  now,
			ApprovedBy: &approver,
		},
		ApplicationMetadata: stamp(req.Actor, models.ActionRetakeApproved, now),
	}
	t.Record = record(t.InterviewID, t.From.Stage, StagePendingAIInterview, models.ActionEndorsed, req.Actor, now)
	t.ResetInterviewData = true
	return nil
}

func (e *Engine) rejectRetake(t *Transition, iv *models.Interview, req Request, now time.Time) error {
	if err := requirePendingRetake(t, iv); err != nil {
		return err
	}
	t.To = t.From
	t.Patch = FieldPatch{
		RetakeRequest: &models.RetakeRequest{
			Status:    models.RetakeRejected,
			UpdatedAt: now,
		},
		ApplicationMetadata: stamp(req.Actor, models.ActionRetakeRejected, now),
	}
	return nil
}

func (e *Engine) hire(t *Transition, req Request, now time.Time) error {
	if err := requireActiveOnBoard(t); err != nil {
		return err
	}
	if t.From.Stage != StageContractSigned {
		return &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "only candidates with a signed contract can be hired"}
	}
	status := models.ApplicationHired
	t.To = t.From
	t.Patch = FieldPatch{
		ApplicationStatus:   &status,
		ApplicationMetadata: stamp(req.Actor, models.ActionHired, now),
	}
	t.Record = record(t.InterviewID, t.From.Stage, t.From.Stage, models.ActionHired, req.Actor, now)
	return nil
}

// screen records the AI CV screening outcome for a freshly applied candidate.
// A pass goes straight to Pending AI Interview while keeping the CV Screening
// step; anything else waits in CV Review for a recruiter.
func (e *Engine) screen(t *Transition, req Request, now time.Time) error {
	if t.From.Stage != StageApplied {
		return &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "candidate has already been screened"}
	}
	if t.From.Dropped {
		return &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "candidate is not active"}
	}

	status := models.StatusForCVScreening
	if req.ScreeningPassed {
		status = models.StatusForAIInterview
	}
	to, err := ClassifyFields(models.StepCVScreening, status)
	if err != nil {
		return err
	}

	t.To = Placement{Stage: to}
	t.Patch = FieldPatch{
		CurrentStep:         stringPtr(models.StepCVScreening),
		Status:              stringPtr(status),
		ApplicationMetadata: stamp(req.Actor, models.ActionCVScreened, now),
	}
	t.Record = record(t.InterviewID, StageApplied, to, models.ActionCVScreened, req.Actor, now)
	return nil
}

func requireActiveOnBoard(t *Transition) error {
	if t.From.Dropped {
		return &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "candidate is not active"}
	}
	if !t.From.Stage.OnBoard() {
		return &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "candidate has not been screened yet"}
	}
	return nil
}

func requirePendingRetake(t *Transition, iv *models.Interview) error {
	retake := iv.Retake()
	if retake == nil || retake.Status != models.RetakePending {
		return &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "no pending retake request"}
	}
	return nil
}

func stamp(actor models.Actor, action string, now time.Time) *models.ApplicationMetadata {
	return &models.ApplicationMetadata{UpdatedAt: now, UpdatedBy: actor, Action: action}
}

func record(interviewID uuid.UUID, from, to StageName, action string, actor models.Actor, now time.Time) *models.TransactionRecord {
	return &models.TransactionRecord{
		ID:          uuid.New(),
		InterviewID: interviewID,
		FromStage:   string(from),
		ToStage:     string(to),
		Action:      action,
		UpdatedBy:   datatypes.NewJSONType(actor),
		Timestamp:   now,
	}
}
