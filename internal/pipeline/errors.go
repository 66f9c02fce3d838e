package pipeline

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// UnknownStageError reports an interview whose raw fields match no
// classification rule. It points at bad data upstream and is never defaulted.
type UnknownStageError struct {
	InterviewID uuid.UUID
	CurrentStep string
	Status      string
}

func (e *UnknownStageError) Error() string {
	if e.InterviewID == uuid.Nil {
		return fmt.Sprintf("unknown pipeline stage for currentStep=%q status=%q", e.CurrentStep, e.Status)
	}
	return fmt.Sprintf("interview %s: unknown pipeline stage for currentStep=%q status=%q",
		e.InterviewID, e.CurrentStep, e.Status)
}

// LoadError lists the records Board.Load left off the board because they
// match no stage.
type LoadError struct {
	Unknown []*UnknownStageError
}

func (e *LoadError) Error() string {
	msgs := make([]string, len(e.Unknown))
	for i, u := range e.Unknown {
		msgs[i] = u.Error()
	}
	return fmt.Sprintf("%d records match no stage: %s", len(e.Unknown), strings.Join(msgs, "; "))
}

func (e *LoadError) Unwrap() []error {
	out := make([]error, len(e.Unknown))
	for i, u := range e.Unknown {
		out[i] = u
	}
	return out
}

// UnknownStages returns the unclassifiable records carried by err, whether it
// is a LoadError or a single UnknownStageError.
func UnknownStages(err error) []*UnknownStageError {
	if err == nil {
		return nil
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Unknown
	}
	var unknown *UnknownStageError
	if errors.As(err, &unknown) {
		return []*UnknownStageError{unknown}
	}
	return nil
}

// InvalidTransitionError reports an action whose precondition does not hold.
type InvalidTransitionError struct {
	Action Action
	From   Placement
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s candidate in %s: %s", e.Action, e.From, e.Reason)
}

// ConcurrentProposalError reports a second proposal for a candidate whose
// first proposal has not been resolved.
type ConcurrentProposalError struct {
	CandidateID uuid.UUID
	Pending     uuid.UUID
}

func (e *ConcurrentProposalError) Error() string {
	return fmt.Sprintf("candidate %s already has an unresolved proposal %s", e.CandidateID, e.Pending)
}

// PersistenceFailure wraps a failed or timed-out mutation call. The board is
// always rolled back before it is returned.
type PersistenceFailure struct {
	Action Action
	Err    error
}

func (e *PersistenceFailure) Error() string {
	if e.Err == nil {
		return e.UserMessage()
	}
	return fmt.Sprintf("%s: %v", e.UserMessage(), e.Err)
}

func (e *PersistenceFailure) Unwrap() error {
	return e.Err
}

// UserMessage is the action-specific text shown to a recruiter.
func (e *PersistenceFailure) UserMessage() string {
	switch e.Action {
	case ActionEndorse:
		return "Failed to endorse candidate"
	case ActionDrop:
		return "Failed to drop candidate"
	case ActionReconsider:
		return "Failed to reconsider candidate"
	case ActionRetakeApprove:
		return "Failed to approve retake request"
	case ActionRetakeReject:
		return "Failed to reject retake request"
	case ActionHire:
		return "Failed to hire candidate"
	case ActionScreen:
		return "Failed to record CV screening"
	default:
		return "Failed to update candidate"
	}
}
