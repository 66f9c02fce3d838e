package pipeline

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// Bucket holds one stage's candidates. Slices held by the board are never
// modified in place; every change installs new slices, so a Bucket handed
// out by Snapshot stays valid.
type Bucket struct {
	Candidates        []models.Interview `json:"candidates"`
	DroppedCandidates []models.Interview `json:"droppedCandidates"`
}

func (b Bucket) list(dropped bool) []models.Interview {
	if dropped {
		return b.DroppedCandidates
	}
	return b.Candidates
}

func (b Bucket) with(dropped bool, list []models.Interview) Bucket {
	if dropped {
		b.DroppedCandidates = list
	} else {
		b.Candidates = list
	}
	return b
}

// Proposal is a speculative move awaiting confirmation from the server.
type Proposal struct {
	ID            uuid.UUID
	CandidateID   uuid.UUID
	Action        Action
	Source        Placement
	Destination   Placement
	SnapshotIndex int

	previous models.Interview
}

// Outcome resolves a proposal.
type Outcome int

const (
	// OutcomeCommit keeps the speculative placement.
	OutcomeCommit Outcome = iota
	// OutcomeRollback restores the candidate to its source bucket and index.
	OutcomeRollback
)

func (o Outcome) String() string {
	if o == OutcomeCommit {
		return "commit"
	}
	return "rollback"
}

// Board groups a career's candidates by stage and applies transitions
// optimistically. It is safe for concurrent use.
type Board struct {
	mu         sync.Mutex
	buckets    map[StageName]Bucket
	unscreened []models.Interview
	pending    map[uuid.UUID]*Proposal
}

func NewBoard() *Board {
	return &Board{
		buckets: emptyBuckets(),
		pending: make(map[uuid.UUID]*Proposal),
	}
}

func emptyBuckets() map[StageName]Bucket {
	buckets := make(map[StageName]Bucket, len(stageTable))
	for _, s := range stageTable {
		buckets[s.Name] = Bucket{Candidates: []models.Interview{}, DroppedCandidates: []models.Interview{}}
	}
	return buckets
}

// Load replaces the board contents with a fresh server listing. Outstanding
// proposals are discarded because the listing is authoritative. Records that
// cannot be classified are left off the board and returned in a *LoadError.
func (b *Board) Load(interviews []models.Interview) error {
	buckets := emptyBuckets()
	var unscreened []models.Interview
	var unknown []*UnknownStageError

	for _, iv := range interviews {
		placement, err := Locate(&iv)
		if err != nil {
			var u *UnknownStageError
			if !errors.As(err, &u) {
				return errors.Wrapf(err, "failed to place interview %s", iv.ID)
			}
			unknown = append(unknown, u)
			continue
		}
		if placement.Stage == StageApplied {
			unscreened = append(unscreened, iv)
			continue
		}
		bucket := buckets[placement.Stage]
		buckets[placement.Stage] = bucket.with(placement.Dropped, append(bucket.list(placement.Dropped), iv))
	}

	for name, bucket := range buckets {
		SortInterviews(bucket.Candidates)
		SortInterviews(bucket.DroppedCandidates)
		buckets[name] = bucket
	}
	SortInterviews(unscreened)

	b.mu.Lock()
	b.buckets = buckets
	b.unscreened = unscreened
	b.pending = make(map[uuid.UUID]*Proposal)
	b.mu.Unlock()

	if len(unknown) > 0 {
		return &LoadError{Unknown: unknown}
	}
	return nil
}

// Snapshot returns the current buckets keyed by stage.
func (b *Board) Snapshot() map[StageName]Bucket {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[StageName]Bucket, len(b.buckets))
	for name, bucket := range b.buckets {
		out[name] = bucket
	}
	return out
}

// Bucket returns one stage's buckets.
func (b *Board) Bucket(stage StageName) Bucket {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buckets[stage]
}

// Unscreened returns applicants that have not reached the board yet.
func (b *Board) Unscreened() []models.Interview {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unscreened
}

// Find returns a candidate's record and current placement.
func (b *Board) Find(id uuid.UUID) (models.Interview, Placement, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	placement, idx, ok := b.locate(id)
	if !ok {
		return models.Interview{}, Placement{}, false
	}
	return b.listAt(placement)[idx], placement, true
}

// Pending returns the unresolved proposal for a candidate, if any.
func (b *Board) Pending(id uuid.UUID) (*Proposal, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[id]
	return p, ok
}

// Propose moves the candidate described by t to its destination immediately,
// installing updated as its new record. Only one proposal per candidate may
// be outstanding.
func (b *Board) Propose(t *Transition, updated models.Interview) (*Proposal, error) {
	if t.NoOp {
		return nil, errors.New("no-op transitions are not proposed")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.pending[t.InterviewID]; ok {
		return nil, &ConcurrentProposalError{CandidateID: t.InterviewID, Pending: p.ID}
	}

	source := b.listAt(t.From)
	idx := indexOf(source, t.InterviewID)
	if idx < 0 {
		return nil, &InvalidTransitionError{Action: t.Action, From: t.From, Reason: "candidate is not in that bucket"}
	}

	p := &Proposal{
		ID:            uuid.New(),
		CandidateID:   t.InterviewID,
		Action:        t.Action,
		Source:        t.From,
		Destination:   t.To,
		SnapshotIndex: idx,
		previous:      source[idx],
	}

	b.setList(t.From, without(source, idx))
	dest := b.listAt(t.To)
	b.setList(t.To, inserted(dest, insertionIndex(dest, &updated), updated))

	b.pending[t.InterviewID] = p
	return p, nil
}

// Resolve settles a proposal returned by Propose. On commit the server's
// confirmed record, when given, replaces the speculative one. On rollback the
// candidate returns to the exact bucket and index it held before Propose.
// A proposal discarded by Load, or already resolved, is refused and leaves
// the board untouched.
func (b *Board) Resolve(proposal *Proposal, outcome Outcome, confirmed *models.Interview) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	candidateID := proposal.CandidateID
	p, ok := b.pending[candidateID]
	if !ok || p.ID != proposal.ID {
		return errors.Newf("proposal %s for candidate %s is no longer outstanding", proposal.ID, candidateID)
	}
	delete(b.pending, candidateID)

	dest := b.listAt(p.Destination)
	idx := indexOf(dest, candidateID)
	if idx < 0 {
		return errors.AssertionFailedf("candidate %s missing from %s", candidateID, p.Destination)
	}

	switch outcome {
	case OutcomeCommit:
		if confirmed != nil {
			rest := without(dest, idx)
			b.setList(p.Destination, inserted(rest, insertionIndex(rest, confirmed), *confirmed))
		}
	case OutcomeRollback:
		b.setList(p.Destination, without(dest, idx))
		source := b.listAt(p.Source)
		at := p.SnapshotIndex
		if at > len(source) {
			at = len(source)
		}
		b.setList(p.Source, inserted(source, at, p.previous))
	default:
		return errors.Newf("unknown outcome %d", outcome)
	}
	return nil
}

func (b *Board) locate(id uuid.UUID) (Placement, int, bool) {
	for _, s := range stageTable {
		bucket := b.buckets[s.Name]
		if i := indexOf(bucket.Candidates, id); i >= 0 {
			return Placement{Stage: s.Name}, i, true
		}
		if i := indexOf(bucket.DroppedCandidates, id); i >= 0 {
			return Placement{Stage: s.Name, Dropped: true}, i, true
		}
	}
	if i := indexOf(b.unscreened, id); i >= 0 {
		return Placement{Stage: StageApplied}, i, true
	}
	return Placement{}, -1, false
}

func (b *Board) listAt(p Placement) []models.Interview {
	if p.Stage == StageApplied {
		return b.unscreened
	}
	return b.buckets[p.Stage].list(p.Dropped)
}

func (b *Board) setList(p Placement, list []models.Interview) {
	if p.Stage == StageApplied {
		b.unscreened = list
		return
	}
	b.buckets[p.Stage] = b.buckets[p.Stage].with(p.Dropped, list)
}

func indexOf(list []models.Interview, id uuid.UUID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func without(list []models.Interview, idx int) []models.Interview {
	out := make([]models.Interview, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

func inserted(list []models.Interview, idx int, iv models.Interview) []models.Interview {
	out := make([]models.Interview, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, iv)
	return append(out, list[idx:]...)
}
