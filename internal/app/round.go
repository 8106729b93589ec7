package app

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"multab/internal/domain"
)

// BatchSize is the number of questions presented at once.
const BatchSize = domain.GridSize

// Phase is the state of a Round.
type Phase int

const (
	Idle Phase = iota
	InProgress
)

func (p Phase) String() string {
	if p == InProgress {
		return "in progress"
	}
	return "idle"
}

// Round drives one quiz: a worst-first queue of cells consumed BatchSize at a time.
// It is owned by a single goroutine; see App.
type Round struct {
	rnd   *rand.Rand
	newID func() string

	id          string
	phase       Phase
	remaining   []domain.Cell
	questions   [BatchSize]domain.Question
	overlay     domain.Overlay
	showResults bool
}

// NewRound returns an idle round drawing randomness from rnd.
func NewRound(rnd *rand.Rand) *Round {
	return &Round{rnd: rnd, newID: uuid.NewString}
}

// Start queues the size worst cells of rec and presents the first batch.
// A size below BatchSize yields no full batch and the round ends immediately.
func (r *Round) Start(rec *domain.UserRecord, size int) error {
	if r.phase == InProgress {
		return domain.ErrRoundInProgress
	}
	r.id = r.newID()
	r.phase = InProgress
	r.remaining = SelectCells(rec, size, r.rnd)
	r.overlay.HideAll()
	r.showResults = false
	if !r.nextBatch() {
		r.finish()
	}
	return nil
}

// Answer sets the value of question i in the current batch.
func (r *Round) Answer(i int, v *uint32) error {
	if r.phase != InProgress {
		return domain.ErrNoRound
	}
	if r.showResults {
		return domain.ErrAnswersLocked
	}
	if i < 0 || i >= len(r.questions) {
		return fmt.Errorf("%w: %d", domain.ErrQuestionIndex, i)
	}
	return r.questions[i].SetAnswer(v)
}

// Check reveals correctness of the current batch without folding it.
func (r *Round) Check() error {
	if r.phase != InProgress {
		return domain.ErrNoRound
	}
	if !r.AllAnswered() {
		return domain.ErrBatchIncomplete
	}
	if r.showResults {
		return domain.ErrAnswersLocked
	}
	r.showResults = true
	return nil
}

// Continue folds the answered batch into rec and presents the next one.
// It panics when no round is running: callers must only offer it mid-round.
func (r *Round) Continue(rec *domain.UserRecord) error {
	if r.phase != InProgress {
		panic("app: continue called with no round in progress")
	}
	if rec == nil {
		panic("app: continue called without a user record")
	}
	if !r.AllAnswered() {
		return domain.ErrBatchIncomplete
	}
	for _, q := range r.questions {
		rec.Score(*q.Cell).Update(q.Check == domain.Correct)
		r.overlay.Reveal(*q.Cell)
	}
	r.showResults = false
	if !r.nextBatch() {
		r.finish()
	}
	return nil
}

// nextBatch dequeues BatchSize cells; a short remainder is dropped.
func (r *Round) nextBatch() bool {
	if len(r.remaining) < BatchSize {
		r.remaining = nil
		return false
	}
	for i, c := range r.remaining[:BatchSize] {
		r.questions[i] = domain.NewQuestion(c)
	}
	r.remaining = r.remaining[BatchSize:]
	return true
}

func (r *Round) finish() {
	r.phase = Idle
	r.remaining = nil
	r.questions = [BatchSize]domain.Question{}
	r.overlay.Clear()
	r.showResults = false
}

// AllAnswered reports whether every question of the batch has been evaluated.
func (r *Round) AllAnswered() bool {
	for _, q := range r.questions {
		if !q.Answered() {
			return false
		}
	}
	return true
}

func (r *Round) Phase() Phase            { return r.phase }
func (r *Round) ID() string              { return r.id }
func (r *Round) ShowResults() bool       { return r.showResults }
func (r *Round) Overlay() domain.Overlay { return r.overlay }
func (r *Round) Remaining() int          { return len(r.remaining) }

// Questions returns deep copies of the current batch.
func (r *Round) Questions() []domain.Question {
	out := make([]domain.Question, len(r.questions))
	for i, q := range r.questions {
		out[i] = q.Clone()
	}
	return out
}

