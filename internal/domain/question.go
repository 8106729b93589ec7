package domain

import "fmt"

// MaxAnswer bounds what can be typed into an answer.
const MaxAnswer = 999

// CheckState is the evaluation of a question's entered value.
type CheckState int

const (
	Unchecked CheckState = iota
	Correct
	Incorrect
)

func (s CheckState) String() string {
	switch s {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unchecked"
	}
}

// Question is one equation of a batch.
type Question struct {
	Cell    *Cell
	Entered *uint32
	Check   CheckState
}

// NewQuestion returns an unanswered question for c.
func NewQuestion(c Cell) Question {
	return Question{Cell: &c}
}

// SetAnswer stores v and evaluates it; nil clears the answer.
// Out-of-range values are rejected and the previous answer is kept.
func (q *Question) SetAnswer(v *uint32) error {
	if q.Cell == nil {
		return fmt.Errorf("%w: question has no operands", ErrQuestionIndex)
	}
	if v == nil {
		q.Entered = nil
		q.Check = Unchecked
		return nil
	}
	if *v > MaxAnswer {
		return fmt.Errorf("%w: %d > %d", ErrAnswerOutOfRange, *v, MaxAnswer)
	}
	val := *v
	q.Entered = &val
	if int(val) == q.Cell.Product() {
		q.Check = Correct
	} else {
		q.Check = Incorrect
	}
	return nil
}

// Clone returns a copy that shares no memory with q.
func (q Question) Clone() Question {
	if q.Cell != nil {
		c := *q.Cell
		q.Cell = &c
	}
	if q.Entered != nil {
		v := *q.Entered
		q.Entered = &v
	}
	return q
}

// Answered reports whether the question has been evaluated.
func (q Question) Answered() bool {
	return q.Check != Unchecked
}

// Overlay hides cells whose value must not be shown during a round.
type Overlay struct {
	active bool
	hidden [GridSize][GridSize]bool
}

// HideAll activates the overlay with every cell hidden.
func (o *Overlay) HideAll() {
	o.active = true
	for r := range o.hidden {
		for c := range o.hidden[r] {
			o.hidden[r][c] = true
		}
	}
}

// Reveal makes a single cell visible again.
func (o *Overlay) Reveal(c Cell) {
	o.hidden[c.Row][c.Col] = false
}

// Clear deactivates the overlay.
func (o *Overlay) Clear() {
	*o = Overlay{}
}

// Active reports whether a round is hiding cells.
func (o Overlay) Active() bool {
	return o.active
}

// Hidden reports whether c must be drawn blank.
func (o Overlay) Hidden(c Cell) bool {
	return o.active && o.hidden[c.Row][c.Col]
}
