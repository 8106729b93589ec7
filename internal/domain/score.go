package domain

import (
	"fmt"
	"math"
)

// MaxPercent is 100% in the fixed-point percentage scale (two decimal digits).
const MaxPercent = 10_000

// Score is a single cell's accuracy counter.
type Score struct {
	Tries   uint16
	Correct uint16
}

// NewScore builds a score, clamping correct to tries.
func NewScore(tries, correct uint16) Score {
	if correct > tries {
		correct = tries
	}
	return Score{Tries: tries, Correct: correct}
}

// Percentage returns correct/tries scaled by MaxPercent, truncated.
// ok is false when the cell was never attempted.
func (s Score) Percentage() (p uint16, ok bool) {
	if s.Tries == 0 {
		return 0, false
	}
	return uint16(uint32(s.Correct) * MaxPercent / uint32(s.Tries)), true
}

// Update records one answer. The counters saturate at the persisted width.
func (s *Score) Update(isCorrect bool) {
	if s.Tries == math.MaxUint16 {
		return
	}
	s.Tries++
	if isCorrect {
		s.Correct++
	}
}

// Compare orders scores worst first: never attempted, then by percentage,
// then by fewer tries.
func (s Score) Compare(other Score) int {
	p1, ok1 := s.Percentage()
	p2, ok2 := other.Percentage()
	switch {
	case !ok1 && !ok2:
		return 0
	case !ok1:
		return -1
	case !ok2:
		return 1
	case p1 != p2:
		return cmpUint16(p1, p2)
	default:
		return cmpUint16(s.Tries, other.Tries)
	}
}

// Less reports whether s ranks worse than other.
func (s Score) Less(other Score) bool {
	return s.Compare(other) < 0
}

// Color classifies the score for display.
func (s Score) Color() CellColor {
	p, ok := s.Percentage()
	switch {
	case !ok:
		return White
	case p < MaxPercent/10*2:
		return Red
	case p < MaxPercent/10*5:
		return Orange
	case p < MaxPercent/10*7:
		return Yellow
	default:
		return Green
	}
}

func (s Score) String() string {
	out := fmt.Sprintf("correct: %d\ntotal tries: %d", s.Correct, s.Tries)
	if p, ok := s.Percentage(); ok {
		out += fmt.Sprintf("\npercent correct: %s%%", FormatPercent(p))
	}
	return out
}

// FormatPercent renders a fixed-point percentage, e.g. 6666 -> "66.66".
func FormatPercent(p uint16) string {
	whole, frac := p/100, p%100
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}

func cmpUint16(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CellColor is the mastery bucket of a cell.
type CellColor int

const (
	White CellColor = iota
	Red
	Orange
	Yellow
	Green
)

func (c CellColor) String() string {
	switch c {
	case Red:
		return "red"
	case Orange:
		return "orange"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	default:
		return "white"
	}
}
