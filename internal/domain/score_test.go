package domain

import (
	"math"
	"testing"
)

func TestPercentageFormula(t *testing.T) {
	for tries := uint16(1); tries <= 40; tries++ {
		for correct := uint16(0); correct <= tries; correct++ {
			p, ok := NewScore(tries, correct).Percentage()
			if !ok {
				t.Fatalf("expected percentage for (%d,%d)", tries, correct)
			}
			want := uint16(uint32(correct) * MaxPercent / uint32(tries))
			if p != want {
				t.Fatalf("(%d,%d): expected %d, got %d", tries, correct, want, p)
			}
		}
	}
}

func TestPercentageDoesNotOverflow(t *testing.T) {
	p, ok := NewScore(math.MaxUint16, math.MaxUint16).Percentage()
	if !ok || p != MaxPercent {
		t.Fatalf("expected 10000, got %d (ok=%v)", p, ok)
	}
	p, _ = NewScore(300, 200).Percentage()
	if p != 6666 {
		t.Fatalf("expected 6666, got %d", p)
	}
}

func TestUnattemptedScore(t *testing.T) {
	var s Score
	if _, ok := s.Percentage(); ok {
		t.Fatalf("expected no percentage for a fresh score")
	}
	for _, other := range []Score{NewScore(1, 0), NewScore(1, 1), NewScore(50, 3)} {
		if !s.Less(other) {
			t.Fatalf("expected unattempted < %+v", other)
		}
		if other.Less(s) {
			t.Fatalf("expected %+v not < unattempted", other)
		}
	}
	if s.Compare(Score{}) != 0 {
		t.Fatalf("expected two unattempted scores to compare equal")
	}
}

func TestCompareTieBreaksOnTries(t *testing.T) {
	few := NewScore(2, 1)
	many := NewScore(10, 5)
	if !few.Less(many) {
		t.Fatalf("expected fewer tries to rank worse at equal percentage")
	}
	if NewScore(4, 1).Compare(NewScore(4, 3)) != -1 {
		t.Fatalf("expected lower percentage first")
	}
}

func TestUpdateIsMonotonic(t *testing.T) {
	var s Score
	answers := []bool{true, false, true, true, false, false, true}
	for i, correct := range answers {
		before := s
		s.Update(correct)
		if s.Tries != before.Tries+1 {
			t.Fatalf("step %d: tries %d -> %d", i, before.Tries, s.Tries)
		}
		diff := s.Correct - before.Correct
		if (correct && diff != 1) || (!correct && diff != 0) {
			t.Fatalf("step %d: correct %d -> %d", i, before.Correct, s.Correct)
		}
		p, ok := s.Percentage()
		if !ok || p != uint16(uint32(s.Correct)*MaxPercent/uint32(s.Tries)) {
			t.Fatalf("step %d: inconsistent percentage %d", i, p)
		}
	}
}

func TestUpdateSaturates(t *testing.T) {
	s := NewScore(math.MaxUint16, 7)
	s.Update(true)
	if s.Tries != math.MaxUint16 || s.Correct != 7 {
		t.Fatalf("expected saturated score unchanged, got %+v", s)
	}
}

func TestColor(t *testing.T) {
	cases := []struct {
		score Score
		want  CellColor
	}{
		{Score{}, White},
		{NewScore(1, 0), Red},
		{NewScore(10, 1), Red},
		{NewScore(10, 2), Orange},
		{NewScore(10, 4), Orange},
		{NewScore(10, 5), Yellow},
		{NewScore(10, 6), Yellow},
		{NewScore(10, 7), Green},
		{NewScore(1, 1), Green},
	}
	for _, tc := range cases {
		if got := tc.score.Color(); got != tc.want {
			t.Fatalf("%+v: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestScoreString(t *testing.T) {
	got := NewScore(3, 2).String()
	want := "correct: 2\ntotal tries: 3\npercent correct: 66.66%"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if (Score{}).String() != "correct: 0\ntotal tries: 0" {
		t.Fatalf("unexpected text for fresh score: %q", Score{}.String())
	}
}
