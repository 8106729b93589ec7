package app

import (
	"math/rand"
	"testing"

	"multab/internal/domain"
)

func TestSelectCellsFullGridHasNoRepeats(t *testing.T) {
	rec := domain.NewUserRecord("Alice")
	cells := SelectCells(&rec, 1000, rand.New(rand.NewSource(1)))

	if len(cells) != domain.GridSize*domain.GridSize {
		t.Fatalf("expected full grid, got %d cells", len(cells))
	}
	seen := make(map[domain.Cell]bool, len(cells))
	for _, c := range cells {
		if !c.Valid() || seen[c] {
			t.Fatalf("unexpected cell %v", c)
		}
		seen[c] = true
	}
}

func TestSelectCellsWorstFirst(t *testing.T) {
	rec := domain.NewUserRecord("Alice")
	for _, sc := range rec.Cells() {
		*rec.Score(sc.Cell) = domain.NewScore(4, 4)
	}
	weak := []domain.Cell{{Row: 6, Col: 7}, {Row: 8, Col: 3}, {Row: 2, Col: 9}}
	*rec.Score(weak[0]) = domain.NewScore(4, 0)
	*rec.Score(weak[1]) = domain.NewScore(4, 1)
	*rec.Score(weak[2]) = domain.Score{}

	cells := SelectCells(&rec, 3, rand.New(rand.NewSource(7)))
	want := []domain.Cell{weak[2], weak[0], weak[1]}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cells)
		}
	}
}

func TestSelectCellsSortedAscending(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	rec := domain.NewUserRecord("Alice")
	for _, sc := range rec.Cells() {
		tries := uint16(rnd.Intn(6))
		correct := uint16(0)
		if tries > 0 {
			correct = uint16(rnd.Intn(int(tries) + 1))
		}
		*rec.Score(sc.Cell) = domain.NewScore(tries, correct)
	}

	cells := SelectCells(&rec, 100, rnd)
	for i := 1; i < len(cells); i++ {
		prev, cur := *rec.Score(cells[i-1]), *rec.Score(cells[i])
		if cur.Less(prev) {
			t.Fatalf("cell %v (%+v) ranked after better cell %v (%+v)", cells[i], cur, cells[i-1], prev)
		}
	}
}

func TestSelectCellsDeterministicForSeed(t *testing.T) {
	rec := domain.NewUserRecord("Alice")
	a := SelectCells(&rec, 10, rand.New(rand.NewSource(42)))
	b := SelectCells(&rec, 10, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected same selection for same seed: %v vs %v", a, b)
		}
	}
}

func TestSelectCellsRandomisesTies(t *testing.T) {
	rec := domain.NewUserRecord("Alice")
	rnd := rand.New(rand.NewSource(5))
	first := make(map[domain.Cell]bool)
	for i := 0; i < 50; i++ {
		first[SelectCells(&rec, 1, rnd)[0]] = true
	}
	if len(first) < 10 {
		t.Fatalf("expected ties among fresh cells to be shuffled, saw only %d distinct first cells", len(first))
	}
}

func TestSelectCellsClampsSize(t *testing.T) {
	rec := domain.NewUserRecord("Alice")
	if got := SelectCells(&rec, -1, rand.New(rand.NewSource(1))); len(got) != 0 {
		t.Fatalf("expected no cells, got %d", len(got))
	}
}

func TestSelectCellsPrefersUnattemptedOverMastered(t *testing.T) {
	rec := domain.NewUserRecord("Alice")
	mastered := domain.Cell{Row: 0, Col: 0}
	*rec.Score(mastered) = domain.NewScore(3, 3)

	rnd := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		for _, c := range SelectCells(&rec, BatchSize, rnd) {
			if c == mastered {
				t.Fatalf("trial %d: mastered cell selected while untried cells remain", trial)
			}
		}
	}
}
