package app

import (
	"math/rand"
	"sort"

	"multab/internal/domain"
)

// SelectCells picks up to k cells to quiz, worst scores first.
//
// The whole grid is shuffled before the stable sort so that cells with equal
// scores come out in random order; cutting the work short for small k would
// change which of the tied cells are chosen.
func SelectCells(rec *domain.UserRecord, k int, rnd *rand.Rand) []domain.Cell {
	all := rec.Cells()
	rnd.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score.Less(all[j].Score)
	})

	if k < 0 {
		k = 0
	}
	if k > len(all) {
		k = len(all)
	}
	cells := make([]domain.Cell, k)
	for i := range cells {
		cells[i] = all[i].Cell
	}
	return cells
}
