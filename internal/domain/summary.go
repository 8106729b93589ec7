package domain

// Summary aggregates a user's grid for overviews.
type Summary struct {
	Attempted int
	Mastered  int
	Tries     int
	Correct   int
	ByColor   map[CellColor]int
}

// Summarize walks the grid once.
func Summarize(g *Grid) Summary {
	s := Summary{ByColor: make(map[CellColor]int, 5)}
	for r := range g {
		for c := range g[r] {
			score := g[r][c]
			s.ByColor[score.Color()]++
			if score.Tries == 0 {
				continue
			}
			s.Attempted++
			s.Tries += int(score.Tries)
			s.Correct += int(score.Correct)
			if p, _ := score.Percentage(); p == MaxPercent {
				s.Mastered++
			}
		}
	}
	return s
}

// Accuracy is overall correct/tries in the fixed-point scale; ok is false with no tries.
func (s Summary) Accuracy() (uint16, bool) {
	if s.Tries == 0 {
		return 0, false
	}
	return uint16(int64(s.Correct) * MaxPercent / int64(s.Tries)), true
}

// Summary aggregates the record's grid.
func (u *UserRecord) Summary() Summary {
	return Summarize(&u.Scores)
}
