package term

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"multab/internal/app"
	"multab/internal/domain"
)

const reset = "\x1b[0m"

var palette = map[domain.CellColor]string{
	domain.White:  "\x1b[37m",
	domain.Red:    "\x1b[31m",
	domain.Orange: "\x1b[38;5;208m",
	domain.Yellow: "\x1b[33m",
	domain.Green:  "\x1b[32m",
}

// Renderer writes the trainer state as plain text, optionally with ANSI colors.
type Renderer struct {
	Color bool
}

func (r Renderer) paint(c domain.CellColor, s string) string {
	if !r.Color {
		return s
	}
	return palette[c] + s + reset
}

// Grid draws the table. Cells hidden by the round overlay are blank and cells
// of the current batch are bracketed without their product.
func (r Renderer) Grid(w io.Writer, rec *domain.UserRecord, view app.RoundView) {
	var b strings.Builder
	b.WriteString("    ")
	for c := 1; c <= domain.GridSize; c++ {
		fmt.Fprintf(&b, "%5d", c)
	}
	b.WriteByte('\n')
	for row := 0; row < domain.GridSize; row++ {
		fmt.Fprintf(&b, "%3d ", row+1)
		for col := 0; col < domain.GridSize; col++ {
			cell := domain.Cell{Row: row, Col: col}
			text := ""
			switch {
			case view.InBatch(cell) && view.Overlay.Hidden(cell):
				text = "[ ]"
			case view.InBatch(cell):
				text = "[" + strconv.Itoa(cell.Product()) + "]"
			case view.Overlay.Hidden(cell):
			default:
				text = strconv.Itoa(cell.Product())
			}
			b.WriteString(r.paint(rec.Scores[row][col].Color(), fmt.Sprintf("%5s", text)))
		}
		b.WriteByte('\n')
	}
	io.WriteString(w, b.String())
}

// Batch lists the questions of the current set, numbered from 1.
func (r Renderer) Batch(w io.Writer, view app.RoundView) {
	for i, q := range view.Questions {
		if q.Cell == nil {
			continue
		}
		a, b := q.Cell.Operands()
		entered := "_"
		if q.Entered != nil {
			entered = strconv.FormatUint(uint64(*q.Entered), 10)
		}
		line := fmt.Sprintf("%2d) %2d x %2d = %s", i+1, a, b, entered)
		if view.ShowResults {
			switch q.Check {
			case domain.Correct:
				line += "  " + r.paint(domain.Green, "correct")
			case domain.Incorrect:
				line += "  " + r.paint(domain.Red, fmt.Sprintf("wrong, %d", q.Cell.Product()))
			}
		}
		fmt.Fprintln(w, line)
	}
	switch {
	case view.ShowResults:
		fmt.Fprintln(w, "type 'continue' for the next set")
	case view.AllAnswered:
		fmt.Fprintln(w, "all answered: 'check' to see results or 'continue'")
	}
}

// Summary prints the overview line of a record.
func (r Renderer) Summary(w io.Writer, rec *domain.UserRecord) {
	fmt.Fprintln(w, SummaryLine(domain.Summarize(&rec.Scores)))
}

// SummaryLine formats aggregate statistics.
func SummaryLine(s domain.Summary) string {
	acc := "-"
	if p, ok := s.Accuracy(); ok {
		acc = domain.FormatPercent(p) + "%"
	}
	return fmt.Sprintf("attempted %d/%d, mastered %d, tries %d, accuracy %s",
		s.Attempted, domain.GridSize*domain.GridSize, s.Mastered, s.Tries, acc)
}

// Cell prints the detail of one score, as shown when hovering it.
func (r Renderer) Cell(w io.Writer, rec *domain.UserRecord, c domain.Cell) {
	s := *rec.Score(c)
	fmt.Fprintf(w, "%s = %d (%s)\n%s\n", c, c.Product(), r.paint(s.Color(), s.Color().String()), s)
}

// Users lists profiles, marking the current one.
func (r Renderer) Users(w io.Writer, dir domain.UserDirectory) {
	for _, name := range dir.AllUsers {
		mark := " "
		if name == dir.CurrentUser {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\n", mark, name)
	}
}
