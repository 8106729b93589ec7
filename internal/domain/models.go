package domain

import (
	"fmt"
	"strings"
)

// GridSize is the side of the multiplication table.
const GridSize = 10

// DirectoryKey is the storage key of the user directory; no profile may use it.
const DirectoryKey = "UserList"

// Cell addresses a table cell with 0-based indices.
type Cell struct {
	Row int
	Col int
}

// Operands returns the 1-based factors shown to the user.
func (c Cell) Operands() (int, int) {
	return c.Row + 1, c.Col + 1
}

// Product is the expected answer for the cell.
func (c Cell) Product() int {
	a, b := c.Operands()
	return a * b
}

func (c Cell) String() string {
	a, b := c.Operands()
	return fmt.Sprintf("%dx%d", a, b)
}

// Valid reports whether the cell lies inside the grid.
func (c Cell) Valid() bool {
	return c.Row >= 0 && c.Row < GridSize && c.Col >= 0 && c.Col < GridSize
}

// Grid holds one score per cell.
type Grid [GridSize][GridSize]Score

// ScoredCell pairs a cell with a copy of its score.
type ScoredCell struct {
	Cell  Cell
	Score Score
}

// UserRecord is a named profile and its score grid.
type UserRecord struct {
	Name   string
	Scores Grid
}

// NewUserRecord returns a record with every cell unattempted.
func NewUserRecord(name string) UserRecord {
	return UserRecord{Name: name}
}

// Score returns the live score of a cell for in-place updates.
func (u *UserRecord) Score(c Cell) *Score {
	return &u.Scores[c.Row][c.Col]
}

// Cells lists every cell in row-major order.
func (u *UserRecord) Cells() []ScoredCell {
	out := make([]ScoredCell, 0, GridSize*GridSize)
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			out = append(out, ScoredCell{Cell: Cell{Row: r, Col: c}, Score: u.Scores[r][c]})
		}
	}
	return out
}

// ValidateName trims a profile name and checks it can serve as a storage key.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\:`+"\x00"):
		return "", fmt.Errorf("%w: %q contains a path character", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return "", fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.EqualFold(name, DirectoryKey):
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	return name, nil
}
