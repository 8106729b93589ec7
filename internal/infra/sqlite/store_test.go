package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"multab/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "multab.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserScoresPersist(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.LoadUser(ctx, "Alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	rec := domain.NewUserRecord("Alice")
	rec.Score(domain.Cell{Row: 6, Col: 7}).Update(true)
	rec.Score(domain.Cell{Row: 6, Col: 7}).Update(false)
	rec.Score(domain.Cell{Row: 9, Col: 9}).Update(true)
	if err := s.SaveUser(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec.Score(domain.Cell{Row: 9, Col: 9}).Update(true)
	if err := s.SaveUser(ctx, rec); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := s.LoadUser(ctx, "Alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Scores != rec.Scores {
		t.Fatalf("loaded scores differ: %+v vs %+v", got.Scores[6][7], rec.Scores[6][7])
	}
}

func TestFreshUserHasEmptyGrid(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.SaveUser(ctx, domain.NewUserRecord("Bob")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadUser(ctx, "Bob")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sum := domain.Summarize(&got.Scores); sum.Attempted != 0 {
		t.Fatalf("expected empty grid, got %+v", sum)
	}
}

func TestRenameMovesScores(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	rec := domain.NewUserRecord("Alice")
	rec.Score(domain.Cell{Row: 1, Col: 2}).Update(true)
	_ = s.SaveUser(ctx, rec)
	_ = s.SaveUser(ctx, domain.NewUserRecord("Bob"))

	if err := s.RenameUser(ctx, "Alice", "Bob"); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if err := s.RenameUser(ctx, "Ghost", "Spirit"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.RenameUser(ctx, "Alice", "Alicia"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := s.LoadUser(ctx, "Alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected old name gone, got %v", err)
	}
	got, err := s.LoadUser(ctx, "Alicia")
	if err != nil || got.Scores[1][2].Correct != 1 {
		t.Fatalf("expected scores under new name, got %+v %v", got.Scores[1][2], err)
	}
}

func TestDirectoryPersists(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.LoadDirectory(ctx); !errors.Is(err, domain.ErrDirectoryNotFound) {
		t.Fatalf("expected directory not found, got %v", err)
	}
	dir := domain.UserDirectory{CurrentUser: "Carol", AllUsers: []string{"User", "Carol", "Bob"}}
	if err := s.SaveDirectory(ctx, dir); err != nil {
		t.Fatalf("save: %v", err)
	}
	dir.AllUsers = []string{"User", "Carol"}
	dir.CurrentUser = "User"
	if err := s.SaveDirectory(ctx, dir); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := s.LoadDirectory(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentUser != "User" || len(got.AllUsers) != 2 || got.AllUsers[1] != "Carol" {
		t.Fatalf("unexpected directory %+v", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "multab.db")
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = s.SaveDirectory(ctx, domain.DefaultDirectory())
	_ = s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.LoadDirectory(ctx); err != nil {
		t.Fatalf("expected directory after reopen, got %v", err)
	}

	group, err := Migrate(ctx, s.db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !group.IsZero() {
		t.Fatalf("expected nothing left to migrate, got %s", group)
	}
}
