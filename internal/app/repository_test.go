package app_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"multab/internal/app"
	"multab/internal/domain"
	"multab/internal/infra/memory"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type countingStore struct {
	app.Store
	mu        sync.Mutex
	loads     int
	saves     int
	loadErr   error
	failSaves bool
}

func (s *countingStore) LoadUser(ctx context.Context, name string) (domain.UserRecord, error) {
	s.mu.Lock()
	s.loads++
	err := s.loadErr
	s.mu.Unlock()
	if err != nil {
		return domain.UserRecord{}, err
	}
	return s.Store.LoadUser(ctx, name)
}

func (s *countingStore) SaveUser(ctx context.Context, rec domain.UserRecord) error {
	s.mu.Lock()
	s.saves++
	fail := s.failSaves
	s.mu.Unlock()
	if fail {
		return errors.New("read-only filesystem")
	}
	return s.Store.SaveUser(ctx, rec)
}

func TestLoadUserCreatesMissingRecord(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	repo := app.NewRepository(mem, quietLogger())

	rec := repo.LoadUser(ctx, "Alice")
	if rec.Name != "Alice" || domain.Summarize(&rec.Scores).Attempted != 0 {
		t.Fatalf("expected fresh record, got %+v", rec)
	}
	if _, err := mem.LoadUser(ctx, "Alice"); err != nil {
		t.Fatalf("expected fresh record persisted, got %v", err)
	}
}

func TestLoadUserReplacesUnreadableRecord(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	stored := domain.NewUserRecord("Alice")
	stored.Score(domain.Cell{}).Update(true)
	_ = mem.SaveUser(ctx, stored)

	store := &countingStore{Store: mem, loadErr: errors.New("yaml: bad grid")}
	rec := app.NewRepository(store, quietLogger()).LoadUser(ctx, "Alice")
	if rec.Scores[0][0].Tries != 0 {
		t.Fatalf("expected zeroed record, got %+v", rec.Scores[0][0])
	}
	if store.saves != 1 {
		t.Fatalf("expected the fresh record to be written once, got %d", store.saves)
	}
}

func TestLoadUserIgnoresFailedFallbackWrite(t *testing.T) {
	store := &countingStore{Store: memory.NewStore(), failSaves: true}
	rec := app.NewRepository(store, quietLogger()).LoadUser(context.Background(), "Alice")
	if rec.Name != "Alice" {
		t.Fatalf("expected fresh record despite write failure, got %+v", rec)
	}
}

func TestLoadDirectoryDefaults(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	repo := app.NewRepository(mem, quietLogger())

	dir := repo.LoadDirectory(ctx)
	if dir.CurrentUser != domain.DefaultUserName || len(dir.AllUsers) != 1 {
		t.Fatalf("expected default directory, got %+v", dir)
	}
	if _, err := mem.LoadDirectory(ctx); err != nil {
		t.Fatalf("expected default directory persisted, got %v", err)
	}
}

func TestRenameUserRefusesExistingTarget(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	_ = mem.SaveUser(ctx, domain.NewUserRecord("Alice"))
	_ = mem.SaveUser(ctx, domain.NewUserRecord("Bob"))
	repo := app.NewRepository(mem, quietLogger())

	if err := repo.RenameUser(ctx, "Alice", "Bob"); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if err := repo.RenameUser(ctx, "Alice", "Alicia"); err != nil {
		t.Fatalf("rename: %v", err)
	}
}

func TestSaveUserWrapsErrors(t *testing.T) {
	store := &countingStore{Store: memory.NewStore(), failSaves: true}
	repo := app.NewRepository(store, quietLogger())
	err := repo.SaveUser(context.Background(), domain.NewUserRecord("Alice"))
	if err == nil || err.Error() != `save user "Alice": read-only filesystem` {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestProfilesLoadsEveryName(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	bob := domain.NewUserRecord("Bob")
	bob.Score(domain.Cell{Row: 1, Col: 1}).Update(true)
	_ = mem.SaveUser(ctx, bob)
	repo := app.NewRepository(mem, quietLogger())

	recs, err := repo.Profiles(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if recs[0].Name != "Alice" || recs[1].Scores[1][1].Correct != 1 {
		t.Fatalf("unexpected profiles %+v", recs)
	}
	if len(mem.Users()) != 1 {
		t.Fatalf("expected profiles to be read-only, store has %v", mem.Users())
	}

	store := &countingStore{Store: mem, loadErr: errors.New("corrupt")}
	if _, err := app.NewRepository(store, quietLogger()).Profiles(ctx, []string{"Bob"}); err == nil {
		t.Fatalf("expected unreadable profile to fail")
	}
}
