package memory

import (
	"context"
	"fmt"
	"sync"

	"multab/internal/domain"
)

// Store is an in-memory implementation of app.Store. Values are copied in
// and out so callers never share state with it.
type Store struct {
	mu    sync.RWMutex
	users map[string]domain.UserRecord
	dir   *domain.UserDirectory
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.UserRecord),
	}
}

func (s *Store) LoadUser(_ context.Context, name string) (domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[name]
	if !ok {
		return domain.UserRecord{}, fmt.Errorf("%w: %q", domain.ErrUserNotFound, name)
	}
	return rec, nil
}

func (s *Store) SaveUser(_ context.Context, rec domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[rec.Name] = rec
	return nil
}

func (s *Store) RenameUser(_ context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[from]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUserNotFound, from)
	}
	if _, taken := s.users[to]; taken {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateUser, to)
	}
	delete(s.users, from)
	rec.Name = to
	s.users[to] = rec
	return nil
}

func (s *Store) LoadDirectory(context.Context) (domain.UserDirectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dir == nil {
		return domain.UserDirectory{}, domain.ErrDirectoryNotFound
	}
	return s.dir.Clone(), nil
}

func (s *Store) SaveDirectory(_ context.Context, dir domain.UserDirectory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := dir.Clone()
	s.dir = &d
	return nil
}

// Users lists stored record names; order is unspecified.
func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.users))
	for name := range s.users {
		out = append(out, name)
	}
	return out
}
