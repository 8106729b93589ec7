package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"multab/internal/domain"
)

// UserStore persists user records keyed by name. LoadUser returns
// domain.ErrUserNotFound when nothing is stored under the name.
type UserStore interface {
	LoadUser(ctx context.Context, name string) (domain.UserRecord, error)
	SaveUser(ctx context.Context, rec domain.UserRecord) error
	RenameUser(ctx context.Context, from, to string) error
}

// DirectoryStore persists the user directory.
type DirectoryStore interface {
	LoadDirectory(ctx context.Context) (domain.UserDirectory, error)
	SaveDirectory(ctx context.Context, dir domain.UserDirectory) error
}

// Store is implemented by the file, sqlite and memory adapters.
type Store interface {
	UserStore
	DirectoryStore
}

// Repository applies the load fallbacks on top of a Store.
type Repository struct {
	store Store
	log   logrus.FieldLogger
	sf    singleflight.Group
}

func NewRepository(store Store, log logrus.FieldLogger) *Repository {
	return &Repository{store: store, log: log}
}

// LoadUser never fails: a missing or unreadable record is replaced by a fresh
// one, which is persisted on a best-effort basis.
func (r *Repository) LoadUser(ctx context.Context, name string) domain.UserRecord {
	v, _, _ := r.sf.Do("user:"+name, func() (interface{}, error) {
		log := r.log.WithField("user", name)
		rec, err := r.store.LoadUser(ctx, name)
		if err == nil {
			rec.Name = name
			return rec, nil
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Info("no stored record, creating a fresh one")
		} else {
			log.WithError(err).Warn("stored record unreadable, starting fresh")
		}
		rec = domain.NewUserRecord(name)
		if err := r.store.SaveUser(ctx, rec); err != nil {
			log.WithError(err).Warn("could not persist fresh record")
		}
		return rec, nil
	})
	return v.(domain.UserRecord)
}

// LoadDirectory never fails: without a readable directory the default one is
// returned and persisted.
func (r *Repository) LoadDirectory(ctx context.Context) domain.UserDirectory {
	v, _, _ := r.sf.Do("directory", func() (interface{}, error) {
		dir, err := r.store.LoadDirectory(ctx)
		if err == nil {
			dir.Normalize()
			return dir, nil
		}
		if !errors.Is(err, domain.ErrDirectoryNotFound) {
			r.log.WithError(err).Warn("user directory unreadable, using default")
		}
		dir = domain.DefaultDirectory()
		if err := r.store.SaveDirectory(ctx, dir); err != nil {
			r.log.WithError(err).Warn("could not persist default directory")
		}
		return dir, nil
	})
	return v.(domain.UserDirectory).Clone()
}

// CreateUser writes a fresh record under name.
func (r *Repository) CreateUser(ctx context.Context, name string) (domain.UserRecord, error) {
	rec := domain.NewUserRecord(name)
	if err := r.store.SaveUser(ctx, rec); err != nil {
		return domain.UserRecord{}, fmt.Errorf("create user %q: %w", name, err)
	}
	r.log.WithField("user", name).Info("user created")
	return rec, nil
}

// RenameUser moves the stored record; an existing target is never overwritten.
func (r *Repository) RenameUser(ctx context.Context, from, to string) error {
	if _, err := r.store.LoadUser(ctx, to); err == nil {
		return fmt.Errorf("rename %q to %q: %w", from, to, domain.ErrDuplicateUser)
	}
	if err := r.store.RenameUser(ctx, from, to); err != nil {
		return fmt.Errorf("rename %q to %q: %w", from, to, err)
	}
	r.log.WithFields(logrus.Fields{"from": from, "to": to}).Info("user renamed")
	return nil
}

func (r *Repository) SaveUser(ctx context.Context, rec domain.UserRecord) error {
	if err := r.store.SaveUser(ctx, rec); err != nil {
		return fmt.Errorf("save user %q: %w", rec.Name, err)
	}
	return nil
}

func (r *Repository) SaveDirectory(ctx context.Context, dir domain.UserDirectory) error {
	if err := r.store.SaveDirectory(ctx, dir); err != nil {
		return fmt.Errorf("save user directory: %w", err)
	}
	return nil
}

// Profiles loads several records concurrently. Names without a stored record
// yield fresh records; unreadable ones fail the call.
func (r *Repository) Profiles(ctx context.Context, names []string) ([]domain.UserRecord, error) {
	out := make([]domain.UserRecord, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			rec, err := r.store.LoadUser(ctx, name)
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				rec = domain.NewUserRecord(name)
			case err != nil:
				return fmt.Errorf("load user %q: %w", name, err)
			}
			rec.Name = name
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
