package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/migrate"
	_ "modernc.org/sqlite"

	"multab/internal/domain"
	"multab/internal/infra/sqlite/migrations"
)

type profile struct {
	bun.BaseModel `bun:"table:profiles"`

	Name string `bun:"name,pk"`
}

type scoreCell struct {
	bun.BaseModel `bun:"table:score_cells"`

	Profile string `bun:"profile,pk"`
	Row     int    `bun:"row,pk"`
	Col     int    `bun:"col,pk"`
	Tries   uint16 `bun:"tries,notnull"`
	Correct uint16 `bun:"correct,notnull"`
}

type directoryUser struct {
	bun.BaseModel `bun:"table:directory_users"`

	Position int    `bun:"position,pk"`
	Name     string `bun:"name,notnull"`
}

type directoryState struct {
	bun.BaseModel `bun:"table:directory_state"`

	ID          int    `bun:"id,pk"`
	CurrentUser string `bun:"current_user,notnull"`
}

// Store keeps profiles and the user directory in a local SQLite file.
type Store struct {
	db *bun.DB
}

// OpenDB opens the database file, creating its parent directory.
func OpenDB(path string) (*bun.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate applies pending schema migrations and returns the applied group.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return group, nil
}

// Rollback reverts the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("rollback: %w", err)
	}
	return group, nil
}

// Open opens path and brings its schema up to date.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) LoadUser(ctx context.Context, name string) (domain.UserRecord, error) {
	exists, err := s.db.NewSelect().Model((*profile)(nil)).Where("name = ?", name).Exists(ctx)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("load user %q: %w", name, err)
	}
	if !exists {
		return domain.UserRecord{}, fmt.Errorf("%w: %q", domain.ErrUserNotFound, name)
	}

	var cells []scoreCell
	if err := s.db.NewSelect().Model(&cells).Where("profile = ?", name).Scan(ctx); err != nil {
		return domain.UserRecord{}, fmt.Errorf("load scores of %q: %w", name, err)
	}
	rec := domain.NewUserRecord(name)
	for _, c := range cells {
		cell := domain.Cell{Row: c.Row, Col: c.Col}
		if !cell.Valid() {
			return domain.UserRecord{}, fmt.Errorf("load scores of %q: cell (%d, %d) outside the grid", name, c.Row, c.Col)
		}
		*rec.Score(cell) = domain.NewScore(c.Tries, c.Correct)
	}
	return rec, nil
}

// SaveUser replaces the stored scores of rec. Unattempted cells are not stored.
func (s *Store) SaveUser(ctx context.Context, rec domain.UserRecord) error {
	cells := make([]scoreCell, 0, domain.GridSize*domain.GridSize)
	for _, sc := range rec.Cells() {
		if sc.Score.Tries == 0 {
			continue
		}
		cells = append(cells, scoreCell{
			Profile: rec.Name,
			Row:     sc.Cell.Row,
			Col:     sc.Cell.Col,
			Tries:   sc.Score.Tries,
			Correct: sc.Score.Correct,
		})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&profile{Name: rec.Name}).Ignore().Exec(ctx); err != nil {
			return fmt.Errorf("save user %q: %w", rec.Name, err)
		}
		if _, err := tx.NewDelete().Model((*scoreCell)(nil)).Where("profile = ?", rec.Name).Exec(ctx); err != nil {
			return fmt.Errorf("save user %q: %w", rec.Name, err)
		}
		if len(cells) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&cells).Exec(ctx); err != nil {
			return fmt.Errorf("save user %q: %w", rec.Name, err)
		}
		return nil
	})
}

func (s *Store) RenameUser(ctx context.Context, from, to string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().Model((*profile)(nil)).Where("name = ?", to).Exists(ctx)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateUser, to)
		}
		res, err := tx.NewUpdate().Model((*profile)(nil)).Set("name = ?", to).Where("name = ?", from).Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %q", domain.ErrUserNotFound, from)
		}
		_, err = tx.NewUpdate().Model((*scoreCell)(nil)).Set("profile = ?", to).Where("profile = ?", from).Exec(ctx)
		return err
	})
}

func (s *Store) LoadDirectory(ctx context.Context) (domain.UserDirectory, error) {
	var state directoryState
	err := s.db.NewSelect().Model(&state).Where("id = 1").Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserDirectory{}, domain.ErrDirectoryNotFound
	}
	if err != nil {
		return domain.UserDirectory{}, fmt.Errorf("load user directory: %w", err)
	}

	var users []directoryUser
	if err := s.db.NewSelect().Model(&users).Order("position ASC").Scan(ctx); err != nil {
		return domain.UserDirectory{}, fmt.Errorf("load user directory: %w", err)
	}
	dir := domain.UserDirectory{CurrentUser: state.CurrentUser, AllUsers: make([]string, 0, len(users))}
	for _, u := range users {
		dir.AllUsers = append(dir.AllUsers, u.Name)
	}
	return dir, nil
}

func (s *Store) SaveDirectory(ctx context.Context, dir domain.UserDirectory) error {
	users := make([]directoryUser, 0, len(dir.AllUsers))
	for i, name := range dir.AllUsers {
		users = append(users, directoryUser{Position: i + 1, Name: name})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*directoryUser)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("save user directory: %w", err)
		}
		if len(users) > 0 {
			if _, err := tx.NewInsert().Model(&users).Exec(ctx); err != nil {
				return fmt.Errorf("save user directory: %w", err)
			}
		}
		state := &directoryState{ID: 1, CurrentUser: dir.CurrentUser}
		if _, err := tx.NewInsert().Model(state).Replace().Exec(ctx); err != nil {
			return fmt.Errorf("save user directory: %w", err)
		}
		return nil
	})
}
