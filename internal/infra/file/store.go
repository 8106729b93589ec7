package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"multab/internal/domain"
)

const ext = ".yaml"

// DefaultDir is <user config dir>/multab.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "multab"), nil
}

// Store keeps one YAML document per profile plus UserList.yaml in a single
// directory. Every write replaces the file atomically.
type Store struct {
	dir string
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir is the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

type userFile struct {
	Name   string `yaml:"name"`
	Scores grid   `yaml:"scores"`
}

type directoryFile struct {
	CurrentUser string   `yaml:"current_user"`
	AllUsers    []string `yaml:"all_users"`
}

// grid is the persisted score table: rows of [tries, correct] pairs.
type grid [][][]uint16

// MarshalYAML keeps each row on one line.
func (g grid) MarshalYAML() (interface{}, error) {
	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range g {
		r := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, cell := range row {
			pair := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, v := range cell {
				pair.Content = append(pair.Content, &yaml.Node{
					Kind:  yaml.ScalarNode,
					Tag:   "!!int",
					Value: strconv.FormatUint(uint64(v), 10),
				})
			}
			r.Content = append(r.Content, pair)
		}
		rows.Content = append(rows.Content, r)
	}
	return rows, nil
}

func toGrid(g *domain.Grid) grid {
	out := make(grid, domain.GridSize)
	for r := range g {
		out[r] = make([][]uint16, domain.GridSize)
		for c, s := range g[r] {
			out[r][c] = []uint16{s.Tries, s.Correct}
		}
	}
	return out
}

func fromGrid(in grid) (domain.Grid, error) {
	var g domain.Grid
	if len(in) != domain.GridSize {
		return g, fmt.Errorf("scores: expected %d rows, got %d", domain.GridSize, len(in))
	}
	for r, row := range in {
		if len(row) != domain.GridSize {
			return g, fmt.Errorf("scores row %d: expected %d cells, got %d", r, domain.GridSize, len(row))
		}
		for c, cell := range row {
			if len(cell) != 2 {
				return g, fmt.Errorf("scores[%d][%d]: expected [tries, correct], got %v", r, c, cell)
			}
			g[r][c] = domain.NewScore(cell[0], cell[1])
		}
	}
	return g, nil
}

func (s *Store) userPath(name string) (string, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+ext), nil
}

func (s *Store) directoryPath() string {
	return filepath.Join(s.dir, domain.DirectoryKey+ext)
}

func (s *Store) LoadUser(ctx context.Context, name string) (domain.UserRecord, error) {
	path, err := s.userPath(name)
	if err != nil {
		return domain.UserRecord{}, err
	}
	var f userFile
	if err := readYAML(path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.UserRecord{}, fmt.Errorf("%w: %q", domain.ErrUserNotFound, name)
		}
		return domain.UserRecord{}, err
	}
	scores, err := fromGrid(f.Scores)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return domain.UserRecord{Name: name, Scores: scores}, nil
}

func (s *Store) SaveUser(ctx context.Context, rec domain.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.userPath(rec.Name)
	if err != nil {
		return err
	}
	return writeYAML(path, userFile{Name: rec.Name, Scores: toGrid(&rec.Scores)})
}

// RenameUser moves <from>.yaml to <to>.yaml. The caller rewrites the record
// afterwards so the name inside the file follows.
func (s *Store) RenameUser(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := s.userPath(from)
	if err != nil {
		return err
	}
	dst, err := s.userPath(to)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateUser, to)
	}
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", domain.ErrUserNotFound, from)
		}
		return fmt.Errorf("rename profile file: %w", err)
	}
	return nil
}

func (s *Store) LoadDirectory(ctx context.Context) (domain.UserDirectory, error) {
	var f directoryFile
	if err := readYAML(s.directoryPath(), &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.UserDirectory{}, domain.ErrDirectoryNotFound
		}
		return domain.UserDirectory{}, err
	}
	return domain.UserDirectory{CurrentUser: f.CurrentUser, AllUsers: f.AllUsers}, nil
}

func (s *Store) SaveDirectory(ctx context.Context, dir domain.UserDirectory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeYAML(s.directoryPath(), directoryFile{CurrentUser: dir.CurrentUser, AllUsers: dir.AllUsers})
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, data)
}

// writeAtomic writes to a hidden temp file in the same directory and renames
// it over path, so readers see either the old or the new content.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	name := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
