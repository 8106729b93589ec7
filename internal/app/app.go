package app

import (
	"fmt"
	"math/rand"

	"multab/internal/domain"
)

// App is the top-level trainer state. Update is a pure transition: it never
// performs I/O and returns the effects the caller must run. App is not safe
// for concurrent use; a single owner goroutine applies every event.
type App struct {
	user  *domain.UserRecord
	dir   *domain.UserDirectory
	round *Round
	err   error

	// pending is set while a create, switch or rename has not reported back.
	pending  bool
	updating bool
}

// New returns an App with nothing loaded.
func New(rnd *rand.Rand) *App {
	return &App{round: NewRound(rnd)}
}

// Init returns the startup effects.
func (a *App) Init() []Effect {
	return []Effect{LoadDirectory{}}
}

// Update applies ev. A non-nil error is a rejected action and leaves the
// state untouched.
func (a *App) Update(ev Event) ([]Effect, error) {
	if a.updating {
		panic("app: Update re-entered; App has a single owner")
	}
	a.updating = true
	defer func() { a.updating = false }()

	switch ev := ev.(type) {
	case DirectoryLoaded:
		dir := ev.Directory.Clone()
		dir.Normalize()
		a.dir = &dir
		return []Effect{LoadUser{Name: dir.CurrentUser}}, nil

	case UserLoaded:
		rec := ev.Record
		a.user = &rec
		a.pending = false
		if a.dir == nil {
			return nil, nil
		}
		a.dir.SwitchCurrent(rec.Name)
		if ev.Sync {
			return []Effect{a.saveDirectory()}, nil
		}
		return nil, nil

	case UserCreated:
		if a.dir == nil {
			panic("app: user created before the directory was loaded")
		}
		a.pending = false
		if err := a.dir.AddUser(ev.Record.Name); err != nil {
			a.err = err
			return nil, nil
		}
		rec := ev.Record
		a.user = &rec
		return []Effect{a.saveDirectory()}, nil

	case UserRenamed:
		if a.user == nil || a.dir == nil {
			panic("app: rename finished with no user loaded")
		}
		a.pending = false
		a.dir.RenameCurrent(ev.NewName)
		a.user.Name = ev.NewName
		return []Effect{a.saveUser(), a.saveDirectory()}, nil

	case OperationFinished:
		a.err = ev.Err
		if ev.Op == OpCreateUser || ev.Op == OpRenameUser {
			a.pending = false
		}
		return nil, nil

	case CreateUser:
		if err := a.canChangeUser(); err != nil {
			return nil, err
		}
		name, err := a.dir.CheckAvailable(ev.Name)
		if err != nil {
			return nil, err
		}
		a.pending = true
		return []Effect{CreateUserRecord{Name: name}}, nil

	case SelectUser:
		if err := a.canChangeUser(); err != nil {
			return nil, err
		}
		if !a.dir.Contains(ev.Name) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUserNotFound, ev.Name)
		}
		a.pending = true
		return []Effect{LoadUser{Name: ev.Name, Sync: true}}, nil

	case RenameCurrent:
		if err := a.canChangeUser(); err != nil {
			return nil, err
		}
		if a.user == nil {
			return nil, domain.ErrNoUser
		}
		name, err := a.dir.CheckAvailable(ev.Name)
		if err != nil {
			return nil, err
		}
		a.pending = true
		return []Effect{RenameUserRecord{From: a.user.Name, To: name}}, nil

	case StartTest:
		return nil, a.start(domain.GridSize * domain.GridSize)

	case StartSet:
		return nil, a.start(BatchSize)

	case EnterAnswer:
		return nil, a.round.Answer(ev.Index, ev.Value)

	case CheckAnswers:
		if err := a.round.Check(); err != nil {
			return nil, err
		}
		return []Effect{a.saveUser()}, nil

	case ContinueRound:
		if a.round.Phase() != InProgress {
			return nil, domain.ErrNoRound
		}
		if err := a.round.Continue(a.user); err != nil {
			return nil, err
		}
		return []Effect{a.saveUser()}, nil

	case SyncDirectory:
		if a.dir == nil {
			return nil, domain.ErrNoUser
		}
		return []Effect{a.saveDirectory()}, nil
	}
	panic(fmt.Sprintf("app: unhandled event %T", ev))
}

func (a *App) start(size int) error {
	if a.user == nil {
		return domain.ErrNoUser
	}
	if a.pending {
		return domain.ErrUserPending
	}
	return a.round.Start(a.user, size)
}

func (a *App) canChangeUser() error {
	switch {
	case a.dir == nil:
		return domain.ErrNoUser
	case a.pending:
		return domain.ErrUserPending
	case a.round.Phase() == InProgress:
		return domain.ErrRoundInProgress
	}
	return nil
}

func (a *App) saveUser() Effect {
	return SaveUser{Snapshot: *a.user}
}

func (a *App) saveDirectory() Effect {
	return SaveDirectory{Snapshot: a.dir.Clone()}
}

// User returns a copy of the loaded record.
func (a *App) User() (domain.UserRecord, bool) {
	if a.user == nil {
		return domain.UserRecord{}, false
	}
	return *a.user, true
}

// Directory returns a copy of the loaded directory.
func (a *App) Directory() (domain.UserDirectory, bool) {
	if a.dir == nil {
		return domain.UserDirectory{}, false
	}
	return a.dir.Clone(), true
}

// Err is the outcome of the last asynchronous operation.
func (a *App) Err() error { return a.err }

// Pending reports whether a create, switch or rename is still running.
func (a *App) Pending() bool { return a.pending }

// Title is the window/prompt title.
func (a *App) Title() string {
	name := ""
	if a.user != nil {
		name = a.user.Name
	}
	return "Multiplication table - " + name
}

// RoundView is a read-only snapshot of the round for display.
type RoundView struct {
	ID          string
	Phase       Phase
	Questions   []domain.Question
	ShowResults bool
	AllAnswered bool
	Remaining   int
	Overlay     domain.Overlay
}

// Round snapshots the current round.
func (a *App) Round() RoundView {
	return RoundView{
		ID:          a.round.ID(),
		Phase:       a.round.Phase(),
		Questions:   a.round.Questions(),
		ShowResults: a.round.ShowResults(),
		AllAnswered: a.round.AllAnswered(),
		Remaining:   a.round.Remaining(),
		Overlay:     a.round.Overlay(),
	}
}

// InBatch reports whether c is asked in the current batch.
func (v RoundView) InBatch(c domain.Cell) bool {
	for _, q := range v.Questions {
		if q.Cell != nil && *q.Cell == c {
			return true
		}
	}
	return false
}
