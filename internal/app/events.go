package app

import "multab/internal/domain"

// Event is an input to App.Update: a user action or the result of an effect.
type Event interface{ event() }

// Results of effects.
type (
	DirectoryLoaded struct{ Directory domain.UserDirectory }
	UserLoaded      struct {
		Record domain.UserRecord
		Sync   bool // persist the directory after switching
	}
	UserCreated       struct{ Record domain.UserRecord }
	UserRenamed       struct{ NewName string }
	OperationFinished struct {
		Op  Op
		Err error
	}
)

// Op names the asynchronous operation an OperationFinished reports on.
type Op string

const (
	OpSaveUser      Op = "save user"
	OpSaveDirectory Op = "save directory"
	OpCreateUser    Op = "create user"
	OpRenameUser    Op = "rename user"
)

// User actions.
type (
	CreateUser    struct{ Name string }
	SelectUser    struct{ Name string }
	RenameCurrent struct{ Name string }
	StartTest     struct{}
	StartSet      struct{}
	EnterAnswer   struct {
		Index int
		Value *uint32
	}
	CheckAnswers  struct{}
	ContinueRound struct{}
	SyncDirectory struct{}
)

func (DirectoryLoaded) event()   {}
func (UserLoaded) event()        {}
func (UserCreated) event()       {}
func (UserRenamed) event()       {}
func (OperationFinished) event() {}
func (CreateUser) event()        {}
func (SelectUser) event()        {}
func (RenameCurrent) event()     {}
func (StartTest) event()         {}
func (StartSet) event()          {}
func (EnterAnswer) event()       {}
func (CheckAnswers) event()      {}
func (ContinueRound) event()     {}
func (SyncDirectory) event()     {}

// Effect is work App.Update asks the runtime to perform. Snapshots are
// copies taken when the effect was issued.
type Effect interface{ effect() }

type (
	LoadDirectory struct{}
	LoadUser      struct {
		Name string
		Sync bool
	}
	CreateUserRecord struct{ Name string }
	SaveUser         struct{ Snapshot domain.UserRecord }
	SaveDirectory    struct{ Snapshot domain.UserDirectory }
	RenameUserRecord struct{ From, To string }
)

func (LoadDirectory) effect()    {}
func (LoadUser) effect()         {}
func (CreateUserRecord) effect() {}
func (SaveUser) effect()         {}
func (SaveDirectory) effect()    {}
func (RenameUserRecord) effect() {}
