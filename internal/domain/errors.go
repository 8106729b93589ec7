package domain

import "errors"

var (
	// ErrUserNotFound is returned by stores when no record exists for a name.
	ErrUserNotFound = errors.New("user not found")
	// ErrDirectoryNotFound is returned by stores when no user directory has been written yet.
	ErrDirectoryNotFound = errors.New("user directory not found")
	// ErrDuplicateUser is returned when creating or renaming onto a name already in use.
	ErrDuplicateUser = errors.New("user with this name already exists")
	// ErrInvalidName rejects names that are empty or cannot be used as a storage key.
	ErrInvalidName = errors.New("invalid user name")
	// ErrNoUser indicates an action that needs a loaded user was requested before one was loaded.
	ErrNoUser = errors.New("no user loaded")
	// ErrUserPending rejects a user operation while a previous one has not finished.
	ErrUserPending = errors.New("a user operation is still in progress")
	// ErrRoundInProgress rejects starting a round while another one is running.
	ErrRoundInProgress = errors.New("a round is already in progress")
	// ErrNoRound rejects answering or checking while no round is running.
	ErrNoRound = errors.New("no round in progress")
	// ErrBatchIncomplete rejects check/continue until every question has an answer.
	ErrBatchIncomplete = errors.New("not every question has been answered")
	// ErrAnswersLocked rejects edits while results are being shown.
	ErrAnswersLocked = errors.New("answers are locked while results are shown")
	// ErrAnswerOutOfRange rejects answers above MaxAnswer.
	ErrAnswerOutOfRange = errors.New("answer out of range")
	// ErrQuestionIndex indicates a question index outside the current batch.
	ErrQuestionIndex = errors.New("question index out of range")
)
