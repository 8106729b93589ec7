package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"multab/internal/domain"
	"multab/internal/worker"
)

const directorySaveKey = "directory:" + domain.DirectoryKey

// Runtime executes the effects returned by App.Update and feeds their results
// back as events. Send, Apply, Settle and Close must all be called from the
// goroutine that owns the App; effects run on other goroutines and only ever
// touch snapshots.
type Runtime struct {
	app   *App
	repo  *Repository
	saver *worker.Saver
	log   logrus.FieldLogger

	results  chan Event
	inflight int
}

func NewRuntime(app *App, repo *Repository, saver *worker.Saver, log logrus.FieldLogger) *Runtime {
	return &Runtime{
		app:     app,
		repo:    repo,
		saver:   saver,
		log:     log,
		results: make(chan Event, 16),
	}
}

// App returns the owned state for reading.
func (r *Runtime) App() *App { return r.app }

// Start issues the startup effects.
func (r *Runtime) Start() {
	r.perform(r.app.Init())
}

// Send applies a user action. The returned error is a rejected action.
func (r *Runtime) Send(ev Event) error {
	round := r.app.round
	wasPhase, id := round.Phase(), round.ID()
	correct := 0
	for _, q := range round.Questions() {
		if q.Check == domain.Correct {
			correct++
		}
	}

	effects, err := r.app.Update(ev)
	if err != nil {
		return err
	}

	switch {
	case wasPhase == Idle && round.Phase() == InProgress:
		r.log.WithFields(logrus.Fields{
			"round": round.ID(),
			"cells": round.Remaining() + BatchSize,
		}).Info("round started")
	case wasPhase == InProgress:
		if _, ok := ev.(ContinueRound); ok {
			r.log.WithFields(logrus.Fields{"round": id, "correct": correct}).Info("batch recorded")
		}
		if round.Phase() == Idle {
			r.log.WithField("round", id).Info("round finished")
		}
	}
	r.perform(effects)
	return nil
}

// Results delivers the outcome of every effect. Each value must be passed to
// Apply.
func (r *Runtime) Results() <-chan Event { return r.results }

// Apply folds an effect result back into the App.
func (r *Runtime) Apply(ev Event) {
	r.inflight--
	effects, err := r.app.Update(ev)
	if err != nil {
		r.log.WithError(err).Warnf("result %T rejected", ev)
		return
	}
	r.perform(effects)
}

// Inflight is the number of effects whose results have not been applied.
func (r *Runtime) Inflight() int { return r.inflight }

// Settle applies results until nothing is in flight or ctx is done.
func (r *Runtime) Settle(ctx context.Context) error {
	for r.inflight > 0 {
		select {
		case ev := <-r.results:
			r.Apply(ev)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close settles outstanding work and waits for pending saves to be written.
func (r *Runtime) Close(ctx context.Context) error {
	if err := r.Settle(ctx); err != nil {
		return err
	}
	return r.saver.Wait(ctx)
}

func (r *Runtime) perform(effects []Effect) {
	for _, eff := range effects {
		r.inflight++
		r.run(eff)
	}
}

func (r *Runtime) post(ev Event) {
	r.results <- ev
}

func (r *Runtime) finished(op Op, fields logrus.Fields) func(error) {
	return func(err error) {
		if err != nil {
			r.log.WithError(err).WithFields(fields).Errorf("%s failed", op)
		}
		r.post(OperationFinished{Op: op, Err: err})
	}
}

func (r *Runtime) run(eff Effect) {
	switch eff := eff.(type) {
	case LoadDirectory:
		go func() {
			r.post(DirectoryLoaded{Directory: r.repo.LoadDirectory(context.Background())})
		}()

	case LoadUser:
		go func() {
			rec := r.repo.LoadUser(context.Background(), eff.Name)
			r.post(UserLoaded{Record: rec, Sync: eff.Sync})
		}()

	case CreateUserRecord:
		go func() {
			rec, err := r.repo.CreateUser(context.Background(), eff.Name)
			if err != nil {
				r.finished(OpCreateUser, logrus.Fields{"user": eff.Name})(err)
				return
			}
			r.post(UserCreated{Record: rec})
		}()

	case SaveUser:
		snap := eff.Snapshot
		r.saver.Submit(userSaveKey(snap.Name), func(ctx context.Context) error {
			return r.repo.SaveUser(ctx, snap)
		}, r.finished(OpSaveUser, logrus.Fields{"user": snap.Name}))

	case SaveDirectory:
		snap := eff.Snapshot
		r.saver.Submit(directorySaveKey, func(ctx context.Context) error {
			return r.repo.SaveDirectory(ctx, snap)
		}, r.finished(OpSaveDirectory, nil))

	case RenameUserRecord:
		fields := logrus.Fields{"from": eff.From, "to": eff.To}
		r.saver.Queue(userSaveKey(eff.From), func(ctx context.Context) error {
			return r.repo.RenameUser(ctx, eff.From, eff.To)
		}, func(err error) {
			if err != nil {
				r.finished(OpRenameUser, fields)(err)
				return
			}
			r.post(UserRenamed{NewName: eff.To})
		})

	default:
		panic("app: unhandled effect")
	}
}

func userSaveKey(name string) string { return "user:" + name }
