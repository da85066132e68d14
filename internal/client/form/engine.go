// Package form implements the persistent form-state engine: it owns the
// in-progress answer set, mutates it step by step, and keeps a durable copy
// in the local store across restarts.
package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avelichka/skinform/internal/client/models"
	formrepo "github.com/avelichka/skinform/internal/client/repositories/form"
	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/logging"
)

const (
	FirstStep = 1
	LastStep  = 6

	saveTimeout = 5 * time.Second
)

// StepRecord is any of the six step payloads.
type StepRecord interface {
	Validate() error
}

// Engine is the single owner of the answer set. Updates apply to memory
// immediately (read-your-write); the durable write happens on a dedicated
// writer goroutine, one save at a time, always with the latest snapshot.
// Concurrent saves therefore coalesce instead of interleaving.
type Engine struct {
	repo   *formrepo.Repository
	logger logging.Logger

	mu      sync.Mutex
	answers *models.AnswerSet
	current int
	pending *models.AnswerSet
	gen     uint64
	saveErr error

	// storeMu serializes writer saves with Reset's delete, so a snapshot
	// already dequeued cannot land in the store after the delete.
	storeMu sync.Mutex

	kick chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewEngine(repo *formrepo.Repository, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	e := &Engine{
		repo:    repo,
		logger:  logger,
		answers: &models.AnswerSet{},
		current: FirstStep,
		kick:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	e.wg.Add(1)
	go e.writeLoop()
	return e
}

// Load replaces the in-memory answer set with the durable copy. An absent or
// undecodable copy leaves the default all-null set (the repository already
// swallows decode failures); store read failures keep the default and are
// returned so the caller may warn the user.
func (e *Engine) Load(ctx context.Context) error {
	answers, err := e.repo.Load(ctx)
	if err != nil {
		e.logger.Error(ctx, "could not load stored form data", "error", err)
		answers = &models.AnswerSet{}
	}

	e.mu.Lock()
	e.answers = answers
	e.mu.Unlock()
	return err
}

// UpdateStep validates record and stores it as step n, leaving the other
// steps untouched. It returns validation errors synchronously and queues the
// durable write before returning; persistence failures are reported later
// through SaveErr and the log, never here.
func (e *Engine) UpdateStep(n int, record StepRecord) error {
	if n < FirstStep || n > LastStep {
		return fmt.Errorf("%w: %d", common.ErrInvalidStep, n)
	}
	if record == nil {
		return fmt.Errorf("%w: step %d record is nil", common.ErrValidation, n)
	}
	if err := record.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch rec := record.(type) {
	case *models.Demographics:
		if n != 1 {
			return stepMismatch(n, record)
		}
		e.answers.Step1 = rec
	case *models.Dietary:
		if n != 2 {
			return stepMismatch(n, record)
		}
		e.answers.Step2 = rec
	case *models.Symptoms:
		if n != 3 {
			return stepMismatch(n, record)
		}
		e.answers.Step3 = rec
	case *models.Structure:
		if n != 4 {
			return stepMismatch(n, record)
		}
		e.answers.Step4 = rec
	case *models.Lifestyle:
		if n != 5 {
			return stepMismatch(n, record)
		}
		e.answers.Step5 = rec
	case *models.Photos:
		if n != 6 {
			return stepMismatch(n, record)
		}
		e.answers.Step6 = rec
	default:
		return fmt.Errorf("%w: unknown record type %T", common.ErrValidation, record)
	}

	e.queueSaveLocked()
	return nil
}

func stepMismatch(n int, record StepRecord) error {
	return fmt.Errorf("%w: record %T does not belong to step %d", common.ErrValidation, record, n)
}

// Snapshot returns a deep copy of the current answer set.
func (e *Engine) Snapshot() *models.AnswerSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.answers.Clone()
}

// CurrentStep returns the wizard position, in [1,6]. It is in-memory only
// and not persisted.
func (e *Engine) CurrentStep() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Advance moves one step forward, clamped to the last step.
func (e *Engine) Advance() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < LastStep {
		e.current++
	}
	return e.current
}

// Retreat moves one step back, clamped to the first step.
func (e *Engine) Retreat() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current > FirstStep {
		e.current--
	}
	return e.current
}

// Reset empties the answer set, deletes the durable copy, and returns to
// step 1. Unlike UpdateStep the delete is synchronous: reset is an explicit
// user action and its failure is worth reporting directly.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	e.answers = &models.AnswerSet{}
	e.current = FirstStep
	e.pending = nil
	e.gen++
	e.saveErr = nil
	e.mu.Unlock()

	// Wait out any save already in flight, then delete; the generation bump
	// above invalidates snapshots the writer dequeued but has not saved yet.
	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	if err := e.repo.Delete(ctx); err != nil {
		e.logger.Error(ctx, "could not delete stored form data", "error", err)
		return err
	}
	return nil
}

// SaveErr reports the outcome of the most recent durable write: nil after a
// successful save, the error after a failed one.
func (e *Engine) SaveErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveErr
}

// Close flushes any pending durable write and stops the writer goroutine.
func (e *Engine) Close() {
	close(e.stop)
	e.wg.Wait()
}

// queueSaveLocked records the latest snapshot for the writer goroutine and
// wakes it. Callers must hold e.mu.
func (e *Engine) queueSaveLocked() {
	e.pending = e.answers.Clone()
	select {
	case e.kick <- struct{}{}:
	default:
	}
}

func (e *Engine) writeLoop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.kick:
			e.flushPending()
		case <-e.stop:
			e.flushPending()
			return
		}
	}
}

func (e *Engine) flushPending() {
	for {
		e.mu.Lock()
		snap := e.pending
		snapGen := e.gen
		e.pending = nil
		e.mu.Unlock()

		if snap == nil {
			return
		}

		e.storeMu.Lock()

		// Reset may have run since the snapshot was queued; saving it would
		// resurrect the deleted answers.
		e.mu.Lock()
		stale := e.gen != snapGen
		e.mu.Unlock()
		if stale {
			e.storeMu.Unlock()
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := e.repo.Save(ctx, snap)
		cancel()
		e.storeMu.Unlock()

		e.mu.Lock()
		e.saveErr = err
		e.mu.Unlock()

		if err != nil {
			e.logger.Error(context.Background(), "async form save failed", "error", err)
		}
	}
}
