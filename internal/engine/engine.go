package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"github.com/google/uuid"

	"github.com/phrazzld/strand/internal/domain"
	"github.com/phrazzld/strand/internal/platform/clock"
	"github.com/phrazzld/strand/internal/reactor"
	"github.com/phrazzld/strand/internal/signal"
)

// Errors returned by the engine's submission surface.
var (
	ErrQueueFull      = errors.New("submission queue is full")
	ErrAlreadyRunning = errors.New("engine is already running")
)

// Config holds configuration for the engine.
type Config struct {
	// SubmitQueueSize bounds the hand-off queue for external submissions,
	// publishes, and cancellations.
	SubmitQueueSize int

	// PollInterval is how often the loop re-polls blocked read sources
	// while no timer deadline is nearer.
	PollInterval time.Duration

	// DefaultReadTimeout bounds read operations submitted without their
	// own deadline. Zero disables the default.
	DefaultReadTimeout time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		SubmitQueueSize: 64,
		PollInterval:    time.Millisecond,
	}
}

// Engine is the cooperative scheduler: it owns all tasks, runs them one at
// a time until they yield, routes requested operations to the signal
// registry or the reactor, and resumes tasks when completions arrive.
//
// Submit, PublishExternal, Stop, and TaskHandle methods are safe to call
// from any goroutine; everything else happens inside Run's loop.
type Engine struct {
	cfg      Config
	clk      clock.Clock
	registry *signal.Registry
	reactor  *reactor.Reactor
	logger   *slog.Logger

	jobs     chan func()
	draining atomic.Bool
	running  atomic.Bool

	// Loop-owned state. Never touched outside Run.
	ready   *queue.Queue
	tasks   map[uuid.UUID]*task
	waiting int
}

// New creates an engine. The registry and reactor are injected so tests can
// observe them; passing nil for either (or for clk and logger) uses a fresh
// default built over the same clock.
func New(cfg Config, clk clock.Clock, reg *signal.Registry, rc *reactor.Reactor, logger *slog.Logger) *Engine {
	if cfg.SubmitQueueSize <= 0 {
		cfg.SubmitQueueSize = DefaultConfig().SubmitQueueSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = signal.NewRegistry(logger)
	}
	if rc == nil {
		rc = reactor.New(clk, logger)
	}
	return &Engine{
		cfg:      cfg,
		clk:      clk,
		registry: reg,
		reactor:  rc,
		logger:   logger.With("component", "engine"),
		jobs:     make(chan func(), cfg.SubmitQueueSize),
		ready:    queue.New(),
		tasks:    make(map[uuid.UUID]*task),
	}
}

// Submit enqueues a new task as ready and returns its handle. Returns
// ErrShutdownInProgress once a drain has been requested, and ErrQueueFull
// when the submission queue has no room.
func (e *Engine) Submit(h Handler) (*TaskHandle, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil handler", domain.ErrInvalidArgument)
	}
	if e.draining.Load() {
		return nil, domain.ErrShutdownInProgress
	}

	t := newTask(h, e)
	if err := e.enqueueJobErr(func() {
		e.tasks[t.id] = t
		e.ready.Add(t)
	}); err != nil {
		return nil, err
	}

	tasksSubmitted.Inc()
	e.logger.Debug("task submitted", "task_id", t.id)
	return t.handle, nil
}

// PublishExternal hands a signal publish into the loop. It is the one safe
// way for code outside the loop to resolve waiting tasks; the publish runs
// inside the loop, so it can never race a timeout or cancellation.
// Publishes are still accepted while draining: in-flight tasks may need
// them to finish.
func (e *Engine) PublishExternal(name string, value any) error {
	if name == "" {
		return fmt.Errorf("%w: empty signal name", domain.ErrInvalidArgument)
	}
	return e.enqueueJobErr(func() {
		count := e.registry.Publish(name, value)
		signalsPublished.Inc()
		waitersResolved.Add(float64(count))
	})
}

// Stop requests a graceful drain: in-flight tasks finish, new submissions
// are refused with ErrShutdownInProgress, and Run returns once no work
// remains.
func (e *Engine) Stop() {
	if e.draining.CompareAndSwap(false, true) {
		e.logger.Info("drain requested")
		// Wake the loop if it is blocked waiting for completions.
		e.enqueueJob(func() {})
	}
}

// Run drives the scheduling loop until no ready and no waiting tasks
// remain, the context is cancelled, or the loop deadlocks. A deadlock --
// waiting tasks with no timer or read registration that could ever wake
// them -- returns ErrNoProgress.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	e.logger.Info("engine loop starting")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.drainJobs()

		// Run every ready task to its next yield point. Tasks that yield
		// output without suspending go back on the queue, so interleaving
		// between tasks is FIFO-fair.
		for e.ready.Length() > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := e.ready.Remove().(*task)
			if t.state != TaskReady {
				continue // withdrawn while queued
			}
			e.step(t)
			e.drainJobs()
		}

		e.reactor.FireDue()
		if e.ready.Length() > 0 {
			continue
		}
		if e.reactor.HasReads() && e.reactor.PollReads() > 0 {
			continue
		}

		if e.waiting == 0 {
			if len(e.jobs) > 0 {
				continue
			}
			e.logger.Info("engine loop drained")
			return nil
		}

		if e.reactor.Idle() {
			return fmt.Errorf(
				"%w: %d task(s) waiting with nothing registered to wake them",
				domain.ErrNoProgress, e.waiting)
		}

		var timerC <-chan time.Time
		if wait, ok := e.nextWait(); ok {
			timerC = e.clk.After(wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-e.jobs:
			job()
		case <-timerC:
		}
	}
}

// nextWait computes how long the loop may block: until the nearest timer
// deadline, clamped to the poll interval while reads are pending.
func (e *Engine) nextWait() (time.Duration, bool) {
	var d time.Duration
	has := false
	if deadline, ok := e.reactor.NextDeadline(); ok {
		d = deadline.Sub(e.clk.Now())
		if d < 0 {
			d = 0
		}
		has = true
	}
	if e.reactor.HasReads() && (!has || d > e.cfg.PollInterval) {
		d = e.cfg.PollInterval
		has = true
	}
	return d, has
}

// step runs one task to its next yield point and interprets the outcome.
func (e *Engine) step(t *task) {
	y, err := t.handler.Step(&t.bridge)
	if err != nil {
		e.fail(t, err)
		return
	}
	if t.bridge.violation != nil {
		e.fail(t, t.bridge.violation)
		return
	}

	if t.bridge.pending != nil {
		// A suspension must be an empty unit: the operation request and
		// any output cannot share a yield, or the streaming adapter would
		// desynchronize submission from execution.
		if len(y.Chunk) > 0 || y.Done {
			e.fail(t, fmt.Errorf(
				"%w: suspension yield must be an empty unit", domain.ErrProtocolViolation))
			return
		}
		e.dispatch(t)
		return
	}

	if len(y.Chunk) > 0 {
		t.handle.push(y.Chunk)
	}
	if y.Done {
		e.finish(t)
		return
	}
	e.ready.Add(t)
}

// dispatch routes a task's pending operation to the registry or reactor
// and parks the task as waiting.
func (e *Engine) dispatch(t *task) {
	op := *t.bridge.pending
	operationsDispatched.WithLabelValues(string(op.Kind)).Inc()
	t.state = TaskWaiting
	t.handle.setState(TaskWaiting)
	e.waiting++
	tasksWaiting.Inc()

	switch op.Kind {
	case domain.OpSleep:
		t.timer = e.reactor.AddTimer(op.Duration, func() {
			t.timer = nil
			e.resume(t, domain.OK(nil))
		})

	case domain.OpWaitSignal:
		t.waiter = e.registry.Subscribe(op.Signal, func(res domain.Result) {
			e.reactor.StopTimer(t.timer)
			t.timer = nil
			t.waiter = nil
			e.resume(t, res)
		})
		t.timer = e.reactor.AddTimer(op.Timeout, func() {
			t.timer = nil
			// Remove reports false if a publish already won this waiter.
			if e.registry.Remove(t.waiter) {
				t.waiter = nil
				e.resume(t, domain.Failure(fmt.Errorf(
					"%w: no publish to %q within %v", domain.ErrTimeout, op.Signal, op.Timeout)))
			}
		})

	case domain.OpRead:
		timeout := op.Timeout
		if timeout == 0 {
			timeout = e.cfg.DefaultReadTimeout
		}
		src := op.Source
		err := e.reactor.RegisterRead(src, op.MaxLen, func(res domain.Result) {
			e.reactor.StopTimer(t.timer)
			t.timer = nil
			t.readSrc = nil
			e.resume(t, res)
		})
		if err != nil {
			// A failed operation is delivered as a failure result, not a
			// scheduler abort.
			e.resume(t, domain.Failure(err))
			return
		}
		t.readSrc = src
		if timeout > 0 {
			t.timer = e.reactor.AddTimer(timeout, func() {
				t.timer = nil
				if e.reactor.CancelRead(src) {
					t.readSrc = nil
					e.resume(t, domain.Failure(fmt.Errorf(
						"%w: source not readable within %v", domain.ErrTimeout, timeout)))
				}
			})
		}
		// Fast path: a source that is already readable completes without
		// waiting for the next poll pass.
		e.reactor.TryReadNow(src)

	default:
		e.resume(t, domain.Failure(fmt.Errorf(
			"%w: unknown operation kind %q", domain.ErrInvalidArgument, op.Kind)))
	}
}

// resume delivers a completion and moves the task back to the ready queue.
func (e *Engine) resume(t *task, res domain.Result) {
	t.bridge.deliver(res)
	t.state = TaskReady
	t.handle.setState(TaskReady)
	e.waiting--
	tasksWaiting.Dec()
	e.ready.Add(t)
}

func (e *Engine) finish(t *task) {
	t.state = TaskFinished
	delete(e.tasks, t.id)
	tasksCompleted.WithLabelValues(statusFinished).Inc()
	t.handle.complete(TaskFinished, nil)
	e.logger.Debug("task finished", "task_id", t.id)
}

func (e *Engine) fail(t *task, err error) {
	t.state = TaskFailed
	delete(e.tasks, t.id)
	tasksCompleted.WithLabelValues(statusFailed).Inc()
	t.handle.complete(TaskFailed, err)
	e.logger.Error("task failed", "task_id", t.id, "error", err)
}

// cancelTask withdraws a task. Runs inside the loop, so it cannot race a
// publish or timer firing: whichever reached the loop first already won.
func (e *Engine) cancelTask(id uuid.UUID) {
	t, ok := e.tasks[id]
	if !ok || t.state.Terminal() {
		return
	}
	if t.state == TaskWaiting {
		e.reactor.StopTimer(t.timer)
		t.timer = nil
		if t.waiter != nil {
			e.registry.Remove(t.waiter)
			t.waiter = nil
		}
		if t.readSrc != nil {
			e.reactor.CancelRead(t.readSrc)
			t.readSrc = nil
		}
		e.waiting--
		tasksWaiting.Dec()
	}
	t.state = TaskFinished
	delete(e.tasks, t.id)
	tasksCompleted.WithLabelValues(statusCancelled).Inc()
	t.handle.complete(TaskFinished, nil)
	e.logger.Debug("task cancelled", "task_id", t.id)
}

// enqueueJob hands fn to the loop, logging and dropping it when the
// submission queue is full.
func (e *Engine) enqueueJob(fn func()) {
	select {
	case e.jobs <- fn:
	default:
		e.logger.Warn("submission queue full, dropping job")
	}
}

// enqueueJobErr hands fn to the loop, reporting ErrQueueFull when it has
// no room.
func (e *Engine) enqueueJobErr(fn func()) error {
	select {
	case e.jobs <- fn:
		return nil
	default:
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(e.jobs))
	}
}

// drainJobs runs every job currently queued without blocking.
func (e *Engine) drainJobs() {
	for {
		select {
		case job := <-e.jobs:
			job()
		default:
			return
		}
	}
}
