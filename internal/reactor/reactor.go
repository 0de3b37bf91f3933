package reactor

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/strand/internal/domain"
	"github.com/phrazzld/strand/internal/platform/clock"
)

// readReg is one pending read registration.
type readReg struct {
	src      domain.ReadSource
	maxLen   int
	complete func(domain.Result)
}

// Reactor owns the engine's pending timers and read registrations. Not safe
// for concurrent use; the engine loop is its only caller.
type Reactor struct {
	clk    clock.Clock
	logger *slog.Logger

	timers  timerHeap
	nextSeq uint64

	reads     map[domain.ReadSource]*readReg
	readOrder []domain.ReadSource
	pollStart int // rotates so no source monopolizes the front of the poll
}

// New creates a reactor over the given clock.
func New(clk clock.Clock, logger *slog.Logger) *Reactor {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reactor{
		clk:    clk,
		logger: logger.With("component", "reactor"),
		reads:  make(map[domain.ReadSource]*readReg),
	}
}

// AddTimer registers fire to run once d has elapsed. Timers with equal
// deadlines fire in registration order.
func (r *Reactor) AddTimer(d time.Duration, fire func()) *Timer {
	t := &Timer{
		deadline: r.clk.Now().Add(d),
		seq:      r.nextSeq,
		fire:     fire,
	}
	r.nextSeq++
	heap.Push(&r.timers, t)
	return t
}

// StopTimer prevents a pending timer from firing. Stopping an already fired
// or already stopped timer is a no-op.
func (r *Reactor) StopTimer(t *Timer) {
	if t == nil || t.index < 0 {
		return
	}
	heap.Remove(&r.timers, t.index)
	t.index = -1
	t.fire = nil
}

// FireDue runs the callback of every timer whose deadline has passed, in
// deadline order, and returns how many fired. Callbacks may add or stop
// other timers.
func (r *Reactor) FireDue() int {
	now := r.clk.Now()
	fired := 0
	for r.timers.Len() > 0 && !r.timers[0].deadline.After(now) {
		t := heap.Pop(&r.timers).(*Timer)
		fn := t.fire
		t.fire = nil
		if fn != nil {
			fn()
			fired++
		}
	}
	return fired
}

// NextDeadline returns the earliest pending timer deadline, if any.
func (r *Reactor) NextDeadline() (time.Time, bool) {
	if r.timers.Len() == 0 {
		return time.Time{}, false
	}
	return r.timers[0].deadline, true
}

// RegisterRead registers a pending read against src. At most one read may
// be pending per source; a second registration before completion is a
// caller error.
func (r *Reactor) RegisterRead(src domain.ReadSource, maxLen int, complete func(domain.Result)) error {
	if _, exists := r.reads[src]; exists {
		return fmt.Errorf("%w: read already pending on source", domain.ErrProtocolViolation)
	}
	r.reads[src] = &readReg{src: src, maxLen: maxLen, complete: complete}
	r.readOrder = append(r.readOrder, src)
	r.logger.Debug("read registered", "pending_reads", len(r.reads))
	return nil
}

// CancelRead withdraws the pending read on src without completing it.
// Reports whether a registration was actually removed.
func (r *Reactor) CancelRead(src domain.ReadSource) bool {
	if _, exists := r.reads[src]; !exists {
		return false
	}
	r.dropRead(src)
	return true
}

// PollReads tries each registered source once, in registration order with a
// rotating starting point so every source gets its turn at the front.
// Sources with data or end-of-stream complete and are deregistered; sources
// that would block stay registered. Returns the number of completions.
func (r *Reactor) PollReads() int {
	n := len(r.readOrder)
	if n == 0 {
		return 0
	}
	start := r.pollStart % n
	r.pollStart++

	// Completions shrink readOrder mid-pass, so walk a snapshot.
	order := make([]domain.ReadSource, n)
	copy(order, r.readOrder)

	completed := 0
	for i := 0; i < n; i++ {
		src := order[(start+i)%n]
		reg, ok := r.reads[src]
		if !ok {
			continue // removed by an earlier completion in this pass
		}
		if r.tryComplete(reg) {
			completed++
		}
	}
	return completed
}

// TryReadNow attempts an immediate read on a registered source. The engine
// uses it as a fast path right after registration so a source that is
// already readable completes without waiting for the next poll.
func (r *Reactor) TryReadNow(src domain.ReadSource) bool {
	reg, ok := r.reads[src]
	if !ok {
		return false
	}
	return r.tryComplete(reg)
}

func (r *Reactor) tryComplete(reg *readReg) bool {
	data, eof, err := reg.src.TryRead(reg.maxLen)
	switch {
	case errors.Is(err, domain.ErrWouldBlock):
		return false
	case err != nil:
		r.dropRead(reg.src)
		reg.complete(domain.Failure(fmt.Errorf("%w: %v", domain.ErrIOFailure, err)))
	case eof && len(data) == 0:
		r.dropRead(reg.src)
		reg.complete(domain.EndOfStream())
	default:
		r.dropRead(reg.src)
		reg.complete(domain.OK(data))
	}
	return true
}

func (r *Reactor) dropRead(src domain.ReadSource) {
	delete(r.reads, src)
	for i, s := range r.readOrder {
		if s == src {
			r.readOrder = append(r.readOrder[:i], r.readOrder[i+1:]...)
			break
		}
	}
}

// HasReads reports whether any read registrations are pending.
func (r *Reactor) HasReads() bool {
	return len(r.reads) > 0
}

// HasTimers reports whether any timers are pending.
func (r *Reactor) HasTimers() bool {
	return r.timers.Len() > 0
}

// Idle reports whether the reactor can never produce another completion:
// no timers and no read registrations. Waiting tasks combined with an idle
// reactor is the engine's deadlock condition.
func (r *Reactor) Idle() bool {
	return r.timers.Len() == 0 && len(r.reads) == 0
}
