package engine

import (
	"fmt"

	"github.com/phrazzld/strand/internal/domain"
)

// Yield is what a handler produces from one Step call.
//
// A non-empty Chunk is streamed to the task's handle. Done terminates the
// task. An empty Yield after a Bridge.Request is the suspension unit: it
// marks the point where the engine takes over and performs the requested
// operation. An empty Yield with no pending request is a benign no-op and
// the task stays runnable.
type Yield struct {
	Chunk []byte
	Done  bool
}

// Handler is one suspendable unit of request logic. The engine calls Step
// repeatedly; each call runs the handler to its next yield point. The
// handler's own fields are its resume cursor: whatever state it needs to
// continue after a suspension, it keeps itself.
type Handler interface {
	Step(br *Bridge) (Yield, error)
}

// HandlerFunc adapts a plain function to the Handler interface, for
// handlers whose state lives in the closure.
type HandlerFunc func(br *Bridge) (Yield, error)

// Step calls f.
func (f HandlerFunc) Step(br *Bridge) (Yield, error) {
	return f(br)
}

// Bridge is the contract point between a task and the engine: the task
// records the operation it wants performed, suspends, and finds the
// operation's result here when it resumes. Each task owns exactly one
// Bridge; only the engine and the task's own Step calls touch it.
type Bridge struct {
	pending   *domain.Operation
	last      domain.Result
	hasResult bool
	violation error
}

// Request records op as the task's pending operation. At most one operation
// may be outstanding: a second request while one is pending is a protocol
// violation that aborts the task, regardless of whether the handler checks
// the returned error.
func (b *Bridge) Request(op domain.Operation) error {
	if b.pending != nil {
		b.violation = fmt.Errorf(
			"%w: operation requested while %s is pending", domain.ErrProtocolViolation, b.pending.Kind)
		return b.violation
	}
	if op.Kind == "" {
		return fmt.Errorf("%w: zero operation", domain.ErrInvalidArgument)
	}
	cp := op
	b.pending = &cp
	return nil
}

// Result returns the completion delivered for the task's last operation and
// consumes it: a second call before the next completion reports ok=false.
func (b *Bridge) Result() (res domain.Result, ok bool) {
	if !b.hasResult {
		return domain.Result{}, false
	}
	b.hasResult = false
	return b.last, true
}

// deliver stores a completion and clears the pending operation. Engine only.
func (b *Bridge) deliver(res domain.Result) {
	b.pending = nil
	b.last = res
	b.hasResult = true
}
