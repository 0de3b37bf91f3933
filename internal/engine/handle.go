package engine

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
)

// TaskHandle is the adapter's view of a submitted task. The handle outlives
// the task inside the engine: output chunks buffer here until the adapter
// consumes them, and the terminal state stays observable after the engine
// has forgotten the task.
//
// Handle methods are safe for concurrent use; they never touch engine
// state directly.
type TaskHandle struct {
	id  uuid.UUID
	eng *Engine

	mu     sync.Mutex
	chunks [][]byte
	state  TaskState
	err    error
	notify chan struct{}
}

func newTaskHandle(id uuid.UUID, eng *Engine) *TaskHandle {
	return &TaskHandle{
		id:     id,
		eng:    eng,
		state:  TaskReady,
		notify: make(chan struct{}, 1),
	}
}

// ID returns the task's unique identifier.
func (h *TaskHandle) ID() uuid.UUID {
	return h.id
}

// State returns the task's current state.
func (h *TaskHandle) State() TaskState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Err returns the task's terminal error: the failure for a failed task,
// nil otherwise.
func (h *TaskHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Next returns the task's next output chunk, blocking until one is
// available, the task reaches a terminal state, or ctx is done. Once all
// buffered output is drained from a finished task, Next returns io.EOF;
// for a failed task it returns the task's error.
func (h *TaskHandle) Next(ctx context.Context) ([]byte, error) {
	for {
		h.mu.Lock()
		if len(h.chunks) > 0 {
			chunk := h.chunks[0]
			h.chunks = h.chunks[1:]
			h.mu.Unlock()
			return chunk, nil
		}
		if h.state.Terminal() {
			err := h.err
			h.mu.Unlock()
			if err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		h.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-h.notify:
		}
	}
}

// Cancel withdraws the task from the engine: a waiting task loses its
// registry and reactor registrations without receiving a result, a ready
// task is discarded before its next step, and a finished task is left
// alone. Cancellation is handed off through the engine loop, so it can
// never race a publish or timer firing: whichever reaches the loop first
// wins and the other is a no-op.
func (h *TaskHandle) Cancel() {
	h.eng.enqueueJob(func() {
		h.eng.cancelTask(h.id)
	})
}

// push appends an output chunk. Engine loop only.
func (h *TaskHandle) push(chunk []byte) {
	h.mu.Lock()
	h.chunks = append(h.chunks, chunk)
	h.mu.Unlock()
	h.wake()
}

// setState records a non-terminal state change. Engine loop only.
func (h *TaskHandle) setState(s TaskState) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// complete records the terminal state. Engine loop only.
func (h *TaskHandle) complete(s TaskState, err error) {
	h.mu.Lock()
	h.state = s
	h.err = err
	h.mu.Unlock()
	h.wake()
}

func (h *TaskHandle) wake() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}
