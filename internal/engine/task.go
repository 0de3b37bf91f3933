package engine

import (
	"github.com/google/uuid"

	"github.com/phrazzld/strand/internal/domain"
	"github.com/phrazzld/strand/internal/reactor"
	"github.com/phrazzld/strand/internal/signal"
)

// TaskState represents the current state of a task.
type TaskState string

// Possible task state values.
const (
	TaskReady    TaskState = "ready"
	TaskWaiting  TaskState = "waiting"
	TaskFinished TaskState = "finished"
	TaskFailed   TaskState = "failed"
)

// Terminal reports whether the state is final.
func (s TaskState) Terminal() bool {
	return s == TaskFinished || s == TaskFailed
}

// task is the engine's record of one in-flight handler. It is owned by the
// engine loop for its whole life; the adapter only ever sees the TaskHandle.
type task struct {
	id      uuid.UUID
	handler Handler
	state   TaskState
	bridge  Bridge
	handle  *TaskHandle

	// Wait registrations, present only while state == TaskWaiting. At most
	// one of waiter/readSrc is set; timer may accompany either.
	timer   *reactor.Timer
	waiter  *signal.Waiter
	readSrc domain.ReadSource
}

func newTask(h Handler, eng *Engine) *task {
	id := uuid.New()
	t := &task{
		id:      id,
		handler: h,
		state:   TaskReady,
	}
	t.handle = newTaskHandle(id, eng)
	return t
}
