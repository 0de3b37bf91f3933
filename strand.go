// Package strand is the public surface of the strand cooperative
// scheduling engine. It re-exports the engine, operation, and result
// types so that applications depend on a single import path, and it
// provides a convenience constructor that assembles the engine with a
// real clock, a signal registry, and a reactor.
//
// A minimal program looks like:
//
//	eng := strand.New(strand.DefaultConfig(), slog.Default())
//	handle, _ := eng.Submit(myHandler)
//	go eng.Run(context.Background())
package strand

import (
	"log/slog"

	"github.com/phrazzld/strand/internal/domain"
	"github.com/phrazzld/strand/internal/engine"
	"github.com/phrazzld/strand/internal/platform/clock"
	"github.com/phrazzld/strand/internal/reactor"
	"github.com/phrazzld/strand/internal/signal"
)

// Core engine types.
type (
	Engine      = engine.Engine
	Config      = engine.Config
	Handler     = engine.Handler
	HandlerFunc = engine.HandlerFunc
	Bridge      = engine.Bridge
	Yield       = engine.Yield
	TaskHandle  = engine.TaskHandle
	TaskState   = engine.TaskState
)

// Operation and result types.
type (
	Operation  = domain.Operation
	Result     = domain.Result
	ReadSource = domain.ReadSource
)

// Task lifecycle states reported by TaskHandle.State.
const (
	TaskReady    = engine.TaskReady
	TaskWaiting  = engine.TaskWaiting
	TaskFinished = engine.TaskFinished
	TaskFailed   = engine.TaskFailed
)

// Sentinel errors surfaced by engine operations and task results.
var (
	ErrInvalidArgument    = domain.ErrInvalidArgument
	ErrProtocolViolation  = domain.ErrProtocolViolation
	ErrTimeout            = domain.ErrTimeout
	ErrIOFailure          = domain.ErrIOFailure
	ErrNoProgress         = domain.ErrNoProgress
	ErrShutdownInProgress = domain.ErrShutdownInProgress
	ErrWouldBlock         = domain.ErrWouldBlock
	ErrQueueFull          = engine.ErrQueueFull
	ErrAlreadyRunning     = engine.ErrAlreadyRunning
)

// Operation constructors.
var (
	Sleep         = domain.Sleep
	WaitForSignal = domain.WaitForSignal
	ReadBytes     = domain.ReadBytes
)

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return engine.DefaultConfig()
}

// New assembles a ready-to-run engine backed by the system clock.
// A nil logger falls back to slog.Default.
func New(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	clk := clock.New()
	reg := signal.NewRegistry(logger)
	rc := reactor.New(clk, logger)
	return engine.New(cfg, clk, reg, rc, logger)
}
