package domain

import "errors"

// Common errors used across the engine.
var (
	// ErrInvalidArgument is returned when an Operation is constructed with
	// parameters that can never complete (negative durations, zero read
	// lengths, missing signal names). It is rejected at construction, never
	// delivered as a completion.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProtocolViolation is returned when a task breaks the suspension
	// contract: requesting a second operation while one is pending, or
	// emitting output on the same yield that suspends. The offending task
	// is aborted.
	ErrProtocolViolation = errors.New("suspension protocol violation")

	// ErrTimeout is delivered as a task's result when a signal wait or read
	// exceeded its deadline. It is recoverable by the task.
	ErrTimeout = errors.New("operation timed out")

	// ErrIOFailure is delivered as a task's result when the underlying read
	// source reported an error. It is recoverable by the task.
	ErrIOFailure = errors.New("i/o failure")

	// ErrNoProgress is returned by the engine's run loop when tasks are
	// waiting but nothing can ever complete them. It is fatal to the loop.
	ErrNoProgress = errors.New("no progress possible")

	// ErrShutdownInProgress is returned for submissions made while the
	// engine is draining.
	ErrShutdownInProgress = errors.New("shutdown in progress")
)
