package domain

import (
	"fmt"
	"time"
)

// OpKind identifies which asynchronous action an Operation describes.
type OpKind string

// Operation kinds understood by the engine.
const (
	OpSleep      OpKind = "sleep"
	OpWaitSignal OpKind = "wait_signal"
	OpRead       OpKind = "read"
)

// Operation is an immutable description of an asynchronous action a task
// wants performed on its behalf. Build one with Sleep, WaitForSignal or
// ReadBytes; the zero Operation is not valid. Once submitted, an Operation
// is consumed by exactly one completion (success, timeout or failure).
type Operation struct {
	// Kind selects the variant and which of the fields below are meaningful.
	Kind OpKind

	// Duration is the sleep length for OpSleep.
	Duration time.Duration

	// Signal is the awaited signal name for OpWaitSignal.
	Signal string

	// Timeout bounds OpWaitSignal and OpRead. It is always positive for
	// OpWaitSignal; zero leaves an OpRead unbounded.
	Timeout time.Duration

	// Source is the read target for OpRead.
	Source ReadSource

	// MaxLen caps the bytes delivered by a single OpRead completion.
	MaxLen int
}

// Sleep describes a timer that fires once after d elapses. A zero duration
// is valid and fires on the next scheduler pass.
func Sleep(d time.Duration) (Operation, error) {
	if d < 0 {
		return Operation{}, fmt.Errorf("%w: negative sleep duration %v", ErrInvalidArgument, d)
	}
	return Operation{Kind: OpSleep, Duration: d}, nil
}

// WaitForSignal describes a wait for a publish to the named signal, bounded
// by timeout. The timeout is mandatory: a waiter with no deadline and no
// publisher would deadlock the loop.
func WaitForSignal(name string, timeout time.Duration) (Operation, error) {
	if name == "" {
		return Operation{}, fmt.Errorf("%w: empty signal name", ErrInvalidArgument)
	}
	if timeout <= 0 {
		return Operation{}, fmt.Errorf(
			"%w: signal wait timeout must be positive, got %v", ErrInvalidArgument, timeout)
	}
	return Operation{Kind: OpWaitSignal, Signal: name, Timeout: timeout}, nil
}

// ReadBytes describes a non-blocking read of up to maxLen bytes from src.
// A zero timeout leaves the read bounded only by the engine's configured
// default, if any.
func ReadBytes(src ReadSource, maxLen int, timeout time.Duration) (Operation, error) {
	if src == nil {
		return Operation{}, fmt.Errorf("%w: nil read source", ErrInvalidArgument)
	}
	if maxLen <= 0 {
		return Operation{}, fmt.Errorf("%w: read length must be positive, got %d", ErrInvalidArgument, maxLen)
	}
	if timeout < 0 {
		return Operation{}, fmt.Errorf("%w: negative read timeout %v", ErrInvalidArgument, timeout)
	}
	return Operation{Kind: OpRead, Source: src, MaxLen: maxLen, Timeout: timeout}, nil
}
