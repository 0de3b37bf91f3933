package domain

// Result is the completion delivered to a task when its pending operation
// resolves. Exactly one of the three shapes applies: a success value, an
// end-of-stream marker, or a failure. Failures are recoverable: the task is
// resumed normally and decides itself how to react.
type Result struct {
	// Value holds the operation's produced value on success: the published
	// signal value for a wait, a []byte for a read, nil for a sleep.
	Value any

	// EOF marks a read completion against an exhausted source. It is a
	// success, not a failure.
	EOF bool

	// Err carries the failure when the operation did not succeed, wrapping
	// one of ErrTimeout, ErrIOFailure or ErrProtocolViolation.
	Err error
}

// OK builds a success result carrying v.
func OK(v any) Result {
	return Result{Value: v}
}

// EndOfStream builds the success result for a read against a source that
// has no more data.
func EndOfStream() Result {
	return Result{EOF: true}
}

// Failure builds a failure result carrying err.
func Failure(err error) Result {
	return Result{Err: err}
}

// Failed reports whether the result carries a failure.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Bytes returns the read payload, or nil when the result carries no bytes.
func (r Result) Bytes() []byte {
	b, _ := r.Value.([]byte)
	return b
}
