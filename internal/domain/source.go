package domain

import "errors"

// ErrWouldBlock is returned by TryRead when the source has no data available
// yet. The engine keeps the read registered and polls again later.
var ErrWouldBlock = errors.New("read would block")

// ReadSource is the non-blocking read primitive the engine consumes for
// read operations. The transport layer owns the source; the engine only
// polls it from inside the scheduling loop.
//
// TryRead must never block. It returns up to maxLen bytes, or eof=true once
// the stream is exhausted, or ErrWouldBlock when nothing is available yet.
// Any other error is delivered to the waiting task as an I/O failure.
type ReadSource interface {
	TryRead(maxLen int) (data []byte, eof bool, err error)
}
