// Package signal provides the named publish/subscribe registry that tasks
// wait on.
//
// A task waiting for a signal registers a Waiter under the signal's name;
// publishing to that name resolves every waiter present at that instant
// (broadcast semantics, not single-consumer queue semantics). A publish
// with no waiters is dropped, not buffered. Timeout expiry and task
// cancellation remove a waiter through the same idempotent path, so
// exactly one of publish, timeout, or cancellation wins for any waiter.
//
// The registry is mutated only from inside the engine's scheduling loop,
// which is what makes the win-exactly-once guarantee hold without locks.
// External publishers hand off through the engine, never call Publish
// directly.
package signal
