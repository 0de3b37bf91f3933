// Package engine implements the cooperative scheduling core: a single-loop
// run queue of suspendable tasks, the suspension bridge through which a
// task hands over the operation it wants performed, and the dispatch of
// those operations to the signal registry and the reactor.
//
// Exactly one task executes at a time. A task runs until it yields output,
// requests an operation, or finishes; it never loses control involuntarily.
// All registry and reactor state is touched only from inside Run's loop.
// External callers (Submit, PublishExternal, TaskHandle.Cancel) hand work
// into the loop through a submission queue and never mutate shared state
// directly.
package engine
