// Package domain defines the core types of the cooperative scheduling
// engine: the Operation variants a task can request, the Result delivered
// when an operation completes, the non-blocking ReadSource contract, and
// the sentinel errors shared across the engine.
package domain
