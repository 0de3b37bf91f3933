// Package reactor multiplexes the engine's time and I/O wait state: a
// deadline-ordered timer queue for sleeps and operation timeouts, and the
// set of pending non-blocking read registrations.
//
// The reactor holds no goroutines of its own. The engine's scheduling loop
// drives it: FireDue runs expired timer callbacks, PollReads tries each
// registered source once, and NextDeadline tells the loop how long it may
// block before something is due. Like the signal registry, the reactor is
// mutated only from inside that loop.
package reactor
