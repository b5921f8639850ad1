// Package scheduler serializes interaction events onto one logical thread.
//
// # Why Scheduler Exists
//
// A session must finish every derived recomputation of one event (handle
// derivation, edge pruning, color assignment) before the next event is
// observed. Transports deliver events from their own goroutines, so the
// scheduler funnels them through a single loop that owns the session.
//
// # How It Works
//
//  1. Submit wraps the event in a request with a reply channel
//  2. Run receives requests one at a time and calls Session.Handle
//  3. The reply carries the snapshot or the rejection back to the caller
//  4. Run returns when its context is cancelled or Stop is called
//
// A caller whose context ends before Run takes its request gets the context
// error and the event is never applied. Once Run has the request the caller
// waits for the real outcome, so a reported rejection always means the
// session is unchanged.
package scheduler
