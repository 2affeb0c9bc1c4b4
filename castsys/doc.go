// Package castsys is an in-process actor runtime: cooperative,
// message-driven concurrency over a bounded worker pool. Application code
// defines actors — stateful entities identified by an ActorID — that
// communicate only by asynchronous Message sends. Each actor's mailbox is
// drained strictly sequentially; the runtime multiplexes arbitrarily many
// actors onto a fixed POOL_SIZE of worker goroutines, guaranteeing that at
// most one worker ever executes a given actor at a time.
//
// There is at most one System alive per process. Create one with
// CreateSystem, send to actors with Send, and wait for it to terminate
// with SystemJoin.
package castsys
