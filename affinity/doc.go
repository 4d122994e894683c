// Package affinity mediates access to a thread-affine resource through a
// single dedicated worker thread.
//
// A Dispatcher owns exactly one worker goroutine, pinned to its OS thread
// for its whole life. Work submitted with Run or Call from any goroutine
// executes on that thread, one unit at a time, and the submitter blocks
// until its unit has finished. No two units ever run concurrently, so a
// resource created on the worker thread is never touched from anywhere
// else.
//
// # Submission Protocol
//
// The dispatcher keeps a one-slot pending-work queue guarded by a mutex
// and two condition variables. A submitter waits for the slot to be
// empty, installs its unit, wakes the worker, and then waits on the
// unit's one-shot completion channel. The worker executes the unit while
// still holding the mutex, which serializes it against other submitters,
// then clears the slot and loops. Relative order between concurrent
// submissions is unspecified; each unit is atomic with respect to every
// other.
//
// Dispatched work must not call back into Run or Call on the same
// dispatcher; the nested submission would deadlock.
//
// # Shared Ownership
//
// A Registry hands out reference-counted access to one Dispatcher.
// Acquire creates the dispatcher on the 0→1 transition; Release tears it
// down, joining the worker thread, on the 1→0 transition. Registries are
// ordinary values, so independent registries (and therefore independent
// worker threads) can coexist, which keeps tests isolated.
//
// There is no cancellation and no timeout: a submitted unit always runs
// to completion.
package affinity
