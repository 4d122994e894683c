// Package provider exposes the public spell-check surface.
//
// A Provider wraps a thread-affine spellbridge.Factory: the factory is
// constructed inside dispatched work on the shared affinity worker and
// is only ever dereferenced there. Every public operation follows one
// template: validate and convert its inputs, build a single closure
// over them and the resource reference, dispatch it, and return the
// result directly. Provider and Dict are therefore safe to call from
// any goroutine.
//
// # Ownership
//
// Constructing a Provider acquires the affinity registry; Dispose
// releases it, exactly once, after the factory has been torn down on
// the worker. Dictionaries live from RequestDict to DisposeDict.
// String lists returned by Suggest and ListDicts stay owned by the
// provider's bookkeeping until FreeStringList; freeing one twice is
// reported as an error.
//
// # Error Policy
//
// Validation failures are reported before any work is dispatched.
// Failures inside the service surface as the operation's error return;
// there are no retries. The mutation operations (AddToPersonal,
// StoreReplacement, AddToExclude) are best-effort: failures are logged,
// not returned.
package provider
