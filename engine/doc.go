// Package engine provides the default thread-affine spell-check service.
//
// Engine implements spellbridge.Factory over in-memory wordlists: an
// embedded en-US list by default, plus any lists registered with
// WithWordlist. Checkers keep per-instance personal words, ignored
// words, and stored replacements; nothing is persisted.
//
// # Thread Affinity
//
// Engine and its checkers are deliberately thread-affine, like the
// native services they stand in for: every value carries a guard that
// fails a call outright when it overlaps another call on the same
// value. Construct and use them only inside work dispatched through an
// affinity.Dispatcher.
//
// # Checking Semantics
//
//	Check    correct when the word is in the wordlist, the personal
//	         list, or the ignore list (case-insensitive)
//	Suggest  nil for correct words; otherwise stored replacements first,
//	         then wordlist entries within edit distance 2, closest first
//	Add      adds to the checker's personal list
//	Ignore   excludes the word for the checker's lifetime
//
// All strings crossing into the engine are UTF-16 code units, matching
// the spellbridge contracts.
package engine
