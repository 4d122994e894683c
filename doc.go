// Package spellbridge exposes a goroutine-agnostic spell-check provider
// over a stateful, thread-affine spell-check service.
//
// Many native spell-check services (COM apartments, GUI-toolkit spell
// engines, single-threaded runtimes) may only be touched from the one
// thread that created them. This library makes such a service usable
// from any goroutine by routing every call through a dedicated worker
// thread.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	spellbridge/     Root package with the thread-affine service contracts
//	├── provider/    Public provider and dictionary API
//	├── affinity/    Worker-thread dispatcher and shared registry
//	├── engine/      Default wordlist-backed spell-check service
//	├── transcode/   UTF-8/UTF-16 and language-tag conversion
//	├── resource/    Handle table for host-owned values
//	└── errors/      Structured error types for debugging
//
// # Quick Start
//
// Create a provider and check a word:
//
//	reg := affinity.NewRegistry()
//
//	prov, err := provider.New(reg, provider.WithFactory(func() (spellbridge.Factory, error) {
//	    return engine.New()
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer prov.Dispose()
//
//	dict, err := prov.RequestDict("en_US")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer prov.DisposeDict(dict)
//
//	verdict, err := dict.Check("tset")
//	fmt.Println(verdict) // "misspelled"
//
// # Thread Safety
//
// Provider and Dict are safe for concurrent use from any goroutine.
// Factory and Checker implementations are NOT: they are only ever
// invoked from inside dispatched work on the worker thread, and must
// never be called directly.
//
// # String Boundaries
//
// All strings crossing the public API are UTF-8. All strings crossing
// into a Factory or Checker are UTF-16 code units. Conversion rejects
// input longer than MaxWordLength code units rather than truncating.
package spellbridge
