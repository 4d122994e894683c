// Package errors provides structured error types for the spellbridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the operation, the
// offending input, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindOversizedInput).
//		Op("check").
//		Input(word).
//		Detail("word exceeds %d UTF-16 code units", 128).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OversizedInput("check", word, 128)
//	err := errors.EngineFailure("suggest", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
