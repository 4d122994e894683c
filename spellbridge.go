package spellbridge

// MaxWordLength is the maximum length, in UTF-16 code units, of any
// word or tag passed to a Factory or Checker. Longer input is rejected
// by the conversion layer, never truncated.
const MaxWordLength = 128

// Verdict is the outcome of a spell check.
type Verdict int

const (
	// Correct means the word is spelled correctly.
	Correct Verdict = iota
	// Misspelled means the checker found at least one spelling error.
	Misspelled
)

func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Misspelled:
		return "misspelled"
	default:
		return "unknown"
	}
}

// Factory creates per-language Checker instances.
//
// Factory is thread-affine: it may only be called from the goroutine
// (and OS thread) that created it. The provider package guarantees this
// by constructing and invoking factories exclusively inside work
// dispatched to the affinity worker.
//
// Language tags are UTF-16 code units in the service's native form
// (e.g. "en-US", not "en_US").
type Factory interface {
	// IsSupported reports whether a checker can be created for lang.
	IsSupported(lang []uint16) (bool, error)

	// SupportedLanguages returns every language tag the service can
	// create a checker for.
	SupportedLanguages() ([][]uint16, error)

	// NewChecker creates a checker for lang. The checker inherits the
	// factory's thread affinity.
	NewChecker(lang []uint16) (Checker, error)

	// Close releases the factory. No checker created by it may be used
	// afterwards.
	Close() error
}

// Checker is a per-language spell checker.
//
// Checker is thread-affine: call only from the goroutine that created
// it, inside dispatched work.
type Checker interface {
	// Check reports whether word is spelled correctly.
	Check(word []uint16) (Verdict, error)

	// Suggest returns corrections for word, or nil if the word is
	// correct or no suggestions are available.
	Suggest(word []uint16) ([][]uint16, error)

	// Add puts word in the user's personal dictionary.
	Add(word []uint16) error

	// AutoCorrect stores a replacement for a misspelling.
	AutoCorrect(from, to []uint16) error

	// Ignore excludes word from checking for this checker's lifetime.
	Ignore(word []uint16) error

	// Close releases the checker.
	Close() error
}
