package engine

import (
	"strings"
	"unicode/utf16"

	"github.com/spellbridge/spellbridge"
	"github.com/spellbridge/spellbridge/errors"
)

// Checker is a per-language checker created by Engine.NewChecker.
// Thread-affine: use only from the goroutine that created it.
type Checker struct {
	guard        guard
	eng          *Engine
	words        *wordlist
	personal     map[string]struct{}
	ignored      map[string]struct{}
	replacements map[string]string
	closed       bool
}

func (c *Checker) correct(word string) bool {
	key := strings.ToLower(word)
	if _, ok := c.ignored[key]; ok {
		return true
	}
	if _, ok := c.personal[key]; ok {
		return true
	}
	return c.words.contains(word)
}

// Check implements spellbridge.Checker. An empty word is correct, the
// way a native checker reports an empty error enumeration.
func (c *Checker) Check(word []uint16) (spellbridge.Verdict, error) {
	if err := c.guard.enter("check"); err != nil {
		return spellbridge.Correct, err
	}
	defer c.guard.leave()

	if c.closed {
		return spellbridge.Correct, errors.Closed(errors.PhaseEngine, "checker")
	}

	w := string(utf16.Decode(word))
	if w == "" || c.correct(w) {
		return spellbridge.Correct, nil
	}
	return spellbridge.Misspelled, nil
}

// Suggest implements spellbridge.Checker. Correct words yield nil, as
// do misspellings with no candidate within the distance cutoff. Stored
// replacements come first, then wordlist entries ranked by edit
// distance.
func (c *Checker) Suggest(word []uint16) ([][]uint16, error) {
	if err := c.guard.enter("suggest"); err != nil {
		return nil, err
	}
	defer c.guard.leave()

	if c.closed {
		return nil, errors.Closed(errors.PhaseEngine, "checker")
	}

	w := string(utf16.Decode(word))
	if w == "" || c.correct(w) {
		return nil, nil
	}

	candidates := suggestions(c.words, c.replacements, w)
	if len(candidates) == 0 {
		return nil, nil
	}

	out := make([][]uint16, len(candidates))
	for i, s := range candidates {
		out[i] = utf16.Encode([]rune(s))
	}
	return out, nil
}

// Add implements spellbridge.Checker.
func (c *Checker) Add(word []uint16) error {
	if err := c.guard.enter("add"); err != nil {
		return err
	}
	defer c.guard.leave()

	if c.closed {
		return errors.Closed(errors.PhaseEngine, "checker")
	}

	w := string(utf16.Decode(word))
	if w == "" {
		return errors.New(errors.PhaseEngine, errors.KindEngineFailure).
			Op("add").Detail("empty word").Build()
	}
	c.personal[strings.ToLower(w)] = struct{}{}
	return nil
}

// AutoCorrect implements spellbridge.Checker.
func (c *Checker) AutoCorrect(from, to []uint16) error {
	if err := c.guard.enter("auto_correct"); err != nil {
		return err
	}
	defer c.guard.leave()

	if c.closed {
		return errors.Closed(errors.PhaseEngine, "checker")
	}

	f := string(utf16.Decode(from))
	t := string(utf16.Decode(to))
	if f == "" || t == "" {
		return errors.New(errors.PhaseEngine, errors.KindEngineFailure).
			Op("auto_correct").Detail("empty replacement pair").Build()
	}
	c.replacements[strings.ToLower(f)] = t
	return nil
}

// Ignore implements spellbridge.Checker.
func (c *Checker) Ignore(word []uint16) error {
	if err := c.guard.enter("ignore"); err != nil {
		return err
	}
	defer c.guard.leave()

	if c.closed {
		return errors.Closed(errors.PhaseEngine, "checker")
	}

	w := string(utf16.Decode(word))
	if w == "" {
		return errors.New(errors.PhaseEngine, errors.KindEngineFailure).
			Op("ignore").Detail("empty word").Build()
	}
	c.ignored[strings.ToLower(w)] = struct{}{}
	return nil
}

// Close implements spellbridge.Checker.
func (c *Checker) Close() error {
	if err := c.guard.enter("close"); err != nil {
		return err
	}
	defer c.guard.leave()

	if c.closed {
		return errors.Closed(errors.PhaseEngine, "checker")
	}
	c.closed = true
	if !c.eng.closed {
		c.eng.forget(c)
	}
	return nil
}
