package engine

import (
	_ "embed"
	"sort"
	"strings"
	"sync/atomic"
	"unicode/utf16"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/spellbridge/spellbridge"
	"github.com/spellbridge/spellbridge/errors"
)

//go:embed words_en_US.txt
var embeddedEnUS string

// guard detects overlapping access to a thread-affine value. The native
// services this engine stands in for corrupt state or crash when called
// concurrently; the guard turns that hazard into a diagnosable error.
type guard struct {
	busy atomic.Int32
}

func (g *guard) enter(op string) error {
	if !g.busy.CompareAndSwap(0, 1) {
		return errors.ConcurrentAccess(op)
	}
	return nil
}

func (g *guard) leave() {
	g.busy.Store(0)
}

// wordlist is one language's dictionary.
type wordlist struct {
	tag   string              // display form, e.g. "en-US"
	words map[string]struct{} // lowercased
	list  []string            // original order, for suggestions
}

func parseWordlist(tag, raw string) *wordlist {
	wl := &wordlist{
		tag:   tag,
		words: make(map[string]struct{}),
	}
	for _, line := range strings.Split(raw, "\n") {
		word := strings.TrimSpace(line)
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		wl.add(word)
	}
	return wl
}

func (wl *wordlist) add(word string) {
	key := strings.ToLower(word)
	if _, ok := wl.words[key]; ok {
		return
	}
	wl.words[key] = struct{}{}
	wl.list = append(wl.list, word)
}

func (wl *wordlist) contains(word string) bool {
	_, ok := wl.words[strings.ToLower(word)]
	return ok
}

// Engine is the default spellbridge.Factory. Thread-affine: use only
// from the goroutine that created it.
type Engine struct {
	guard  guard
	dicts  map[string]*wordlist // key: lowercased tag
	open   []*Checker
	closed bool
	log    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWordlist registers an additional language. tag is the service's
// native form ("de-DE"); words is the dictionary content.
func WithWordlist(tag string, words []string) Option {
	return func(e *Engine) {
		wl := &wordlist{tag: tag, words: make(map[string]struct{})}
		for _, w := range words {
			wl.add(w)
		}
		e.dicts[strings.ToLower(tag)] = wl
	}
}

// WithLogger sets the engine instance's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine with the embedded en-US wordlist plus any
// registered extras.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		dicts: map[string]*wordlist{
			"en-us": parseWordlist("en-US", embeddedEnUS),
		},
		log: Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// IsSupported implements spellbridge.Factory.
func (e *Engine) IsSupported(lang []uint16) (bool, error) {
	if err := e.guard.enter("is_supported"); err != nil {
		return false, err
	}
	defer e.guard.leave()

	if e.closed {
		return false, errors.Closed(errors.PhaseEngine, "factory")
	}

	tag := string(utf16.Decode(lang))
	_, ok := e.dicts[strings.ToLower(tag)]
	return ok, nil
}

// SupportedLanguages implements spellbridge.Factory.
func (e *Engine) SupportedLanguages() ([][]uint16, error) {
	if err := e.guard.enter("supported_languages"); err != nil {
		return nil, err
	}
	defer e.guard.leave()

	if e.closed {
		return nil, errors.Closed(errors.PhaseEngine, "factory")
	}

	tags := make([]string, 0, len(e.dicts))
	for _, wl := range e.dicts {
		tags = append(tags, wl.tag)
	}
	sort.Strings(tags)

	out := make([][]uint16, len(tags))
	for i, tag := range tags {
		out[i] = utf16.Encode([]rune(tag))
	}
	return out, nil
}

// NewChecker implements spellbridge.Factory.
func (e *Engine) NewChecker(lang []uint16) (spellbridge.Checker, error) {
	if err := e.guard.enter("new_checker"); err != nil {
		return nil, err
	}
	defer e.guard.leave()

	if e.closed {
		return nil, errors.Closed(errors.PhaseEngine, "factory")
	}

	tag := string(utf16.Decode(lang))
	wl, ok := e.dicts[strings.ToLower(tag)]
	if !ok {
		return nil, errors.UnsupportedLanguage("new_checker", tag)
	}

	c := &Checker{
		eng:          e,
		words:        wl,
		personal:     make(map[string]struct{}),
		ignored:      make(map[string]struct{}),
		replacements: make(map[string]string),
	}
	e.open = append(e.open, c)
	e.log.Debug("checker created", zap.String("lang", wl.tag))
	return c, nil
}

// Close implements spellbridge.Factory. Checkers still open are closed
// too; their errors are aggregated.
func (e *Engine) Close() error {
	if err := e.guard.enter("close"); err != nil {
		return err
	}
	defer e.guard.leave()

	if e.closed {
		return errors.Closed(errors.PhaseEngine, "factory")
	}
	e.closed = true

	open := e.open
	e.open = nil

	var errAll error
	for _, c := range open {
		if !c.closed {
			errAll = multierr.Append(errAll, c.Close())
		}
	}
	return errAll
}

// forget drops a closed checker from the open list.
func (e *Engine) forget(c *Checker) {
	for i, open := range e.open {
		if open == c {
			e.open = append(e.open[:i], e.open[i+1:]...)
			return
		}
	}
}
