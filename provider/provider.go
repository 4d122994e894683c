package provider

import (
	"sync"

	"go.uber.org/zap"

	"github.com/spellbridge/spellbridge"
	"github.com/spellbridge/spellbridge/affinity"
	"github.com/spellbridge/spellbridge/engine"
	"github.com/spellbridge/spellbridge/errors"
	"github.com/spellbridge/spellbridge/resource"
	"github.com/spellbridge/spellbridge/transcode"
)

const (
	identify = "spellbridge"
	describe = "Spellbridge Provider"
)

// Support is the tri-state result of DictionaryExists. Errors travel on
// the error return, so callers can tell "inconclusive" apart from
// "unsupported".
type Support int

const (
	Unsupported Support = iota
	Supported
)

func (s Support) String() string {
	if s == Supported {
		return "supported"
	}
	return "unsupported"
}

// FactoryFunc constructs the thread-affine service. It runs inside
// dispatched work on the worker thread.
type FactoryFunc func() (spellbridge.Factory, error)

// Option configures a Provider.
type Option func(*config)

type config struct {
	factory FactoryFunc
	log     *zap.Logger
}

// WithFactory overrides the default engine-backed factory.
func WithFactory(fn FactoryFunc) Option {
	return func(c *config) { c.factory = fn }
}

// WithLogger sets the provider's logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.log = l }
}

// Provider is the public spell-check surface. Safe for concurrent use.
type Provider struct {
	reg  *affinity.Registry
	disp *affinity.Dispatcher

	// factory is dereferenced only inside dispatched closures.
	factory spellbridge.Factory

	dicts *resource.Table[*Dict]
	lists *resource.Table[*StringList]
	log   *zap.Logger

	mu       sync.Mutex
	disposed bool
}

// New acquires the registry's dispatcher and constructs the factory on
// the worker thread. If factory construction fails the acquisition is
// released before returning, so the registry count does not leak.
func New(reg *affinity.Registry, opts ...Option) (*Provider, error) {
	cfg := config{
		factory: func() (spellbridge.Factory, error) { return engine.New() },
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	disp := reg.Acquire()

	factory, err := affinity.Call(disp, func() (spellbridge.Factory, error) {
		if serr := disp.SetupErr(); serr != nil {
			// Setup failure was non-fatal to the dispatcher; it becomes
			// fatal here, where the resource is actually created.
			return nil, errors.EngineFailure("init", serr)
		}
		return cfg.factory()
	})
	if err != nil {
		reg.Release()
		return nil, err
	}

	return &Provider{
		reg:     reg,
		disp:    disp,
		factory: factory,
		dicts:   resource.NewTable[*Dict](),
		lists:   resource.NewTable[*StringList](),
		log:     cfg.log,
	}, nil
}

// Identify returns the provider's short name.
func (p *Provider) Identify() string { return identify }

// Describe returns the provider's display name.
func (p *Provider) Describe() string { return describe }

func (p *Provider) ensureLive() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return errors.Closed(errors.PhaseProvider, "provider")
	}
	return nil
}

// DictionaryExists reports whether a dictionary can be created for tag.
// The tag uses the caller-facing "xx_YY" form.
func (p *Provider) DictionaryExists(tag string) (Support, error) {
	if err := p.ensureLive(); err != nil {
		return Unsupported, err
	}

	units, _, err := transcode.Tag("dictionary_exists", tag)
	if err != nil {
		return Unsupported, err
	}

	ok, err := affinity.Call(p.disp, func() (bool, error) {
		return p.factory.IsSupported(units)
	})
	if err != nil {
		return Unsupported, err
	}
	if ok {
		return Supported, nil
	}
	return Unsupported, nil
}

// RequestDict creates a dictionary for tag. An unsupported tag yields a
// nil dictionary and an unsupported-language error, never a dictionary
// in an error state.
func (p *Provider) RequestDict(tag string) (*Dict, error) {
	if err := p.ensureLive(); err != nil {
		return nil, err
	}

	units, translated, err := transcode.Tag("request_dict", tag)
	if err != nil {
		return nil, err
	}

	checker, err := affinity.Call(p.disp, func() (spellbridge.Checker, error) {
		return p.factory.NewChecker(units)
	})
	if err != nil {
		return nil, err
	}

	d := &Dict{
		provider: p,
		checker:  checker,
		tag:      translated,
	}
	d.handle = p.dicts.Insert(d)
	if d.handle == 0 {
		// Lost the race against Dispose; undo the checker.
		_ = affinity.Do(p.disp, checker.Close)
		return nil, errors.Closed(errors.PhaseProvider, "provider")
	}

	p.log.Debug("dictionary created", zap.String("lang", translated))
	return d, nil
}

// DisposeDict tears down a dictionary. Disposing one twice is an
// invalid-handle error, not a crash.
func (p *Provider) DisposeDict(d *Dict) error {
	if d == nil {
		return errors.InvalidHandle("dispose_dict")
	}
	if _, ok := p.dicts.Remove(d.handle); !ok {
		return errors.InvalidHandle("dispose_dict")
	}

	err := affinity.Do(p.disp, d.checker.Close)
	if err != nil {
		p.log.Warn("checker teardown failed",
			zap.String("lang", d.tag), zap.Error(err))
	}
	return err
}

// ListDicts returns every language tag the provider can create a
// dictionary for, as a host-owned string list.
func (p *Provider) ListDicts() (*StringList, error) {
	if err := p.ensureLive(); err != nil {
		return nil, err
	}

	raw, err := affinity.Call(p.disp, func() ([][]uint16, error) {
		return p.factory.SupportedLanguages()
	})
	if err != nil {
		return nil, err
	}

	return p.newStringList(transcode.DecodeAll("list_dicts", raw))
}

// Dispose tears down the factory on the worker thread and releases the
// registry acquisition, exactly once, even when teardown reports an
// error. Dictionaries the host leaked are closed first.
func (p *Provider) Dispose() error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return errors.Closed(errors.PhaseProvider, "provider")
	}
	p.disposed = true
	p.mu.Unlock()

	var leaked []*Dict
	p.dicts.Each(func(_ resource.Handle, d *Dict) bool {
		leaked = append(leaked, d)
		return true
	})
	for _, d := range leaked {
		if _, ok := p.dicts.Remove(d.handle); ok {
			p.log.Warn("dictionary leaked at dispose", zap.String("lang", d.tag))
			_ = affinity.Do(p.disp, d.checker.Close)
		}
	}

	err := affinity.Do(p.disp, p.factory.Close)

	_ = p.dicts.Close()
	_ = p.lists.Close()
	p.reg.Release()

	return err
}
