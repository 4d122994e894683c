package provider

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/spellbridge/spellbridge"
	"github.com/spellbridge/spellbridge/affinity"
	"github.com/spellbridge/spellbridge/engine"
	"github.com/spellbridge/spellbridge/errors"
)

func newProvider(t *testing.T, reg *affinity.Registry, opts ...Option) *Provider {
	t.Helper()
	p, err := New(reg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var serr *errors.Error
	if !stderrors.As(err, &serr) {
		t.Fatalf("expected structured error, got %v", err)
	}
	return serr.Kind
}

func TestProvider_IdentifyDescribe(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)
	defer p.Dispose()

	if p.Identify() != "spellbridge" {
		t.Errorf("unexpected short name %q", p.Identify())
	}
	if p.Describe() != "Spellbridge Provider" {
		t.Errorf("unexpected display name %q", p.Describe())
	}
}

func TestProvider_Scenario(t *testing.T) {
	reg := affinity.NewRegistry()

	// The test holds its own acquisition so it can watch the worker.
	disp := reg.Acquire()

	p := newProvider(t, reg)

	dict, err := p.RequestDict("en_US")
	if err != nil {
		t.Fatalf("RequestDict failed: %v", err)
	}
	if dict.Tag() != "en-US" {
		t.Fatalf("expected translated tag en-US, got %q", dict.Tag())
	}

	verdict, err := dict.Check("tset")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if verdict != spellbridge.Misspelled {
		t.Fatalf("expected misspelled, got %v", verdict)
	}

	suggs, err := dict.Suggest("tset")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if suggs == nil || suggs.Len() == 0 {
		t.Fatal("expected non-empty suggestions")
	}
	found := false
	for _, s := range suggs.Strings() {
		if s == "test" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 'test' among %v", suggs.Strings())
	}
	if err := p.FreeStringList(suggs); err != nil {
		t.Fatalf("FreeStringList failed: %v", err)
	}

	if err := p.DisposeDict(dict); err != nil {
		t.Fatalf("DisposeDict failed: %v", err)
	}
	if err := p.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}

	// The test's acquisition is still live: the worker must be too.
	select {
	case <-disp.Done():
		t.Fatal("worker exited while still referenced")
	default:
	}

	reg.Release()
	select {
	case <-disp.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after final release")
	}
}

func TestProvider_DictionaryExists(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)
	defer p.Dispose()

	sup, err := p.DictionaryExists("en_US")
	if err != nil {
		t.Fatalf("DictionaryExists failed: %v", err)
	}
	if sup != Supported {
		t.Fatal("en_US should be supported")
	}

	sup, err = p.DictionaryExists("xx_XX")
	if err != nil {
		t.Fatalf("DictionaryExists failed: %v", err)
	}
	if sup != Unsupported {
		t.Fatal("xx_XX should be unsupported")
	}

	_, err = p.DictionaryExists("not a tag!!")
	if err == nil {
		t.Fatal("expected malformed tag error")
	}
	if kindOf(t, err) != errors.KindMalformedTag {
		t.Fatalf("expected malformed_tag, got %v", err)
	}
}

func TestProvider_RequestDictUnsupported(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)
	defer p.Dispose()

	dict, err := p.RequestDict("xx_XX")
	if dict != nil {
		t.Fatal("unsupported tag must not yield a dictionary")
	}
	if kindOf(t, err) != errors.KindUnsupportedLanguage {
		t.Fatalf("expected unsupported_language, got %v", err)
	}
}

func TestProvider_ListDicts(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)
	defer p.Dispose()

	list, err := p.ListDicts()
	if err != nil {
		t.Fatalf("ListDicts failed: %v", err)
	}
	defer p.FreeStringList(list)

	if list.Len() == 0 {
		t.Fatal("expected at least one language")
	}
	found := false
	for _, lang := range list.Strings() {
		if lang == "en-US" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected en-US among %v", list.Strings())
	}
}

func TestProvider_FreeStringList(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)
	defer p.Dispose()

	if err := p.FreeStringList(nil); err != nil {
		t.Fatalf("freeing nil should be a no-op: %v", err)
	}

	list, err := p.ListDicts()
	if err != nil {
		t.Fatalf("ListDicts failed: %v", err)
	}
	if err := p.FreeStringList(list); err != nil {
		t.Fatalf("first free failed: %v", err)
	}

	err = p.FreeStringList(list)
	if err == nil {
		t.Fatal("expected double-free to be reported")
	}
	if kindOf(t, err) != errors.KindDoubleFree {
		t.Fatalf("expected double_free, got %v", err)
	}
}

func TestDict_DisposeTwice(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)
	defer p.Dispose()

	dict, err := p.RequestDict("en_US")
	if err != nil {
		t.Fatalf("RequestDict failed: %v", err)
	}

	if err := p.DisposeDict(dict); err != nil {
		t.Fatalf("first DisposeDict failed: %v", err)
	}
	err = p.DisposeDict(dict)
	if err == nil {
		t.Fatal("expected error on second dispose")
	}
	if kindOf(t, err) != errors.KindInvalidHandle {
		t.Fatalf("expected invalid_handle, got %v", err)
	}

	// Operations on a disposed dictionary fail, they do not crash.
	if _, err := dict.Check("test"); err == nil {
		t.Fatal("expected error from disposed dictionary")
	}
}

func TestDict_Mutations(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)
	defer p.Dispose()

	dict, err := p.RequestDict("en_US")
	if err != nil {
		t.Fatalf("RequestDict failed: %v", err)
	}
	defer p.DisposeDict(dict)

	dict.AddToPersonal("spellbridge")
	if v, err := dict.Check("spellbridge"); err != nil || v != spellbridge.Correct {
		t.Fatalf("expected correct after AddToPersonal, got %v, %v", v, err)
	}

	dict.AddToExclude("qwrtz")
	if v, err := dict.Check("qwrtz"); err != nil || v != spellbridge.Correct {
		t.Fatalf("expected correct after AddToExclude, got %v, %v", v, err)
	}

	dict.StoreReplacement("teh", "the")
	suggs, err := dict.Suggest("teh")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if suggs == nil || suggs.Strings()[0] != "the" {
		t.Fatal("stored replacement should rank first")
	}
	p.FreeStringList(suggs)
}

func TestProvider_DisposeTwice(t *testing.T) {
	reg := affinity.NewRegistry()
	disp := reg.Acquire()

	p := newProvider(t, reg)
	if err := p.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if err := p.Dispose(); err == nil {
		t.Fatal("expected error on second Dispose")
	}

	// A double dispose must not release the registry a second time: the
	// test's own acquisition keeps the worker alive.
	select {
	case <-disp.Done():
		t.Fatal("double dispose released the registry twice")
	default:
	}
	reg.Release()
}

func TestProvider_DisposeClosesLeakedDicts(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)

	dict, err := p.RequestDict("en_US")
	if err != nil {
		t.Fatalf("RequestDict failed: %v", err)
	}

	if err := p.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if _, err := dict.Check("test"); err == nil {
		t.Fatal("leaked dictionary should be dead after Dispose")
	}
}

func TestProvider_OperationsAfterDispose(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg)
	if err := p.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}

	if _, err := p.DictionaryExists("en_US"); err == nil {
		t.Fatal("expected error from disposed provider")
	}
	if _, err := p.RequestDict("en_US"); err == nil {
		t.Fatal("expected error from disposed provider")
	}
	if _, err := p.ListDicts(); err == nil {
		t.Fatal("expected error from disposed provider")
	}
}

// failingFactory simulates a service whose construction fails outright.
func failingFactory() (spellbridge.Factory, error) {
	return nil, stderrors.New("no spell service on this host")
}

func TestProvider_FactoryFailureReleasesRegistry(t *testing.T) {
	reg := affinity.NewRegistry()
	disp := reg.Acquire()

	_, err := New(reg, WithFactory(failingFactory))
	if err == nil {
		t.Fatal("expected factory failure to surface")
	}

	// New's acquisition must have been released: only the test's remains.
	reg.Release()
	select {
	case <-disp.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("registry acquisition leaked on factory failure")
	}
}

// countingFactory records calls so tests can prove validation failures
// short-circuit before dispatch.
type countingFactory struct {
	spellbridge.Factory
	checkerCalls *int
}

type countingChecker struct {
	spellbridge.Checker
	calls *int
}

func (f *countingFactory) NewChecker(lang []uint16) (spellbridge.Checker, error) {
	c, err := f.Factory.NewChecker(lang)
	if err != nil {
		return nil, err
	}
	return &countingChecker{Checker: c, calls: f.checkerCalls}, nil
}

func (c *countingChecker) Check(word []uint16) (spellbridge.Verdict, error) {
	*c.calls++
	return c.Checker.Check(word)
}

func TestDict_OversizedWordRejectedBeforeDispatch(t *testing.T) {
	calls := 0
	reg := affinity.NewRegistry()
	p := newProvider(t, reg, WithFactory(func() (spellbridge.Factory, error) {
		eng, err := engine.New()
		if err != nil {
			return nil, err
		}
		return &countingFactory{Factory: eng, checkerCalls: &calls}, nil
	}))
	defer p.Dispose()

	dict, err := p.RequestDict("en_US")
	if err != nil {
		t.Fatalf("RequestDict failed: %v", err)
	}
	defer p.DisposeDict(dict)

	long := strings.Repeat("a", spellbridge.MaxWordLength+1)
	_, err = dict.Check(long)
	if err == nil {
		t.Fatal("expected oversized word to be rejected")
	}
	if kindOf(t, err) != errors.KindOversizedInput {
		t.Fatalf("expected oversized_input, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("oversized word reached the service (%d calls)", calls)
	}

	// A regular word still goes through.
	if _, err := dict.Check("test"); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one service call, got %d", calls)
	}
}

// erroringChecker reports failure from the service itself.
type erroringChecker struct {
	spellbridge.Checker
}

func (c *erroringChecker) Check(word []uint16) (spellbridge.Verdict, error) {
	return spellbridge.Correct, stderrors.New("service hiccup")
}

type erroringFactory struct {
	spellbridge.Factory
}

func (f *erroringFactory) NewChecker(lang []uint16) (spellbridge.Checker, error) {
	c, err := f.Factory.NewChecker(lang)
	if err != nil {
		return nil, err
	}
	return &erroringChecker{Checker: c}, nil
}

func TestDict_ResourceErrorIsDistinctFromMisspelled(t *testing.T) {
	reg := affinity.NewRegistry()
	p := newProvider(t, reg, WithFactory(func() (spellbridge.Factory, error) {
		eng, err := engine.New()
		if err != nil {
			return nil, err
		}
		return &erroringFactory{Factory: eng}, nil
	}))
	defer p.Dispose()

	dict, err := p.RequestDict("en_US")
	if err != nil {
		t.Fatalf("RequestDict failed: %v", err)
	}
	defer p.DisposeDict(dict)

	_, err = dict.Check("anything")
	if err == nil {
		t.Fatal("service failure must surface as an error, not a verdict")
	}
}
