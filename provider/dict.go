package provider

import (
	"go.uber.org/zap"

	"github.com/spellbridge/spellbridge"
	"github.com/spellbridge/spellbridge/affinity"
	"github.com/spellbridge/spellbridge/errors"
	"github.com/spellbridge/spellbridge/resource"
	"github.com/spellbridge/spellbridge/transcode"
)

// Dict is one live dictionary. Safe for concurrent use; the underlying
// checker is only ever touched inside dispatched work.
//
// A Dict moves through exactly one lifecycle: created by RequestDict,
// destroyed by DisposeDict. Operations on a disposed Dict report an
// invalid-handle error.
type Dict struct {
	provider *Provider
	checker  spellbridge.Checker
	tag      string
	handle   resource.Handle
}

// Tag returns the dictionary's language tag in the service's "xx-YY"
// form.
func (d *Dict) Tag() string { return d.tag }

func (d *Dict) ensureLive(op string) error {
	if _, ok := d.provider.dicts.Get(d.handle); !ok {
		return errors.InvalidHandle(op)
	}
	return nil
}

// Check reports whether word is spelled correctly. The error return is
// distinct from a Misspelled verdict, so "inconclusive" never looks
// like "has errors".
func (d *Dict) Check(word string) (spellbridge.Verdict, error) {
	if err := d.ensureLive("check"); err != nil {
		return spellbridge.Correct, err
	}
	units, err := transcode.Encode("check", word)
	if err != nil {
		return spellbridge.Correct, err
	}

	return affinity.Call(d.provider.disp, func() (spellbridge.Verdict, error) {
		return d.checker.Check(units)
	})
}

// Suggest returns corrections for word as a host-owned string list, or
// nil when the word is correct or nothing qualifies. Release the list
// with Provider.FreeStringList.
func (d *Dict) Suggest(word string) (*StringList, error) {
	if err := d.ensureLive("suggest"); err != nil {
		return nil, err
	}
	units, err := transcode.Encode("suggest", word)
	if err != nil {
		return nil, err
	}

	raw, err := affinity.Call(d.provider.disp, func() ([][]uint16, error) {
		return d.checker.Suggest(units)
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	return d.provider.newStringList(transcode.DecodeAll("suggest", raw))
}

// bestEffort runs one mutation operation, logging instead of returning
// failures. The native services treat these as fire-and-forget.
func (d *Dict) bestEffort(op string, fn func() error) {
	if err := d.ensureLive(op); err != nil {
		d.provider.log.Debug("mutation skipped",
			zap.String("op", op), zap.Error(err))
		return
	}
	if err := affinity.Do(d.provider.disp, fn); err != nil {
		d.provider.log.Debug("mutation failed",
			zap.String("op", op), zap.String("lang", d.tag), zap.Error(err))
	}
}

// AddToPersonal adds word to the user's personal dictionary.
// Best-effort: failures are logged, not returned.
func (d *Dict) AddToPersonal(word string) {
	units, err := transcode.Encode("add_to_personal", word)
	if err != nil {
		d.provider.log.Debug("mutation rejected", zap.Error(err))
		return
	}
	d.bestEffort("add_to_personal", func() error {
		return d.checker.Add(units)
	})
}

// StoreReplacement records corrected as the preferred replacement for
// misspelled. Best-effort: failures are logged, not returned.
func (d *Dict) StoreReplacement(misspelled, corrected string) {
	from, err := transcode.Encode("store_replacement", misspelled)
	if err != nil {
		d.provider.log.Debug("mutation rejected", zap.Error(err))
		return
	}
	to, err := transcode.Encode("store_replacement", corrected)
	if err != nil {
		d.provider.log.Debug("mutation rejected", zap.Error(err))
		return
	}
	d.bestEffort("store_replacement", func() error {
		return d.checker.AutoCorrect(from, to)
	})
}

// AddToExclude puts word on the exclusion list for this dictionary's
// lifetime. Best-effort: failures are logged, not returned.
func (d *Dict) AddToExclude(word string) {
	units, err := transcode.Encode("add_to_exclude", word)
	if err != nil {
		d.provider.log.Debug("mutation rejected", zap.Error(err))
		return
	}
	d.bestEffort("add_to_exclude", func() error {
		return d.checker.Ignore(units)
	})
}
