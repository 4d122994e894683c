package provider

import (
	"github.com/spellbridge/spellbridge/errors"
	"github.com/spellbridge/spellbridge/resource"
)

// StringList is a host-owned list of strings returned by Suggest and
// ListDicts. The provider tracks each outstanding list; the one legal
// release path is Provider.FreeStringList. Internally the list is an
// ordinary slice; the ownership convention lives only at this edge.
type StringList struct {
	strings []string
	handle  resource.Handle
}

// Strings returns the list contents. The returned slice stays valid
// until the list is freed.
func (l *StringList) Strings() []string { return l.strings }

// Len returns the number of entries.
func (l *StringList) Len() int { return len(l.strings) }

func (p *Provider) newStringList(strings []string) (*StringList, error) {
	l := &StringList{strings: strings}
	l.handle = p.lists.Insert(l)
	if l.handle == 0 {
		return nil, errors.Closed(errors.PhaseProvider, "provider")
	}
	return l, nil
}

// FreeStringList releases a list returned by Suggest or ListDicts.
// Freeing nil is a no-op, matching the usual host convention; freeing
// the same list twice is a double-free error.
func (p *Provider) FreeStringList(l *StringList) error {
	if l == nil {
		return nil
	}
	if _, ok := p.lists.Remove(l.handle); !ok {
		return errors.DoubleFree("free_string_list")
	}
	l.strings = nil
	return nil
}
