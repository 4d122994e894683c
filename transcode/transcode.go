package transcode

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/spellbridge/spellbridge"
	"github.com/spellbridge/spellbridge/errors"
)

// Encode converts a UTF-8 string to UTF-16 code units. op names the
// public operation for error context. Input longer than
// spellbridge.MaxWordLength code units is rejected.
func Encode(op, s string) ([]uint16, error) {
	if !utf8.ValidString(s) {
		return nil, errors.InvalidUTF8(op, s)
	}

	units := utf16.Encode([]rune(s))
	if len(units) > spellbridge.MaxWordLength {
		return nil, errors.OversizedInput(op, s, spellbridge.MaxWordLength)
	}
	return units, nil
}

// Decode converts UTF-16 code units back to a UTF-8 string, with the
// same length cap as Encode.
func Decode(op string, units []uint16) (string, error) {
	if len(units) > spellbridge.MaxWordLength {
		return "", errors.OversizedInput(op, string(utf16.Decode(units[:32])), spellbridge.MaxWordLength)
	}
	return string(utf16.Decode(units)), nil
}

// DecodeAll converts a list of UTF-16 strings, dropping entries that
// exceed the cap. Used for suggestion and language enumerations coming
// back from the service.
func DecodeAll(op string, lists [][]uint16) []string {
	out := make([]string, 0, len(lists))
	for _, units := range lists {
		s, err := Decode(op, units)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Tag translates a caller-facing language tag of the form "xx_YY" into
// the service's "xx-YY" form, validates it, and encodes it to UTF-16.
// The translated string is also returned for bookkeeping.
func Tag(op, tag string) ([]uint16, string, error) {
	if !utf8.ValidString(tag) {
		return nil, "", errors.InvalidUTF8(op, tag)
	}

	translated := strings.ReplaceAll(tag, "_", "-")
	if _, err := language.Parse(translated); err != nil {
		return nil, "", errors.MalformedTag(op, tag, err)
	}

	units, err := Encode(op, translated)
	if err != nil {
		return nil, "", err
	}
	return units, translated, nil
}
