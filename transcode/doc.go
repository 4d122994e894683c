// Package transcode converts text crossing the service boundary.
//
// All strings on the public API are UTF-8; all strings handed to the
// thread-affine service are UTF-16 code units. Conversion is lossless
// for every valid code point and rejects input longer than
// spellbridge.MaxWordLength code units rather than truncating it.
//
// Language tags arrive in the two-part form "xx_YY" and are translated
// to the service's "xx-YY" form. Translated tags are validated with
// golang.org/x/text/language so malformed tags fail before any work is
// dispatched.
package transcode
