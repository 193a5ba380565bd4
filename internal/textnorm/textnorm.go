// Package textnorm canonicalizes text for matching and storage.
//
// Registry pages are written in Slovak and carry diacritics that vary between
// precomposed and combining forms. Every extracted value and every label used
// for lookup goes through Normalize so that substring matching is reliable and
// output files contain plain ASCII.
package textnorm

import (
	"io"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonASCII matches every rune outside the ASCII range.
var nonASCII = runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})

// newTransformer returns a fresh NFKD-and-strip transformer.
// Transformers are stateful, so each call site gets its own chain.
func newTransformer() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(nonASCII))
}

// Normalize decomposes s (NFKD) and drops every non-ASCII code point.
// Decomposition splits letters such as "č" into "c" plus a combining caron,
// and the caron is then removed with the rest of the non-ASCII runes.
// The result is stable: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if isASCII(s) {
		return s
	}
	out, _, err := transform.String(newTransformer(), s)
	if err != nil {
		// transform.String only fails on transformer errors, which the
		// NFKD and Remove transformers never produce for valid input.
		return stripNonASCII(s)
	}
	return out
}

// Ptr normalizes an optional value.
// A nil or empty input yields nil: missing and blank text are treated alike.
func Ptr(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	out := Normalize(*s)
	return &out
}

// Reader wraps r so that everything read from it is normalized.
func Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, newTransformer())
}

// isASCII reports whether s contains only ASCII bytes.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// stripNonASCII is the fallback used when the transformer chain fails.
func stripNonASCII(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII {
			out = append(out, r)
		}
	}
	return string(out)
}
