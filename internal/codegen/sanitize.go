package codegen

import (
	"strings"
	"unicode"
)

// fallbackIdent is returned when a display string sanitizes to nothing.
const fallbackIdent = "Item"

// sanitizeIdent maps an arbitrary display string to a valid script
// identifier: split on common separators, capitalize each fragment,
// concatenate, strip anything non-alphanumeric. Deterministic and pure.
func sanitizeIdent(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.' || r == '\t'
	})

	var b strings.Builder
	for _, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		for _, r := range runes {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
	}

	out := b.String()
	if out == "" {
		return fallbackIdent
	}
	// Identifiers must not start with a digit.
	if unicode.IsDigit(rune(out[0])) {
		out = "N" + out
	}
	return out
}

// idSuffix returns the first few alphanumeric characters of a block
// identity, used to keep generated names unique across blocks that share
// a display title.
func idSuffix(id string) string {
	var b strings.Builder
	n := 0
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			n++
		}
		// Count runes, not bytes: a multibyte rune must not widen the cut.
		if n == 4 {
			break
		}
	}
	if n == 0 {
		return "0000"
	}
	return b.String()
}
