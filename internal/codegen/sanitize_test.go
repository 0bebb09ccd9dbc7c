package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIdent(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"fetch users", "FetchUsers"},
		{"get-active-sessions", "GetActiveSessions"},
		{"already_snake_case", "AlreadySnakeCase"},
		{"dotted.value", "DottedValue"},
		{"Mixed CASE title", "MixedCASETitle"},
		{"emoji 🚀 launch", "EmojiLaunch"},
		{"   spaced   out   ", "SpacedOut"},
		{"123 count", "N123Count"},
		{"!!!", "Item"},
		{"", "Item"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeIdent(tc.in), "input %q", tc.in)
	}
}

func TestSanitizeIdentIsIdempotent(t *testing.T) {
	for _, s := range []string{"fetch users", "Get-Process", "a b c d e"} {
		once := sanitizeIdent(s)
		assert.Equal(t, once, sanitizeIdent(once))
	}
}

func TestIDSuffix(t *testing.T) {
	assert.Equal(t, "a1b2", idSuffix("a1b2c3d4"))
	assert.Equal(t, "ab12", idSuffix("ab-12-xyz"))
	assert.Equal(t, "x1", idSuffix("x1"))
	assert.Equal(t, "0000", idSuffix("----"))
	assert.Equal(t, "0000", idSuffix(""))
	// Multibyte runes still cut at four characters.
	assert.Equal(t, "abcé", idSuffix("abcé123456"))
	assert.Equal(t, "éé12", idSuffix("éé123456"))
}
