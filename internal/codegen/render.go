package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shellweave/shellweave/pkg/graph"
)

// commandTokenRe matches titles that are already bare command words
// (e.g. "Get-Process", "Sort-Object") and can be emitted verbatim.
var commandTokenRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// renderLeaf builds the inline expression for a leaf block: the command
// token followed by its rendered parameters.
func renderLeaf(b *graph.Block) string {
	parts := []string{commandToken(b.Title)}

	for i := range b.Params {
		p := &b.Params[i]
		name := paramName(p.Name)

		switch p.Type {
		case graph.ParamSwitch:
			if truthy(p.Value) {
				parts = append(parts, "-"+name)
			}
		case graph.ParamRaw:
			parts = append(parts, "-"+name, fmt.Sprintf("%v", p.Value))
		case graph.ParamBool:
			parts = append(parts, "-"+name, boolLiteral(truthy(p.Value)))
		case graph.ParamInt, graph.ParamNumber:
			parts = append(parts, "-"+name, numberLiteral(p.Value))
		case graph.ParamString:
			parts = append(parts, "-"+name, quoteString(fmt.Sprintf("%v", p.Value)))
		default:
			parts = append(parts, "-"+name, quoteString(fmt.Sprintf("%v", p.Value)))
		}
	}

	return strings.Join(parts, " ")
}

// commandToken returns the script command for a block title: verbatim
// when the title is already a bare command word, sanitized otherwise.
func commandToken(title string) string {
	if commandTokenRe.MatchString(title) {
		return title
	}
	return sanitizeIdent(title)
}

func paramName(name string) string {
	if commandTokenRe.MatchString(name) {
		return name
	}
	return sanitizeIdent(name)
}

// quoteString renders a single-quoted script string literal. Embedded
// single quotes are doubled per the target language's escaping rule.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func boolLiteral(v bool) string {
	if v {
		return "$true"
	}
	return "$false"
}

// numberLiteral renders a numeric parameter value. JSON decoding yields
// float64 for all numbers; integral values are printed without a decimal
// point so int-typed params round-trip cleanly.
func numberLiteral(v any) string {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%v", n)
	case int:
		return fmt.Sprintf("%d", n)
	case int64:
		return fmt.Sprintf("%d", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truthy interprets a parameter value as a boolean flag.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1" || t == "yes"
	case float64:
		return t != 0
	case int:
		return t != 0
	case nil:
		return false
	default:
		return false
	}
}
