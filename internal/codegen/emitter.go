package codegen

import (
	"fmt"
	"strings"

	"github.com/shellweave/shellweave/pkg/graph"
)

// lineWriter accumulates emitted script lines with indentation tracking.
type lineWriter struct {
	b      strings.Builder
	indent string
	depth  int
}

func newLineWriter(indent string) *lineWriter {
	return &lineWriter{indent: indent}
}

func (w *lineWriter) push() { w.depth++ }
func (w *lineWriter) pop()  { w.depth-- }

func (w *lineWriter) line(s string) {
	if s == "" {
		w.b.WriteByte('\n')
		return
	}
	for i := 0; i < w.depth; i++ {
		w.b.WriteString(w.indent)
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *lineWriter) linef(format string, args ...any) {
	w.line(fmt.Sprintf(format, args...))
}

func (w *lineWriter) String() string {
	return w.b.String()
}

// cycleComment is the in-band diagnostic emitted in place of a scope
// whose blocks cannot be totally ordered.
func cycleComment(path string) string {
	return fmt.Sprintf("# shellweave: cycle detected in %s; generation aborted for this scope", path)
}

// emitScope sorts, chains, binds, and emits one scope: the blocks of one
// zone or the top level, with an optional implicit input available to
// blocks that have no in-scope predecessor. A cycle is returned as an
// error so the caller decides whether it aborts the whole pass (top
// level) or only the enclosing zone.
func (g *Generator) emitScope(w *lineWriter, path string, blocks []*graph.Block, implicit string, parent *frame) error {
	if len(blocks) == 0 {
		return nil
	}

	sc := newScope(path, blocks, g.snap.Connections, func(code, msg string) {
		g.warn(path, code, msg)
	})

	sorted, err := topoSort(sc)
	if err != nil {
		return err
	}

	_, byBlock := buildChains(sorted, sc)
	fr := newFrame(parent)
	emitted := make(map[string]bool, len(sorted))

	for _, b := range sorted {
		if emitted[b.ID] {
			continue
		}

		if isFlowContainer(b) {
			input := g.resolveUpstream(sc, fr, implicit, b)
			g.emitContainer(w, path, b, input, fr, sc)
			emitted[b.ID] = true
			continue
		}

		// A function block with no in-scope connections is only a
		// definition; the hoisting pass already emitted it.
		if b.Kind == graph.KindFunction && sc.predCount(b.ID) == 0 && sc.succCount(b.ID) == 0 {
			emitted[b.ID] = true
			continue
		}

		c := byBlock[b.ID]
		if c == nil {
			continue
		}

		parts := make([]string, 0, len(c.blocks)+1)
		if upstream := g.resolveUpstream(sc, fr, implicit, c.head()); upstream != "" {
			parts = append(parts, upstream)
		}
		for _, m := range c.blocks {
			parts = append(parts, g.memberExpr(m))
		}
		pipeline := strings.Join(parts, " | ")

		if needsBinding(c.terminal(), sc) {
			name := fr.bind(g.bindings, c.terminal())
			w.linef("$%s = %s", name, pipeline)
		} else {
			w.line(pipeline)
		}

		for _, m := range c.blocks {
			emitted[m.ID] = true
		}
	}

	return nil
}

// resolveUpstream produces the expression a block (or chain head) reads
// its input from: an explicit upstream binding when it has exactly one
// in-scope predecessor, the scope's implicit input when it has none, and
// nothing otherwise. More than one predecessor is structurally
// unexpected; the upstream is left unresolved and a warning recorded
// rather than guessing.
func (g *Generator) resolveUpstream(sc *scope, fr *frame, implicit string, b *graph.Block) string {
	preds := sc.preds[b.ID]
	switch len(preds) {
	case 0:
		return implicit
	case 1:
		if name, ok := fr.lookup(preds[0]); ok {
			return "$" + name
		}
		return ""
	default:
		g.warn(sc.path, graph.ErrCodeValidation,
			fmt.Sprintf("block %s has %d in-scope predecessors; upstream left unresolved", b.ID, len(preds)))
		return ""
	}
}

// memberExpr renders one chain member: a function container contributes
// a call by name, a leaf contributes its command expression.
func (g *Generator) memberExpr(b *graph.Block) string {
	if b.Kind == graph.KindFunction {
		if name, ok := g.funcNames[b.ID]; ok {
			return name
		}
		return sanitizeIdent(b.Title)
	}
	return renderLeaf(b)
}
