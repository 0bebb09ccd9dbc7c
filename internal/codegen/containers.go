package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shellweave/shellweave/pkg/graph"
)

// emitContainer dispatches a flow container to its emission strategy.
// Each strategy emits the construct's opening syntax, recursively emits
// its zone contents with the appropriate implicit input, and closes it.
// When the container's result is consumed downstream its whole construct
// is captured into a binding.
func (g *Generator) emitContainer(w *lineWriter, path string, b *graph.Block, input string, fr *frame, sc *scope) {
	bound := ""
	if needsBinding(b, sc) {
		bound = fr.bind(g.bindings, b)
	}

	switch b.Kind {
	case graph.KindCondition:
		g.emitCondition(w, path, b, input, bound, fr)
	case graph.KindForEach:
		g.emitForEach(w, path, b, input, bound, fr)
	case graph.KindWhile:
		g.emitWhile(w, path, b, input, bound, fr)
	case graph.KindTryCatch:
		g.emitTryCatch(w, path, b, input, bound, fr)
	case graph.KindLeaf, graph.KindFunction:
		// Never dispatched here: leaves and functions go through chains.
	}
}

// emitCondition emits the conditional construct. The primary branch is
// always emitted; the secondary branch only when its zone is non-empty.
// Both branches inherit the resolved container input.
func (g *Generator) emitCondition(w *lineWriter, path string, b *graph.Block, input, bound string, fr *frame) {
	cond := guardExpr(b, input)
	closing := "}"
	if bound != "" {
		w.linef("$%s = $(if (%s) {", bound, cond)
		closing = "})"
	} else {
		w.linef("if (%s) {", cond)
	}

	w.push()
	g.emitZone(w, childPath(path, b, graph.ZoneThen), b.Zone(graph.ZoneThen), input, fr)
	w.pop()

	if elseZone := b.Zone(graph.ZoneElse); elseZone != nil && len(elseZone.Blocks) > 0 {
		w.line("} else {")
		w.push()
		g.emitZone(w, childPath(path, b, graph.ZoneElse), elseZone, input, fr)
		w.pop()
	}

	w.line(closing)
}

// emitForEach emits the iteration construct. The resolved input is piped
// into it; the body's implicit input becomes the per-element automatic
// variable, not a user-named binding.
func (g *Generator) emitForEach(w *lineWriter, path string, b *graph.Block, input, bound string, fr *frame) {
	var open strings.Builder
	if bound != "" {
		fmt.Fprintf(&open, "$%s = ", bound)
	}
	if input != "" {
		open.WriteString(input)
		open.WriteString(" | ")
	}
	open.WriteString("ForEach-Object {")
	w.line(open.String())

	w.push()
	g.emitZone(w, childPath(path, b, graph.ZoneBody), b.Zone(graph.ZoneBody), "$_", fr)
	w.pop()
	w.line("}")
}

// emitWhile emits a loop guarded by the user-authored condition. The
// body's implicit input is the resolved container input: this form binds
// no per-element variable automatically.
func (g *Generator) emitWhile(w *lineWriter, path string, b *graph.Block, input, bound string, fr *frame) {
	guard := guardExpr(b, input)
	closing := "}"
	if bound != "" {
		w.linef("$%s = $(while (%s) {", bound, guard)
		closing = "})"
	} else {
		w.linef("while (%s) {", guard)
	}

	w.push()
	g.emitZone(w, childPath(path, b, graph.ZoneBody), b.Zone(graph.ZoneBody), input, fr)
	w.pop()
	w.line(closing)
}

// emitTryCatch emits the error-isolation construct. The protected zone
// receives the container input. The recovery zone gets no implicit
// input: the originating failure is not threaded into it automatically.
func (g *Generator) emitTryCatch(w *lineWriter, path string, b *graph.Block, input, bound string, fr *frame) {
	closing := "}"
	if bound != "" {
		w.linef("$%s = $(try {", bound)
		closing = "})"
	} else {
		w.line("try {")
	}

	w.push()
	g.emitZone(w, childPath(path, b, graph.ZoneTry), b.Zone(graph.ZoneTry), input, fr)
	w.pop()

	w.line("} catch {")
	w.push()
	g.emitZone(w, childPath(path, b, graph.ZoneCatch), b.Zone(graph.ZoneCatch), "", fr)
	w.pop()
	w.line(closing)
}

// emitZone recursively emits a zone's children; a cycle inside the zone
// degrades to an in-band diagnostic without failing sibling scopes.
func (g *Generator) emitZone(w *lineWriter, path string, z *graph.Zone, implicit string, fr *frame) {
	if err := g.emitScope(w, path, zoneBlocks(z), implicit, fr); err != nil {
		w.line(cycleComment(path))
		g.warn(path, graph.ErrCodeCycleDetected, err.Error())
	}
}

// inputPlaceholderRe matches the $input token user-authored guards use
// to reference the value flowing into the container.
var inputPlaceholderRe = regexp.MustCompile(`\$input\b`)

// guardExpr returns the guard of a conditional or loop container. The
// $input placeholder in a user-authored condition is replaced with the
// resolved container input. A conditional with no authored condition
// tests its input directly; with neither, the guard degrades to $true.
func guardExpr(b *graph.Block, input string) string {
	cond := strings.TrimSpace(b.Condition)
	if cond == "" {
		if b.Kind == graph.KindCondition && input != "" {
			return input
		}
		return "$true"
	}
	if input != "" {
		cond = inputPlaceholderRe.ReplaceAllString(cond, input)
	}
	return cond
}

func childPath(path string, b *graph.Block, zone string) string {
	return fmt.Sprintf("%s/%s.%s", path, b.ID, zone)
}
