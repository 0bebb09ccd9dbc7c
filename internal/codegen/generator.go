package codegen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shellweave/shellweave/internal/logging"
	"github.com/shellweave/shellweave/pkg/graph"
)

// SnapshotResolver rewrites generation-time expressions (parameter
// interpolation, enabled flags) on a working snapshot before emission.
// Implemented by internal/expressions.
type SnapshotResolver interface {
	Apply(ctx context.Context, snap *graph.Snapshot) ([]graph.Issue, error)
}

// Generator turns a frozen graph snapshot into a script. It carries
// per-pass mutable binder state and is therefore NOT safe for concurrent
// use: every concurrent generation request needs its own instance.
type Generator struct {
	logger   *slog.Logger
	resolver SnapshotResolver
	indent   string

	// Per-pass state, reset at the start of every Generate call.
	snap      *graph.Snapshot
	bindings  *bindingTable
	funcNames map[string]string
	warnings  []graph.Issue
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithIndent sets the indentation unit of the emitted script.
func WithIndent(indent string) Option {
	return func(g *Generator) { g.indent = indent }
}

// WithResolver enables generation-time expression resolution.
func WithResolver(r SnapshotResolver) Option {
	return func(g *Generator) { g.resolver = r }
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		logger: slog.Default(),
		indent: "    ",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the outcome of one generation pass. Failure to order a scope
// is reported in-band in Script (a diagnostic comment and no executable
// content), never as a structured error; Warnings carries the
// non-fatal diagnostics collected along the way.
type Result struct {
	Script   string
	Warnings []graph.Issue
}

// Generate emits the script for a snapshot. The snapshot is treated as
// immutable: when generation-time expressions need resolving, the
// generator works on a deep copy. Repeated calls over an identical
// snapshot produce byte-identical output.
func (g *Generator) Generate(ctx context.Context, snap *graph.Snapshot) *Result {
	g.bindings = newBindingTable()
	g.funcNames = make(map[string]string)
	g.warnings = nil

	ctx = logging.WithGenerationID(ctx, uuid.New().String())
	log := logging.LogWith(ctx, g.logger)
	log.Debug("generation started", slog.Int("blocks", len(snap.Blocks)))

	working := snap
	if g.resolver != nil {
		working = snap.Clone()
		issues, err := g.resolver.Apply(ctx, working)
		g.warnings = append(g.warnings, issues...)
		if err != nil {
			g.warn("inputs", graph.ErrCodeExpression, err.Error())
		}
	}
	g.snap = working

	topLevel := make([]*graph.Block, 0, len(working.Blocks))
	for i := range working.Blocks {
		topLevel = append(topLevel, &working.Blocks[i])
	}

	// Callable definitions are hoisted: collected up-front (nested ones
	// included) and emitted before the main execution section.
	funcs := collectFunctions(topLevel)
	g.nameFunctions(funcs)

	defScope := newScope("functions", funcs, working.Connections, func(code, msg string) {
		g.warn("functions", code, msg)
	})
	sortedFuncs, err := topoSort(defScope)
	if err != nil {
		return g.abort("functions", err)
	}

	w := newLineWriter(g.indent)
	if name := working.Name(); name != "" {
		w.linef("# %s", name)
		w.line("")
	}

	for _, fb := range sortedFuncs {
		g.emitFunction(w, fb)
		w.line("")
	}

	if err := g.emitScope(w, "main", topLevel, "", nil); err != nil {
		return g.abort("main", err)
	}

	log.Debug("generation finished",
		slog.Int("functions", len(sortedFuncs)),
		slog.Int("warnings", len(g.warnings)))

	return &Result{Script: w.String(), Warnings: g.warnings}
}

// abort produces the diagnostic-only result for a top-level cycle: the
// whole pass is discarded and the script contains no executable content.
func (g *Generator) abort(path string, err error) *Result {
	g.warn(path, graph.ErrCodeCycleDetected, err.Error())
	g.logger.Warn("generation aborted", slog.String("scope", path), slog.String("error", err.Error()))
	return &Result{Script: cycleComment(path) + "\n", Warnings: g.warnings}
}

// emitFunction emits one hoisted callable definition. The declared input
// parameter, when present, becomes the body zone's implicit input; the
// body's bindings are scoped to the function, not the main pass.
func (g *Generator) emitFunction(w *lineWriter, b *graph.Block) {
	name := g.funcNames[b.ID]
	w.linef("function %s {", name)
	w.push()

	implicit := ""
	if b.InputParam != "" {
		param := sanitizeIdent(b.InputParam)
		w.linef("param($%s)", param)
		implicit = "$" + param
	}

	g.emitZone(w, "function:"+name, b.Zone(graph.ZoneBody), implicit, nil)
	w.pop()
	w.line("}")
}

// nameFunctions assigns each callable a deterministic script name:
// sanitized title, identity-suffixed (and counter-suffixed) on collision.
func (g *Generator) nameFunctions(funcs []*graph.Block) {
	taken := make(map[string]bool, len(funcs))
	for _, b := range funcs {
		name := uniqueName(taken, sanitizeIdent(b.Title), b.ID)
		taken[strings.ToLower(name)] = true
		g.funcNames[b.ID] = name
	}
}

// collectFunctions gathers function containers from the given blocks and
// every nested zone, in snapshot order.
func collectFunctions(blocks []*graph.Block) []*graph.Block {
	var out []*graph.Block
	for _, b := range blocks {
		if b.Kind == graph.KindFunction {
			out = append(out, b)
		}
		for z := range b.Zones {
			out = append(out, collectFunctions(zoneBlocks(&b.Zones[z]))...)
		}
	}
	return out
}

func (g *Generator) warn(path, code, msg string) {
	g.warnings = append(g.warnings, graph.Issue{
		Path:     path,
		Code:     code,
		Message:  msg,
		Severity: graph.SeverityWarning,
	})
}
