package codegen

import (
	"strconv"
	"strings"

	"github.com/shellweave/shellweave/pkg/graph"
)

// bindingTable is the pass-wide, append-only arena of generated variable
// names, keyed by block identity. It exists for the lifetime of one
// generation call and also tracks taken names so explicit user names
// never collide.
type bindingTable struct {
	names map[string]string // block ID -> variable name
	taken map[string]bool   // lowercase variable name -> taken
}

func newBindingTable() *bindingTable {
	return &bindingTable{
		names: make(map[string]string),
		taken: make(map[string]bool),
	}
}

// assign records a name for a block in the arena, resolving collisions
// until the final name is unused. Returns the final name.
func (t *bindingTable) assign(blockID, name string) string {
	name = uniqueName(t.taken, name, blockID)
	t.names[blockID] = name
	t.taken[strings.ToLower(name)] = true
	return name
}

// uniqueName resolves base against the taken set: first by appending the
// block's identity suffix, then a counter, until the name is unused.
// Identity suffixes are not unique across blocks (identities only need
// to be stable, not uuid-shaped), so a single suffix pass is not enough.
// Lookups are case insensitive; the caller marks the result as taken.
func uniqueName(taken map[string]bool, base, blockID string) string {
	name := base
	if taken[strings.ToLower(name)] {
		name = base + "_" + idSuffix(blockID)
	}
	for n := 2; taken[strings.ToLower(name)]; n++ {
		name = base + "_" + idSuffix(blockID) + strconv.Itoa(n)
	}
	return name
}

// frame is the per-recursion view of bindings: names created in the
// current scope plus, via the parent chain, everything bound by ancestor
// scopes. Sibling zones never see each other's frames.
type frame struct {
	parent *frame
	local  map[string]string // block ID -> variable name
}

func newFrame(parent *frame) *frame {
	return &frame{parent: parent, local: make(map[string]string)}
}

// lookup resolves a block's binding, walking the lexical chain upward.
func (f *frame) lookup(blockID string) (string, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if name, ok := cur.local[blockID]; ok {
			return name, true
		}
	}
	return "", false
}

// bind creates a binding for a block, recording it in both the current
// frame and the pass-wide arena.
func (f *frame) bind(t *bindingTable, b *graph.Block) string {
	name := bindingName(t, b)
	f.local[b.ID] = name
	return name
}

// bindingName picks the variable name for a block: an explicit user-set
// output name is sanitized and used verbatim, otherwise the sanitized
// title with a short identity suffix keeps names unique across blocks
// sharing a display title.
func bindingName(t *bindingTable, b *graph.Block) string {
	if b.OutputName != "" {
		return t.assign(b.ID, sanitizeIdent(b.OutputName))
	}
	return t.assign(b.ID, sanitizeIdent(b.Title)+"_"+idSuffix(b.ID))
}

// needsBinding decides whether a chain terminal (or standalone flow
// container) must capture its result into a named binding: its output
// fans out to more than one in-scope consumer, it feeds a flow
// container's input port (containers consume a named reference, never a
// streamed pipeline stage), it is itself a flow container with any
// consumer, or the user asked for a named capture explicitly.
func needsBinding(b *graph.Block, sc *scope) bool {
	if b.OutputName != "" {
		return true
	}
	succs := sc.succs[b.ID]
	if len(succs) > 1 {
		return true
	}
	if isFlowContainer(b) && len(succs) > 0 {
		return true
	}
	for _, succID := range succs {
		if succ, ok := sc.byID[succID]; ok && isFlowContainer(succ) {
			return true
		}
	}
	return false
}
