package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shellweave/shellweave/pkg/graph"
)

func TestBindingTableCollisionSuffix(t *testing.T) {
	tbl := newBindingTable()

	assert.Equal(t, "Result", tbl.assign("aaaa", "Result"))
	assert.Equal(t, "Result_bbbb", tbl.assign("bbbb", "Result"))
	// Case-insensitive collision detection.
	assert.Equal(t, "RESULT_cccc", tbl.assign("cccc", "RESULT"))
}

func TestBindingNamesUniqueAcrossSharedIdentityPrefix(t *testing.T) {
	tbl := newBindingTable()

	// Identical titles and identical identity suffixes: a single suffix
	// pass would hand the second and third block the same name.
	a := leaf("blk-001", "Fetch data")
	b := leaf("blk-002", "Fetch data")
	c := leaf("blk-003", "Fetch data")

	assert.Equal(t, "FetchData_blk0", bindingName(tbl, &a))
	assert.Equal(t, "FetchData_blk0_blk0", bindingName(tbl, &b))
	assert.Equal(t, "FetchData_blk0_blk02", bindingName(tbl, &c))
}

func TestFrameLookupWalksParentChain(t *testing.T) {
	tbl := newBindingTable()
	root := newFrame(nil)
	child := newFrame(root)

	b := leaf("a1", "Get-Process")
	name := root.bind(tbl, &b)

	got, ok := child.lookup("a1")
	assert.True(t, ok)
	assert.Equal(t, name, got)

	_, ok = root.lookup("missing")
	assert.False(t, ok)
}

func TestFrameSiblingsAreIsolated(t *testing.T) {
	tbl := newBindingTable()
	root := newFrame(nil)
	left := newFrame(root)
	right := newFrame(root)

	b := leaf("a1", "Get-Process")
	left.bind(tbl, &b)

	_, ok := right.lookup("a1")
	assert.False(t, ok)
}

func TestBindingNamePrefersExplicitOutputName(t *testing.T) {
	tbl := newBindingTable()

	b := leaf("abcd", "Fetch users")
	b.OutputName = "user list"
	assert.Equal(t, "UserList", bindingName(tbl, &b))

	// Without an explicit name, the title carries an identity suffix.
	c := leaf("wxyz", "Fetch users")
	assert.Equal(t, "FetchUsers_wxyz", bindingName(tbl, &c))
}

func TestNeedsBinding(t *testing.T) {
	loop := graph.Block{ID: "loop", Title: "Loop", Kind: graph.KindForEach}
	blocks := []graph.Block{
		leaf("solo", "Solo"),
		leaf("fan", "Fan"),
		leaf("x", "X"),
		leaf("y", "Y"),
		leaf("feed", "Feed"),
		loop,
	}
	sc := testScope(t, blocks,
		conn("fan", "x"),
		conn("fan", "y"),
		conn("feed", "loop"),
		conn("loop", "x"),
	)

	assert.False(t, needsBinding(sc.byID["solo"], sc), "no consumers")
	assert.True(t, needsBinding(sc.byID["fan"], sc), "fan-out")
	assert.True(t, needsBinding(sc.byID["feed"], sc), "feeds a container")
	assert.True(t, needsBinding(sc.byID["loop"], sc), "container with a consumer")
	assert.False(t, needsBinding(sc.byID["x"], sc), "plain consumer")

	named := leaf("named", "Named")
	named.OutputName = "Out"
	assert.True(t, needsBinding(&named, sc), "explicit output name")
}
