package diagram

// NodeKind classifies a diagram node by its block kind.
type NodeKind string

const (
	NodeKindCommand   NodeKind = "command"
	NodeKindCondition NodeKind = "condition"
	NodeKindForEach   NodeKind = "foreach"
	NodeKindWhile     NodeKind = "while"
	NodeKindTryCatch  NodeKind = "trycatch"
	NodeKindFunction  NodeKind = "function"
	NodeKindStart     NodeKind = "start"
	NodeKindEnd       NodeKind = "end"
)

// Model is the intermediate representation the renderer consumes.
type Model struct {
	Title string
	Nodes []*Node
	Edges []Edge
}

// Node represents a single block in the diagram.
type Node struct {
	ID       string
	Label    string
	Kind     NodeKind
	Children []*SubGraph // container zones, recursively
}

// SubGraph holds one zone of a container block.
type SubGraph struct {
	Label string
	Nodes []*Node
	Edges []Edge
}

// Edge represents a connection between two blocks.
type Edge struct {
	From  string
	To    string
	Label string
}
