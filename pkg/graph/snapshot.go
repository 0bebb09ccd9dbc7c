package graph

// ContainerKind classifies a block as a leaf or one of the five
// control-flow containers. The set is closed: every switch over
// ContainerKind in this module is exhaustive.
type ContainerKind string

const (
	KindLeaf      ContainerKind = ""
	KindCondition ContainerKind = "condition"
	KindForEach   ContainerKind = "foreach"
	KindWhile     ContainerKind = "while"
	KindTryCatch  ContainerKind = "trycatch"
	KindFunction  ContainerKind = "function"
)

// Port direction names on the block boundary.
const (
	PortIn  = "in"
	PortOut = "out"
)

// Well-known zone names per container kind.
const (
	ZoneThen  = "then"
	ZoneElse  = "else"
	ZoneBody  = "body"
	ZoneTry   = "try"
	ZoneCatch = "catch"
)

// ParamType enumerates the value kinds a block parameter can carry.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamInt    ParamType = "int"
	ParamNumber ParamType = "number"
	ParamBool   ParamType = "bool"
	ParamSwitch ParamType = "switch"
	ParamRaw    ParamType = "raw"
)

// Block is one node of the authoring graph: a command, a data-flow
// filter, or a control-flow container wrapping nested zones.
type Block struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Category   string        `json:"category,omitempty"`
	Params     []Param       `json:"params,omitempty"`
	OutputName string        `json:"output_name,omitempty"` // explicit binding name, optional
	Kind       ContainerKind `json:"kind,omitempty"`        // empty = leaf
	Condition  string        `json:"condition,omitempty"`   // condition / while guard, raw script text
	InputParam string        `json:"input_param,omitempty"` // function: declared input parameter name
	Enabled    string        `json:"enabled,omitempty"`     // generation-time expression, empty = always
	Zones      []Zone        `json:"zones,omitempty"`       // containers only
}

// IsContainer reports whether the block wraps nested zones.
func (b *Block) IsContainer() bool {
	return b.Kind != KindLeaf
}

// Zone returns the named zone, or nil if the block has no such zone.
func (b *Block) Zone(name string) *Zone {
	for i := range b.Zones {
		if b.Zones[i].Name == name {
			return &b.Zones[i]
		}
	}
	return nil
}

// Param is a typed block parameter with its effective value.
type Param struct {
	Name  string    `json:"name"`
	Type  ParamType `json:"type,omitempty"` // defaults to string
	Value any       `json:"value"`
}

// Zone is a named region inside a container holding an ordered set of
// child blocks. Sibling zones are scoped independently of each other.
type Zone struct {
	Name   string  `json:"name"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Connection is a directed edge from one block's output port to another
// block's input port. An input port accepts at most one connection.
type Connection struct {
	FromBlock string `json:"from_block"`
	FromPort  string `json:"from_port,omitempty"` // defaults to "out"
	ToBlock   string `json:"to_block"`
	ToPort    string `json:"to_port,omitempty"` // defaults to "in"
}

// Snapshot is the frozen, generator-facing view of the authoring graph.
// It is immutable for the duration of a generation call; the editor owns
// it and must not mutate it concurrently with generation.
type Snapshot struct {
	Blocks      []Block        `json:"blocks"`
	Connections []Connection   `json:"connections,omitempty"`
	Inputs      map[string]any `json:"inputs,omitempty"`   // generation-time inputs
	Metadata    map[string]any `json:"metadata,omitempty"` // name, description, etc.
}

// Name returns the snapshot's display name from metadata, or "" if unset.
func (s *Snapshot) Name() string {
	if s.Metadata != nil {
		if name, ok := s.Metadata["name"].(string); ok {
			return name
		}
	}
	return ""
}

// Clone returns a deep copy of the snapshot. The generator works on a
// copy when generation-time expressions rewrite parameter values, so the
// caller's snapshot is never touched.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Blocks:      cloneBlocks(s.Blocks),
		Connections: make([]Connection, len(s.Connections)),
		Inputs:      cloneMap(s.Inputs),
		Metadata:    cloneMap(s.Metadata),
	}
	copy(out.Connections, s.Connections)
	return out
}

func cloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i := range blocks {
		b := blocks[i]
		if b.Params != nil {
			params := make([]Param, len(b.Params))
			copy(params, b.Params)
			b.Params = params
		}
		if b.Zones != nil {
			zones := make([]Zone, len(b.Zones))
			for j := range b.Zones {
				zones[j] = Zone{
					Name:   b.Zones[j].Name,
					Blocks: cloneBlocks(b.Zones[j].Blocks),
				}
			}
			b.Zones = zones
		}
		out[i] = b
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
