package cluster

import "github.com/dl7eng/atomnet/pbgraph"

// ArchTypes resolves top-level (CLB) type descriptors by name. Parsing the
// architecture description that produces these descriptors is outside this
// package's concern (§1); callers supply one built from already-parsed
// architecture data, or use StaticArchTypes for tests and small embedded
// architectures.
type ArchTypes interface {
	Type(name string) (*PbType, bool)
}

// PbType is an architectural pb type. A leaf type (a primitive: LUT,
// flip-flop, pad) has no modes. A non-leaf type selects exactly one of its
// Modes per instance.
type PbType struct {
	Name    string
	NumPins int // total external pin count of this type, across all ports
	Graph   *pbgraph.Node
	Modes   map[string]*Mode
}

// Mode is one of a pb type's mutually exclusive child layouts.
type Mode struct {
	Name     string
	Children []ChildType
}

// ChildType is one named, capacity-bounded child-type slot within a mode:
// the packed-netlist document's "type[slot]" instance tokens for children
// of this type must have slot in [0, Capacity).
type ChildType struct {
	Type     *PbType
	Capacity int
}

// Child looks up mode's declared child slot for typeName.
func (m *Mode) Child(typeName string) (ChildType, bool) {
	for _, c := range m.Children {
		if c.Type.Name == typeName {
			return c, true
		}
	}
	return ChildType{}, false
}

// IsLeaf reports whether t is a primitive pb type with no child modes.
func (t *PbType) IsLeaf() bool {
	return len(t.Modes) == 0
}

// StaticArchTypes is an in-memory ArchTypes keyed by top-level type name,
// the form a caller gets from fully parsing an architecture description up
// front.
type StaticArchTypes map[string]*PbType

// Type implements ArchTypes.
func (s StaticArchTypes) Type(name string) (*PbType, bool) {
	t, ok := s[name]
	return t, ok
}
