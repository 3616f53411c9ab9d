package atomnet

import "strconv"

// A Model describes the shape of a primitive or black-box cell: its name
// and the names/directions of the ports every block built from it carries.
// Models are interned and shared by pointer — many blocks reference the
// same *Model — so a Model is immutable once published by a ModelLibrary.
type Model struct {
	Name      string
	InPorts   []string
	OutPorts  []string
	ClkPorts  []string
	BlackBox  bool // true for .subckt models the emitter must redeclare
}

// Built-in model names. Every atom netlist has at least these two: the
// generic combinational LUT model and the generic sequential latch model.
// Blocks of any other model are black boxes from this core's point of view.
const (
	ModelNames = "names"
	ModelLatch = "latch"
)

// ModelLibrary interns Models by name so that blocks that share a model
// share the same *Model pointer, per the "shared immutable model pointers"
// design note: models outlive the netlist and carry no back-references.
type ModelLibrary struct {
	byName map[string]*Model
}

// NewModelLibrary returns a library pre-populated with the two built-in
// models every gate-level netlist requires.
func NewModelLibrary() *ModelLibrary {
	l := &ModelLibrary{byName: make(map[string]*Model)}
	l.byName[ModelNames] = &Model{Name: ModelNames, InPorts: []string{"in"}, OutPorts: []string{"out"}}
	l.byName[ModelLatch] = &Model{Name: ModelLatch, InPorts: []string{"D"}, OutPorts: []string{"Q"}, ClkPorts: []string{"clk"}}
	return l
}

// Intern returns the shared *Model for name, creating and registering a
// black-box entry the first time name is seen. Subsequent calls with the
// same name (and the same in/out/clk port lists) return the same pointer.
func (l *ModelLibrary) Intern(name string, inPorts, outPorts, clkPorts []string) *Model {
	if m, ok := l.byName[name]; ok {
		return m
	}
	m := &Model{Name: name, InPorts: inPorts, OutPorts: outPorts, ClkPorts: clkPorts, BlackBox: name != ModelNames && name != ModelLatch}
	l.byName[name] = m
	return m
}

// Lookup returns the interned model for name, if any.
func (l *ModelLibrary) Lookup(name string) (*Model, bool) {
	m, ok := l.byName[name]
	return m, ok
}

// Models returns every interned model, including the two built-ins.
func (l *ModelLibrary) Models() []*Model {
	out := make([]*Model, 0, len(l.byName))
	for _, m := range l.byName {
		out = append(out, m)
	}
	return out
}

// busPinName builds the per-bit pin name used when a port is expanded from
// a bus declaration, e.g. busPinName("in", 2) == "in[2]". Grounded on the
// corpus's own bus-name conventions (see hwlib's bus() helper and the
// teacher's BusPinName).
func busPinName(name string, bit int) string {
	return name + "[" + strconv.Itoa(bit) + "]"
}
