// Package pbgraph models the read-only architectural pin graph of a pb
// type: its ports and pins, and the interconnect edges between them within
// a selected mode. Construction of this graph is the external
// architecture-XML parser's job; this package only resolves textual pin
// expressions against it.
package pbgraph

import "github.com/dl7eng/atomnet"

// Port is a named, directioned, fixed-width port on a pb_graph_node.
type Port struct {
	Name string
	Dir  atomnet.Direction
	Pins []*Pin
}

// Pin is one bit of a Port. CountInCluster is the flat index the
// architecture assigns this pin within its cluster type — the index a
// pb_route table entry is keyed by.
type Pin struct {
	Port           *Port
	Index          int
	CountInCluster int
	Node           *Node
	Out            []*Edge
}

// Edge is a named interconnect from one pb pin to another, scoped to the
// mode in which it is declared.
type Edge struct {
	Interconnect string
	From         *Pin
	To           *Pin
}

// Node is an architectural pb_graph_node: the pin-level description of one
// pb type (or one pb type's selected mode). Its Ports list covers all of
// the node's input, output and clock ports.
type Node struct {
	Name  string
	Ports []*Port
}

// Port looks up one of node's ports by name.
func (n *Node) Port(name string) (*Port, bool) {
	for _, p := range n.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// AddPort appends a new port to node and returns it. width pins are
// created, each with CountInCluster -1 until the caller (the architecture
// builder) assigns the pin's CountInCluster field directly.
func (n *Node) AddPort(name string, dir atomnet.Direction, width int) *Port {
	p := &Port{Name: name, Dir: dir}
	p.Pins = make([]*Pin, width)
	for i := 0; i < width; i++ {
		p.Pins[i] = &Pin{Port: p, Index: i, Node: n, CountInCluster: -1}
	}
	n.Ports = append(n.Ports, p)
	return p
}

// Connect records a named interconnect edge from "from" to "to", and
// appends it to from's outgoing edge list so ResolveInterconnect can find
// it later.
func Connect(interconnect string, from, to *Pin) *Edge {
	e := &Edge{Interconnect: interconnect, From: from, To: to}
	from.Out = append(from.Out, e)
	return e
}
