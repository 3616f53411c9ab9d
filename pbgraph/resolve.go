package pbgraph

import "github.com/pkg/errors"

// UnknownPin reports that a pin expression named a port or bit index that
// does not exist on the node it was resolved against.
type UnknownPin struct {
	Node  string
	Port  string
	Index int
}

func (e *UnknownPin) Error() string {
	return errors.Errorf("node %q has no pin %s[%d]", e.Node, e.Port, e.Index).Error()
}

// UnknownInterconnect reports that a pin's "->interconnect_name" suffix
// named an interconnect not present among that pin's outgoing edges.
type UnknownInterconnect struct {
	Port         string
	Index        int
	Interconnect string
}

func (e *UnknownInterconnect) Error() string {
	return errors.Errorf("pin %s[%d] has no outgoing interconnect %q", e.Port, e.Index, e.Interconnect).Error()
}

// Resolve looks up expr's port[index] against node, independent of any
// "->interconnect" suffix it may carry. Callers choose which node to
// resolve against: the parent pb_graph_node when expr names one of the
// parent's own ports (as seen at an input or clock pin of a child pb), or
// the child pb_graph_node itself when expr names one of the child's output
// ports.
func Resolve(node *Node, expr PinExpr) (*Pin, error) {
	port, ok := node.Port(expr.Port)
	if !ok {
		return nil, &UnknownPin{Node: node.Name, Port: expr.Port, Index: expr.Index}
	}
	if expr.Index < 0 || expr.Index >= len(port.Pins) {
		return nil, &UnknownPin{Node: node.Name, Port: expr.Port, Index: expr.Index}
	}
	return port.Pins[expr.Index], nil
}

// ResolveInterconnect finds the outgoing edge of pin whose interconnect
// name equals name. It fails when pin has no such edge, which signals
// either an architecture inconsistency or a pin the current mode leaves
// unconnected.
func ResolveInterconnect(pin *Pin, name string) (*Edge, error) {
	for _, e := range pin.Out {
		if e.Interconnect == name {
			return e, nil
		}
	}
	return nil, &UnknownInterconnect{Port: pin.Port.Name, Index: pin.Index, Interconnect: name}
}

// ResolveExpr resolves expr fully against node: it looks up the port[index]
// pair and, if expr carries an "->interconnect" suffix, also checks that
// pin has a matching outgoing edge. The interconnect name only gates
// whether expr is valid; the pin returned is always the one resolved from
// port[index], never the edge's destination.
func ResolveExpr(node *Node, expr PinExpr) (*Pin, error) {
	pin, err := Resolve(node, expr)
	if err != nil {
		return nil, err
	}
	if expr.Interconnect == "" {
		return pin, nil
	}
	if _, err := ResolveInterconnect(pin, expr.Interconnect); err != nil {
		return nil, err
	}
	return pin, nil
}
