package cluster

import (
	"fmt"
	"strings"

	an "github.com/dl7eng/atomnet"
	"github.com/dl7eng/atomnet/pbgraph"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Ingest consumes a packed-netlist document against archTypes and store,
// populating and returning one ClusteredBlock per top-level cluster (§4.3).
// store must already hold the atom netlist produced by the external
// gate-level parser; Ingest only reads and cross-references it (via
// FindBlockByName, FindNetByName, SetAtomPb, SetAtomClb, SetAtomClbNet).
func Ingest(doc *Document, archTypes ArchTypes, store *an.Store) ([]*ClusteredBlock, error) {
	if doc.Instance != rootInstance {
		return nil, an.NewSchemaError(fmt.Sprintf("root block instance must be %q, got %q", rootInstance, doc.Instance))
	}

	clusters := make([]*ClusteredBlock, len(doc.Blocks))
	for i, blk := range doc.Blocks {
		cb, err := ingestCluster(i, blk, archTypes, store)
		if err != nil {
			return nil, errors.Wrapf(err, "cluster %d (%s)", i, blk.Name)
		}
		clusters[i] = cb
		logrus.WithFields(logrus.Fields{"cluster": cb.Name, "index": i, "type": cb.Type.Name}).Debug("ingested cluster")
	}

	for _, cb := range clusters {
		if err := fillTransitive(cb); err != nil {
			return nil, errors.Wrapf(err, "cluster %d (%s)", cb.Index, cb.Name)
		}
	}

	for _, b := range store.Blocks() {
		if _, ok := store.AtomClb(b); !ok {
			return nil, an.NewConsistencyError(fmt.Sprintf("atom block %q was never bound to a cluster", store.BlockName(b)))
		}
	}

	logrus.WithField("clusters", len(clusters)).Debug("ingest complete")
	return clusters, nil
}

func ingestCluster(index int, blk Block, archTypes ArchTypes, store *an.Store) (*ClusteredBlock, error) {
	typeName, slot, err := parseInstance(blk.Instance)
	if err != nil {
		return nil, err
	}
	if slot != index {
		return nil, an.NewShapeMismatchError(fmt.Sprintf("cluster instance %s: slot %d does not match cluster index %d", blk.Instance, slot, index))
	}
	t, ok := archTypes.Type(typeName)
	if !ok {
		return nil, an.NewUnknownEntityError(fmt.Sprintf("unknown cluster type %q", typeName))
	}

	width := 0
	for _, p := range blk.Inputs {
		width += len(tokenize(p.Tokens))
	}
	for _, p := range blk.Outputs {
		width += len(tokenize(p.Tokens))
	}
	for _, p := range blk.Clocks {
		width += len(tokenize(p.Tokens))
	}
	if width != t.NumPins {
		return nil, an.NewShapeMismatchError(fmt.Sprintf("cluster %q: external pin count %d does not match type %q's declared %d", blk.Name, width, t.Name, t.NumPins))
	}

	cb := &ClusteredBlock{
		Index: index,
		Name:  blk.Name,
		Type:  t,
		Mode:  blk.Mode,
	}
	cb.routes = make([]routeEntry, maxCountInCluster(t, map[*PbType]bool{})+1)
	for i := range cb.routes {
		cb.routes[i] = routeEntry{net: an.InvalidNetID, prevPin: -1}
	}
	cb.ExternalNets = make([]int, len(cb.routes))
	for i := range cb.ExternalNets {
		cb.ExternalNets[i] = -1
	}

	root, err := buildPb(cb, blk, t, nil, store)
	if err != nil {
		return nil, err
	}
	cb.Root = root
	return cb, nil
}

// buildPb builds and populates one pb instance (blk) of type t. parent is
// nil exactly when blk is a cluster's own top-level block: in that case
// blk's inputs/outputs/clocks tokens are inter-cluster net names, looked up
// directly in store; otherwise they are pin_name->interconnect_name
// expressions resolved against the pin graph (parent's graph for
// inputs/clocks, this pb's own graph for outputs, per §4.2).
func buildPb(cb *ClusteredBlock, blk Block, t *PbType, parent *Pb, store *an.Store) (*Pb, error) {
	pb := &Pb{Name: blk.Name, Type: t, Mode: blk.Mode, Parent: parent}

	var parentGraph *pbgraph.Node
	if parent != nil {
		parentGraph = parent.Type.Graph
	}

	if err := routePorts(cb, blk.Inputs, t.Graph, parentGraph, store); err != nil {
		return nil, err
	}
	if err := routePorts(cb, blk.Clocks, t.Graph, parentGraph, store); err != nil {
		return nil, err
	}

	if t.IsLeaf() {
		atomID, ok := store.FindBlockByName(blk.Name)
		if !ok {
			return nil, an.NewUnknownEntityError(fmt.Sprintf("no atom block named %q", blk.Name))
		}
		pb.Atom = atomID
		store.SetAtomPb(atomID, pb)
		store.SetAtomClb(atomID, cb.Index)
		if parent == nil {
			// Degenerate case: the cluster root is itself a leaf. Its
			// outputs are cluster-boundary pins like any other top-level
			// port, so they resolve the same way inputs/clocks do.
			if err := routePorts(cb, blk.Outputs, t.Graph, nil, store); err != nil {
				return nil, err
			}
			return pb, nil
		}
		// A leaf's output pins carry the net its atom already drives
		// (§4.3.4, "top-level output pins of leaf pbs ... receive their
		// atom-net ID directly"): no interconnect token to resolve.
		if err := bindLeafOutputs(cb, t, atomID, store); err != nil {
			return nil, err
		}
		return pb, nil
	}

	outputsCtx := t.Graph
	if parent == nil {
		outputsCtx = nil
	}
	if err := routePorts(cb, blk.Outputs, t.Graph, outputsCtx, store); err != nil {
		return nil, err
	}

	mode, ok := t.Modes[blk.Mode]
	if !ok {
		return nil, an.NewUnknownEntityError(fmt.Sprintf("pb type %q has no mode %q", t.Name, blk.Mode))
	}

	occupied := map[string]map[int]bool{}
	pb.Children = map[string][]*Pb{}
	for _, child := range blk.Blocks {
		childTypeName, slot, err := parseInstance(child.Instance)
		if err != nil {
			return nil, err
		}
		childType, ok := mode.Child(childTypeName)
		if !ok {
			return nil, an.NewUnknownEntityError(fmt.Sprintf("mode %q has no child type %q", mode.Name, childTypeName))
		}
		if slot < 0 || slot >= childType.Capacity {
			return nil, an.NewShapeMismatchError(fmt.Sprintf("child %s: slot %d out of range [0,%d)", child.Instance, slot, childType.Capacity))
		}
		if occupied[childTypeName] == nil {
			occupied[childTypeName] = map[int]bool{}
		}
		if occupied[childTypeName][slot] {
			return nil, an.NewShapeMismatchError(fmt.Sprintf("duplicate occupancy of %s[%d]", childTypeName, slot))
		}
		occupied[childTypeName][slot] = true

		if pb.Children[childTypeName] == nil {
			pb.Children[childTypeName] = make([]*Pb, childType.Capacity)
		}

		if child.Name == openToken && len(child.Outputs) == 0 {
			pb.Children[childTypeName][slot] = &Pb{Name: openToken, Open: true, Type: childType.Type, Parent: pb}
			continue
		}

		childPb, err := buildPb(cb, child, childType.Type, pb, store)
		if err != nil {
			return nil, errors.Wrapf(err, "child %s", child.Instance)
		}
		pb.Children[childTypeName][slot] = childPb
	}
	return pb, nil
}

// bindLeafOutputs wires a leaf pb's output pins directly to the nets its
// bound atom block's own output pins already carry, matching them by port
// name and bit index.
func bindLeafOutputs(cb *ClusteredBlock, t *PbType, atomID an.BlockID, store *an.Store) error {
	for _, p := range t.Graph.Ports {
		if p.Dir != an.DirOutput {
			continue
		}
		atomPort, ok := findBlockPort(store, atomID, p.Name)
		if !ok {
			return an.NewUnknownEntityError(fmt.Sprintf("atom %q has no output port %q", store.BlockName(atomID), p.Name))
		}
		atomPins := store.PortPins(atomPort)
		if len(atomPins) != len(p.Pins) {
			return an.NewShapeMismatchError(fmt.Sprintf("atom %q port %q: width %d does not match pb type's %d", store.BlockName(atomID), p.Name, len(atomPins), len(p.Pins)))
		}
		for bit, pin := range p.Pins {
			cb.routes[pin.CountInCluster] = routeEntry{net: store.PinNet(atomPins[bit]), prevPin: -1}
		}
	}
	return nil
}

func findBlockPort(store *an.Store, block an.BlockID, name string) (an.PortID, bool) {
	for _, pid := range store.BlockPorts(block) {
		if store.PortName(pid) == name {
			return pid, true
		}
	}
	return an.InvalidPortID, false
}

// routePorts fills cb's pb_route entries for each token in sections,
// resolving this-pin identity against selfGraph and, for a non-top-level
// pb, the upstream reference against ctxGraph.
func routePorts(cb *ClusteredBlock, sections []PortTok, selfGraph, ctxGraph *pbgraph.Node, store *an.Store) error {
	for _, section := range sections {
		for bit, tok := range tokenize(section.Tokens) {
			if tok == openToken {
				continue
			}
			thisPin, err := pbgraph.Resolve(selfGraph, pbgraph.PinExpr{Port: section.Name, Index: bit})
			if err != nil {
				return an.NewUnknownEntityError(err.Error())
			}

			if ctxGraph == nil {
				netID, ok := store.FindNetByName(tok)
				if !ok {
					return an.NewUnknownEntityError(fmt.Sprintf("unknown inter-cluster net %q", tok))
				}
				cb.routes[thisPin.CountInCluster] = routeEntry{net: netID, prevPin: -1}
				continue
			}

			expr, err := pbgraph.ParsePinExpr(tok)
			if err != nil {
				return an.NewSchemaError(err.Error())
			}
			upstream, err := pbgraph.ResolveExpr(ctxGraph, expr)
			if err != nil {
				return an.NewUnknownEntityError(err.Error())
			}
			cb.routes[thisPin.CountInCluster] = routeEntry{net: an.InvalidNetID, prevPin: upstream.CountInCluster}
		}
	}
	return nil
}

// fillTransitive resolves every pb_route entry that has a prevPin but no
// net yet, by recursively following prevPin chains (§4.3.4). The chain is
// acyclic by architecture; a cycle is reported as a ConsistencyError rather
// than looping forever.
func fillTransitive(cb *ClusteredBlock) error {
	for i := range cb.routes {
		if _, err := resolveRoute(cb, i, map[int]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func resolveRoute(cb *ClusteredBlock, pin int, visiting map[int]bool) (an.NetID, error) {
	e := cb.routes[pin]
	if e.net.IsValid() {
		return e.net, nil
	}
	if e.prevPin < 0 {
		return an.InvalidNetID, nil
	}
	if visiting[pin] {
		return an.InvalidNetID, an.NewConsistencyError(fmt.Sprintf("cyclic pb_route at pin %d", pin))
	}
	visiting[pin] = true
	net, err := resolveRoute(cb, e.prevPin, visiting)
	if err != nil {
		return an.InvalidNetID, err
	}
	cb.routes[pin].net = net
	return net, nil
}

// parseInstance splits a "typeName[slot]" instance attribute. The grammar
// is the same port[index] shape the pin-graph resolver already lexes, so
// it is reused here rather than duplicated.
func parseInstance(instance string) (string, int, error) {
	expr, err := pbgraph.ParsePinExpr(instance)
	if err != nil {
		return "", 0, an.NewSchemaError(fmt.Sprintf("malformed instance %q: %v", instance, err))
	}
	if expr.Interconnect != "" {
		return "", 0, an.NewSchemaError(fmt.Sprintf("malformed instance %q", instance))
	}
	return expr.Port, expr.Index, nil
}

// tokenize splits a whitespace-separated port-entry token list.
func tokenize(s string) []string {
	return strings.Fields(s)
}

func maxCountInCluster(t *PbType, visited map[*PbType]bool) int {
	if visited[t] {
		return -1
	}
	visited[t] = true
	max := nodeMaxPin(t.Graph)
	for _, mode := range t.Modes {
		for _, child := range mode.Children {
			if m := maxCountInCluster(child.Type, visited); m > max {
				max = m
			}
		}
	}
	return max
}

func nodeMaxPin(n *pbgraph.Node) int {
	if n == nil {
		return -1
	}
	max := -1
	for _, p := range n.Ports {
		for _, pin := range p.Pins {
			if pin.CountInCluster > max {
				max = pin.CountInCluster
			}
		}
	}
	return max
}
