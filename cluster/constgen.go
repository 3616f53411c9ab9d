package cluster

import (
	"fmt"

	an "github.com/dl7eng/atomnet"
)

// MarkConstantGenerators recursively descends every cluster's pb tree
// looking for constant generators: leaf primitives, other than a primary
// input, whose every input and clock pin is unconnected in pb_route
// (§4.5). Each one found must already be a block whose own truth table
// encodes a constant function in the atom netlist; MarkConstantGenerators
// only propagates that pre-existing fact onto the net it drives, it never
// originates it.
func MarkConstantGenerators(clusters []*ClusteredBlock, store *an.Store) error {
	for _, cb := range clusters {
		if cb.Root == nil {
			continue
		}
		if err := markPb(cb, cb.Root, store); err != nil {
			return err
		}
	}
	return nil
}

func markPb(cb *ClusteredBlock, pb *Pb, store *an.Store) error {
	if pb.Open {
		return nil
	}
	if pb.Type.IsLeaf() {
		if pb.Atom.IsValid() && isConstantGenerator(cb, pb, store) {
			if err := markOutputsConstant(pb, store); err != nil {
				return err
			}
		}
		return nil
	}
	for _, instances := range pb.Children {
		for _, child := range instances {
			if child == nil {
				continue
			}
			if err := markPb(cb, child, store); err != nil {
				return err
			}
		}
	}
	return nil
}

func isConstantGenerator(cb *ClusteredBlock, pb *Pb, store *an.Store) bool {
	if store.BlockType(pb.Atom) == an.BlockInpad {
		return false
	}
	for _, p := range pb.Type.Graph.Ports {
		if p.Dir != an.DirInput && p.Dir != an.DirClock {
			continue
		}
		for _, pin := range p.Pins {
			if cb.RouteNet(pin.CountInCluster).IsValid() {
				return false
			}
		}
	}
	return true
}

// markOutputsConstant asserts that pb.Atom is itself an atom-level constant
// generator — a combinational block whose truth table has no input columns,
// so it drives the same logic value regardless of any connection — and
// raises a ConsistencyError if it isn't. Only once that holds does it flag
// every net the block drives as constant.
func markOutputsConstant(pb *Pb, store *an.Store) error {
	if store.BlockType(pb.Atom) != an.BlockCombinational || !store.BlockTruthTable(pb.Atom).IsConstant() {
		return an.NewConsistencyError(fmt.Sprintf("expected constant-generator output whose driver %q is not marked constant", store.BlockName(pb.Atom)))
	}
	for _, p := range store.BlockOutputPins(pb.Atom) {
		if netID := store.PinNet(p); netID.IsValid() {
			store.SetNetConstant(netID, true)
		}
	}
	return nil
}
