package cluster

import (
	"fmt"

	an "github.com/dl7eng/atomnet"
	"github.com/dl7eng/atomnet/pbgraph"
)

// ExtractNets walks every cluster's external pins in canonical order
// (inputs, then outputs, then clocks, in pb-port declaration order),
// interning each distinct atom net it finds into a compact external-net
// index shared across all clusters, and records that index on both the
// cluster side (ClusteredBlock.ExternalNets) and the atom-net side
// (Store.SetAtomClbNet). It also checks that every net's pins agree on
// whether they carry a global (clock) signal, and that every name in
// circuitClocks names a net so flagged (§4.4).
func ExtractNets(clusters []*ClusteredBlock, circuitClocks []string, store *an.Store) error {
	index := map[an.NetID]int{}
	next := 0

	for _, cb := range clusters {
		for _, pin := range canonicalPins(cb.Type.Graph) {
			netID := cb.RouteNet(pin.CountInCluster)
			if !netID.IsValid() {
				continue
			}
			i, ok := index[netID]
			if !ok {
				i = next
				next++
				index[netID] = i
				store.SetAtomClbNet(netID, i)
			}
			cb.ExternalNets[pin.CountInCluster] = i
		}
	}

	for netID := range index {
		if err := checkGlobalConsistency(store, netID); err != nil {
			return err
		}
	}

	for _, name := range circuitClocks {
		netID, ok := store.FindNetByName(name)
		if !ok {
			return an.NewUnknownEntityError(fmt.Sprintf("circuit clock %q: no such net", name))
		}
		if !store.NetIsGlobal(netID) {
			return an.NewConsistencyError(fmt.Sprintf("circuit clock %q is not flagged global", name))
		}
	}
	return nil
}

// isGlobalPin reports whether pin sits on a clock port, the proxy this
// package uses for the architecture's is_global_pin flag.
func isGlobalPin(store *an.Store, pin an.PinID) bool {
	return store.PortDirection(store.PinPort(pin)) == an.DirClock
}

func checkGlobalConsistency(store *an.Store, netID an.NetID) error {
	var pins []an.PinID
	if d := store.NetDriver(netID); d.IsValid() {
		pins = append(pins, d)
	}
	pins = append(pins, store.NetSinks(netID)...)
	if len(pins) == 0 {
		return nil
	}
	global := isGlobalPin(store, pins[0])
	for _, p := range pins[1:] {
		if isGlobalPin(store, p) != global {
			return an.NewConsistencyError(fmt.Sprintf("net %q mixes global and non-global pins", store.NetName(netID)))
		}
	}
	store.SetNetGlobal(netID, global)
	return nil
}

// canonicalPins returns n's pins grouped input ports first, then output,
// then clock, each group in port-declaration order and bit order.
func canonicalPins(n *pbgraph.Node) []*pbgraph.Pin {
	var out []*pbgraph.Pin
	for _, dir := range []an.Direction{an.DirInput, an.DirOutput, an.DirClock} {
		for _, p := range n.Ports {
			if p.Dir != dir {
				continue
			}
			out = append(out, p.Pins...)
		}
	}
	return out
}
