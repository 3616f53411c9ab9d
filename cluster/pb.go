package cluster

import an "github.com/dl7eng/atomnet"

// Pb is a physical-block instance: one node of a cluster's pb tree,
// mirroring the architecture's hierarchy (§3).
type Pb struct {
	Name     string
	Open     bool
	Type     *PbType
	Mode     string
	Parent   *Pb
	Children map[string][]*Pb // child type name -> slot-indexed instances
	Atom     an.BlockID       // valid only for a leaf pb bound to an atom block
}

// routeEntry is one row of a cluster's pb_route table (§3), indexed by
// pin_count_in_cluster.
type routeEntry struct {
	net     an.NetID
	prevPin int // pin_count_in_cluster of the upstream driver, or -1
}

// ClusteredBlock is one top-level cluster instance (§3).
type ClusteredBlock struct {
	Index  int
	Name   string
	Type   *PbType
	Mode   string
	Root   *Pb
	routes []routeEntry

	// ExternalNets holds the compact external-net index assigned by
	// ExtractNets (C4) to each of this cluster's boundary pins, indexed by
	// pin_count_in_cluster on Type.Graph. -1 until ExtractNets has run, or
	// if the pin carries no net.
	ExternalNets []int
}

// RouteNet returns the atom net carried by the pb_route entry at pin, or
// InvalidNetID if the entry is unset.
func (cb *ClusteredBlock) RouteNet(pin int) an.NetID {
	if pin < 0 || pin >= len(cb.routes) {
		return an.InvalidNetID
	}
	return cb.routes[pin].net
}

// NumRoutes returns the number of pb_route entries this cluster's type
// declares (one past the highest pin_count_in_cluster seen in its
// architecture graph).
func (cb *ClusteredBlock) NumRoutes() int { return len(cb.routes) }
