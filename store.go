// Package atomnet implements the atom-netlist store: an ID-keyed relational
// structure of blocks, ports, pins and nets, plus the safe in-place mutation
// primitives used by packed-netlist ingestion and the later transformation
// passes.
//
// Entities are kept in parallel ID-indexed slices rather than an object
// graph. Cross-references are ID-valued, which makes removal O(1), rules
// out reference cycles, and lets every cross-reference be checked against
// a live/tombstoned flag instead of a nil check.
package atomnet

import "github.com/pkg/errors"

type blockRecord struct {
	live       bool
	name       string
	kind       BlockKind
	model      *Model
	ports      []PortID
	truthTable TruthTable
	atomPb     interface{}
	atomClb    int // -1 if unset
}

type portRecord struct {
	live  bool
	block BlockID
	name  string
	dir   Direction
	pins  []PinID
}

type pinRecord struct {
	live bool
	port PortID
	bit  int
	typ  PinType
	net  NetID
}

type netRecord struct {
	live      bool
	name      string
	driver    PinID
	sinks     []PinID
	isConst   bool
	isGlobal  bool
	clbNetIdx int // -1 if unset
}

// Store is the atom netlist: a relational store of blocks, ports, pins and
// nets, with mutation primitives that keep invariants 1-5 of the data model
// intact between any two public operations.
type Store struct {
	blocks []blockRecord
	ports  []portRecord
	pins   []pinRecord
	nets   []netRecord

	blockByName map[string]BlockID
	netByName   map[string]NetID

	models *ModelLibrary
}

// NewStore returns an empty atom netlist backed by the given model library.
// If lib is nil, a fresh library with the built-in "names" and "latch"
// models is created.
func NewStore(lib *ModelLibrary) *Store {
	if lib == nil {
		lib = NewModelLibrary()
	}
	return &Store{
		blockByName: make(map[string]BlockID),
		netByName:   make(map[string]NetID),
		models:      lib,
	}
}

// Models returns the store's model library.
func (s *Store) Models() *ModelLibrary { return s.models }

// Stats summarizes the live entity counts in a store.
type Stats struct {
	Blocks, Ports, Pins, Nets int
}

// Stats returns live entity counts, for summary logging.
func (s *Store) Stats() Stats {
	var st Stats
	for _, b := range s.blocks {
		if b.live {
			st.Blocks++
		}
	}
	for _, p := range s.ports {
		if p.live {
			st.Ports++
		}
	}
	for _, p := range s.pins {
		if p.live {
			st.Pins++
		}
	}
	for _, n := range s.nets {
		if n.live {
			st.Nets++
		}
	}
	return st
}

// Validate re-checks invariants 1 and 2 of the data model across every
// live pin and net: pin-to-net and net-to-pin references agree, and a
// net's driver and sinks are live pins of type DRIVER and SINK. It does
// not re-check name uniqueness, port widths or block-kind/model
// consistency. It is not called by any mutator (mutators are trusted to
// keep invariants intact); it exists for tests and for an opt-in CLI check.
func (s *Store) Validate() error {
	for id, p := range s.pins {
		if !p.live {
			continue
		}
		pid := PinID(id)
		if !p.net.IsValid() {
			continue
		}
		n := s.nets[p.net]
		if !n.live {
			return errors.Errorf("pin %d references tombstoned net %d", pid, p.net)
		}
		found := n.driver == pid
		for _, sk := range n.sinks {
			found = found || sk == pid
		}
		if !found {
			return errors.Errorf("pin %d claims net %d but net does not list it back", pid, p.net)
		}
	}
	for id, n := range s.nets {
		if !n.live {
			continue
		}
		nid := NetID(id)
		if n.driver.IsValid() {
			dp := s.pins[n.driver]
			if !dp.live || dp.typ != PinDriver || dp.net != nid {
				return errors.Errorf("net %d driver pin %d inconsistent", nid, n.driver)
			}
		}
		for _, sk := range n.sinks {
			sp := s.pins[sk]
			if !sp.live || sp.typ != PinSink || sp.net != nid {
				return errors.Errorf("net %d sink pin %d inconsistent", nid, sk)
			}
		}
	}
	return nil
}
