package atomnet

import "github.com/pkg/errors"

// AddBlock adds a new block to the netlist. It fails with a DuplicateName
// error if name is already live.
func (s *Store) AddBlock(name string, kind BlockKind, model *Model, truthTable TruthTable) (BlockID, error) {
	if _, ok := s.blockByName[name]; ok {
		return InvalidBlockID, NewDuplicateNameError("block " + name + " already exists")
	}
	if len(truthTable) > 0 {
		if _, err := truthTable.EncodesOnSet(); err != nil {
			return InvalidBlockID, errors.Wrap(err, "block "+name)
		}
	}
	id := BlockID(len(s.blocks))
	s.blocks = append(s.blocks, blockRecord{
		live:       true,
		name:       name,
		kind:       kind,
		model:      model,
		truthTable: truthTable,
		atomClb:    -1,
	})
	s.blockByName[name] = id
	return id, nil
}

// RemoveBlock removes a block, its ports and its pins. Each removed pin is
// detached from its net (sinks compacted, driver invalidated if
// applicable); the net itself is not removed even if left driverless or
// sinkless — dangling-net sweeping is a separate, explicit operation.
func (s *Store) RemoveBlock(id BlockID) error {
	b := &s.blocks[id]
	if !b.live {
		return errors.Errorf("block %d is not live", id)
	}
	for _, pid := range b.ports {
		if err := s.removePort(pid); err != nil {
			return err
		}
	}
	delete(s.blockByName, b.name)
	*b = blockRecord{live: false, atomClb: -1}
	return nil
}

// FindBlockByName returns the BlockID for a live block name.
func (s *Store) FindBlockByName(name string) (BlockID, bool) {
	id, ok := s.blockByName[name]
	return id, ok
}

// BlockName returns the name of block id.
func (s *Store) BlockName(id BlockID) string { return s.blocks[id].name }

// BlockType returns the kind of block id.
func (s *Store) BlockType(id BlockID) BlockKind { return s.blocks[id].kind }

// BlockModel returns the shared model of block id.
func (s *Store) BlockModel(id BlockID) *Model { return s.blocks[id].model }

// BlockTruthTable returns the truth table of block id, or nil if it has
// none.
func (s *Store) BlockTruthTable(id BlockID) TruthTable { return s.blocks[id].truthTable }

// BlockPorts returns the ports owned by block id, in declaration order.
func (s *Store) BlockPorts(id BlockID) []PortID { return s.blocks[id].ports }

// BlockIsLive reports whether id refers to a live block.
func (s *Store) BlockIsLive(id BlockID) bool {
	return id.IsValid() && int(id) < len(s.blocks) && s.blocks[id].live
}

// Blocks iterates every live block in ID order.
func (s *Store) Blocks() []BlockID {
	out := make([]BlockID, 0, len(s.blocks))
	for i, b := range s.blocks {
		if b.live {
			out = append(out, BlockID(i))
		}
	}
	return out
}

// SetAtomPb associates block id with an opaque pb-tree node (the clustered
// side's physical-block instance). The pb type is owned by the cluster
// package; the store only carries it through.
func (s *Store) SetAtomPb(id BlockID, pb interface{}) { s.blocks[id].atomPb = pb }

// AtomPb returns the pb previously associated with block id via SetAtomPb,
// or nil if none.
func (s *Store) AtomPb(id BlockID) interface{} { return s.blocks[id].atomPb }

// SetAtomClb associates block id with the index of the cluster (CLB) that
// contains it.
func (s *Store) SetAtomClb(id BlockID, clusterIndex int) { s.blocks[id].atomClb = clusterIndex }

// AtomClb returns the cluster index previously set via SetAtomClb.
func (s *Store) AtomClb(id BlockID) (int, bool) {
	c := s.blocks[id].atomClb
	return c, c >= 0
}

func (s *Store) blockPinsByDir(id BlockID, dir Direction) []PinID {
	var out []PinID
	for _, pid := range s.blocks[id].ports {
		p := s.ports[pid]
		if !p.live || p.dir != dir {
			continue
		}
		out = append(out, p.pins...)
	}
	return out
}

// BlockInputPins returns the live input-port pins of block id (pins
// belonging to DirInput ports). Used by the buffer-LUT detector.
func (s *Store) BlockInputPins(id BlockID) []PinID { return s.blockPinsByDir(id, DirInput) }

// BlockOutputPins returns the live output-port pins of block id.
func (s *Store) BlockOutputPins(id BlockID) []PinID { return s.blockPinsByDir(id, DirOutput) }

// BlockClockPins returns the live clock-port pins of block id.
func (s *Store) BlockClockPins(id BlockID) []PinID { return s.blockPinsByDir(id, DirClock) }
