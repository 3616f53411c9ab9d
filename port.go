package atomnet

import "github.com/pkg/errors"

// AddPort creates a new port of the given direction and width on block,
// and width pins of the appropriate PinType: output ports get DRIVER pins,
// input and clock ports get SINK pins.
func (s *Store) AddPort(block BlockID, name string, dir Direction, width int) (PortID, error) {
	if !s.BlockIsLive(block) {
		return InvalidPortID, errors.Errorf("block %d is not live", block)
	}
	if width < 1 {
		return InvalidPortID, errors.Errorf("port %s: width must be >= 1, got %d", name, width)
	}
	pinType := PinSink
	if dir == DirOutput {
		pinType = PinDriver
	}
	id := PortID(len(s.ports))
	pins := make([]PinID, width)
	for i := 0; i < width; i++ {
		pid := PinID(len(s.pins))
		s.pins = append(s.pins, pinRecord{live: true, port: id, bit: i, typ: pinType, net: InvalidNetID})
		pins[i] = pid
	}
	s.ports = append(s.ports, portRecord{live: true, block: block, name: name, dir: dir, pins: pins})
	s.blocks[block].ports = append(s.blocks[block].ports, id)
	return id, nil
}

// removePort tombstones a port and all of its pins, detaching each pin
// from its net first.
func (s *Store) removePort(id PortID) error {
	p := &s.ports[id]
	if !p.live {
		return nil
	}
	for _, pid := range p.pins {
		if err := s.detachPin(pid); err != nil {
			return err
		}
		s.pins[pid] = pinRecord{live: false, net: InvalidNetID}
	}
	*p = portRecord{live: false}
	return nil
}

// PortName returns the name of port id.
func (s *Store) PortName(id PortID) string { return s.ports[id].name }

// PortDirection returns the direction of port id.
func (s *Store) PortDirection(id PortID) Direction { return s.ports[id].dir }

// PortBlock returns the owning block of port id.
func (s *Store) PortBlock(id PortID) BlockID { return s.ports[id].block }

// PortWidth returns the pin count (declared width) of port id.
func (s *Store) PortWidth(id PortID) int { return len(s.ports[id].pins) }

// PortPins returns the pins of port id, ordered by bit position.
func (s *Store) PortPins(id PortID) []PinID { return s.ports[id].pins }

// PortIsLive reports whether id refers to a live port.
func (s *Store) PortIsLive(id PortID) bool {
	return id.IsValid() && int(id) < len(s.ports) && s.ports[id].live
}

// Ports iterates every live port in ID order.
func (s *Store) Ports() []PortID {
	out := make([]PortID, 0, len(s.ports))
	for i, p := range s.ports {
		if p.live {
			out = append(out, PortID(i))
		}
	}
	return out
}
