package atomnet

// detachPin removes pin id from whatever net it currently belongs to
// (compacting the net's sinks, or invalidating its driver) without
// tombstoning the pin itself. The net is left in place even if this was
// its last pin.
func (s *Store) detachPin(id PinID) error {
	p := &s.pins[id]
	if !p.net.IsValid() {
		return nil
	}
	n := &s.nets[p.net]
	if n.driver == id {
		n.driver = InvalidPinID
	} else {
		for i, sk := range n.sinks {
			if sk == id {
				n.sinks[i] = n.sinks[len(n.sinks)-1]
				n.sinks = n.sinks[:len(n.sinks)-1]
				break
			}
		}
	}
	p.net = InvalidNetID
	return nil
}

// PinNet returns the net that pin id belongs to, or InvalidNetID.
func (s *Store) PinNet(id PinID) NetID { return s.pins[id].net }

// PinType returns the pin type (DRIVER or SINK) of pin id.
func (s *Store) PinType(id PinID) PinType { return s.pins[id].typ }

// PinPort returns the owning port of pin id.
func (s *Store) PinPort(id PinID) PortID { return s.pins[id].port }

// PinBitIndex returns the bit position of pin id within its port.
func (s *Store) PinBitIndex(id PinID) int { return s.pins[id].bit }

// PinBlock returns the block that owns pin id (via its port).
func (s *Store) PinBlock(id PinID) BlockID { return s.ports[s.pins[id].port].block }

// PinIsConstant reports whether pin id belongs to a net flagged constant.
// An unconnected pin is not constant.
func (s *Store) PinIsConstant(id PinID) bool {
	n := s.pins[id].net
	return n.IsValid() && s.nets[n].isConst
}

// PinIsLive reports whether id refers to a live pin.
func (s *Store) PinIsLive(id PinID) bool {
	return id.IsValid() && int(id) < len(s.pins) && s.pins[id].live
}

// Pins iterates every live pin in ID order.
func (s *Store) Pins() []PinID {
	out := make([]PinID, 0, len(s.pins))
	for i, p := range s.pins {
		if p.live {
			out = append(out, PinID(i))
		}
	}
	return out
}
