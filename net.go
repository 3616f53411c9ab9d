package atomnet

import "github.com/pkg/errors"

// AddNet creates a new net with the given name, driver and sinks, rebinding
// each supplied pin's net reference to it. Fails with a DuplicateName error
// if name is already live. driver may be InvalidPinID (a driverless net,
// e.g. transiently during buffer-lut rewiring); if valid it must be of
// PinType DRIVER. Every sink must be of PinType SINK.
func (s *Store) AddNet(name string, driver PinID, sinks []PinID) (NetID, error) {
	if _, ok := s.netByName[name]; ok {
		return InvalidNetID, NewDuplicateNameError("net " + name + " already exists")
	}
	if driver.IsValid() && s.pins[driver].typ != PinDriver {
		return InvalidNetID, errors.Errorf("net %s: pin %d is not a driver pin", name, driver)
	}
	for _, sk := range sinks {
		if !s.PinIsLive(sk) {
			return InvalidNetID, errors.Errorf("net %s: sink pin %d is not live", name, sk)
		}
		if s.pins[sk].typ != PinSink {
			return InvalidNetID, errors.Errorf("net %s: pin %d is not a sink pin", name, sk)
		}
	}
	id := NetID(len(s.nets))
	sinksCopy := append([]PinID(nil), sinks...)
	s.nets = append(s.nets, netRecord{live: true, name: name, driver: driver, sinks: sinksCopy, clbNetIdx: -1})
	if driver.IsValid() {
		s.pins[driver].net = id
	}
	for _, sk := range sinksCopy {
		s.pins[sk].net = id
	}
	s.netByName[name] = id
	return id, nil
}

// RemoveNet tombstones a net, setting every referencing pin's net field to
// invalid.
func (s *Store) RemoveNet(id NetID) error {
	n := &s.nets[id]
	if !n.live {
		return errors.Errorf("net %d is not live", id)
	}
	if n.driver.IsValid() {
		s.pins[n.driver].net = InvalidNetID
	}
	for _, sk := range n.sinks {
		s.pins[sk].net = InvalidNetID
	}
	delete(s.netByName, n.name)
	*n = netRecord{live: false, clbNetIdx: -1}
	return nil
}

// FindNetByName returns the NetID for a live net name.
func (s *Store) FindNetByName(name string) (NetID, bool) {
	id, ok := s.netByName[name]
	return id, ok
}

// NetName returns the name of net id.
func (s *Store) NetName(id NetID) string { return s.nets[id].name }

// NetDriver returns the driver pin of net id, or InvalidPinID.
func (s *Store) NetDriver(id NetID) PinID { return s.nets[id].driver }

// NetSinks returns the sink pins of net id.
func (s *Store) NetSinks(id NetID) []PinID { return s.nets[id].sinks }

// NetIsConstant reports whether net id is flagged constant.
func (s *Store) NetIsConstant(id NetID) bool { return s.nets[id].isConst }

// SetNetConstant sets the constant flag of net id. Used by the
// constant-generator marker.
func (s *Store) SetNetConstant(id NetID, v bool) { s.nets[id].isConst = v }

// NetIsGlobal reports whether net id is flagged as carrying a global
// signal (e.g. a clock).
func (s *Store) NetIsGlobal(id NetID) bool { return s.nets[id].isGlobal }

// SetNetGlobal sets the global flag of net id. Used by the cluster-net
// extractor.
func (s *Store) SetNetGlobal(id NetID, v bool) { s.nets[id].isGlobal = v }

// NetIsLive reports whether id refers to a live net.
func (s *Store) NetIsLive(id NetID) bool {
	return id.IsValid() && int(id) < len(s.nets) && s.nets[id].live
}

// Nets iterates every live net in ID order.
func (s *Store) Nets() []NetID {
	out := make([]NetID, 0, len(s.nets))
	for i, n := range s.nets {
		if n.live {
			out = append(out, NetID(i))
		}
	}
	return out
}

// SetAtomClbNet associates net id with the compact external-net index
// assigned to it by the cluster-net extractor.
func (s *Store) SetAtomClbNet(id NetID, externalIndex int) { s.nets[id].clbNetIdx = externalIndex }

// AtomClbNet returns the external-net index previously set via
// SetAtomClbNet.
func (s *Store) AtomClbNet(id NetID) (int, bool) {
	i := s.nets[id].clbNetIdx
	return i, i >= 0
}
