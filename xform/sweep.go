package xform

import (
	an "github.com/dl7eng/atomnet"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Pass is a single dangling-element sweep. Every sweep in this file has
// this shape so SweepIterative can assemble an ordered list of the
// enabled ones and loop it to fixpoint.
type Pass func(*an.Store) int

// SweepOptions toggles which passes SweepIterative runs each round.
type SweepOptions struct {
	Inputs          bool
	Outputs         bool
	Blocks          bool
	Nets            bool
	ConstantOutputs bool
}

// SweepInputs removes every INPAD whose driven net has no sinks.
func SweepInputs(s *an.Store) int {
	removed := 0
	for _, id := range s.Blocks() {
		if s.BlockType(id) != an.BlockInpad {
			continue
		}
		pins := s.BlockOutputPins(id)
		if len(pins) == 0 {
			continue
		}
		netID := s.PinNet(pins[0])
		if netID.IsValid() && len(s.NetSinks(netID)) > 0 {
			continue
		}
		removeBlockAndDrivenNet(s, id, netID)
		removed++
	}
	return removed
}

// SweepOutputs removes every OUTPAD whose single input pin carries no
// net at all.
func SweepOutputs(s *an.Store) int {
	removed := 0
	for _, id := range s.Blocks() {
		if s.BlockType(id) != an.BlockOutpad {
			continue
		}
		pins := s.BlockInputPins(id)
		if len(pins) == 0 {
			continue
		}
		if s.PinNet(pins[0]).IsValid() {
			continue
		}
		if err := s.RemoveBlock(id); err != nil {
			panic(errors.Wrap(err, "sweep outputs"))
		}
		removed++
	}
	return removed
}

// SweepConstantPrimaryOutputs removes every OUTPAD whose single input
// pin is wired to a net flagged constant.
func SweepConstantPrimaryOutputs(s *an.Store) int {
	removed := 0
	for _, id := range s.Blocks() {
		if s.BlockType(id) != an.BlockOutpad {
			continue
		}
		pins := s.BlockInputPins(id)
		if len(pins) == 0 {
			continue
		}
		netID := s.PinNet(pins[0])
		if !netID.IsValid() || !s.NetIsConstant(netID) {
			continue
		}
		if err := s.RemoveBlock(id); err != nil {
			panic(errors.Wrap(err, "sweep constant primary outputs"))
		}
		removed++
	}
	return removed
}

// SweepBlocks removes every non-I/O block none of whose output nets
// have any sinks — a block with no fanout cannot affect any observable
// output.
func SweepBlocks(s *an.Store) int {
	removed := 0
	for _, id := range s.Blocks() {
		kind := s.BlockType(id)
		if kind == an.BlockInpad || kind == an.BlockOutpad {
			continue
		}
		if hasFanout(s, id) {
			continue
		}
		var nets []an.NetID
		for _, p := range s.BlockOutputPins(id) {
			if n := s.PinNet(p); n.IsValid() {
				nets = append(nets, n)
			}
		}
		if err := s.RemoveBlock(id); err != nil {
			panic(errors.Wrap(err, "sweep blocks"))
		}
		for _, n := range nets {
			_ = s.RemoveNet(n)
		}
		removed++
	}
	return removed
}

func hasFanout(s *an.Store, id an.BlockID) bool {
	for _, p := range s.BlockOutputPins(id) {
		netID := s.PinNet(p)
		if netID.IsValid() && len(s.NetSinks(netID)) > 0 {
			return true
		}
	}
	return false
}

// SweepNets removes every net with no driver or no sinks.
func SweepNets(s *an.Store) int {
	removed := 0
	for _, id := range s.Nets() {
		if s.NetDriver(id).IsValid() && len(s.NetSinks(id)) > 0 {
			continue
		}
		if err := s.RemoveNet(id); err != nil {
			panic(errors.Wrap(err, "sweep nets"))
		}
		removed++
	}
	return removed
}

func removeBlockAndDrivenNet(s *an.Store, id an.BlockID, netID an.NetID) {
	if err := s.RemoveBlock(id); err != nil {
		panic(errors.Wrap(err, "sweep inputs"))
	}
	if netID.IsValid() {
		_ = s.RemoveNet(netID)
	}
}

// SweepIterative runs the passes enabled by opts, in order (inputs,
// outputs, constant outputs, blocks, nets), round after round, until a
// round removes nothing. Within a round the order of operations does
// not affect the fixpoint it converges to. Returns the total number of
// elements removed across every round.
func SweepIterative(s *an.Store, opts SweepOptions) int {
	var passes []Pass
	if opts.Inputs {
		passes = append(passes, SweepInputs)
	}
	if opts.Outputs {
		passes = append(passes, SweepOutputs)
	}
	if opts.ConstantOutputs {
		passes = append(passes, SweepConstantPrimaryOutputs)
	}
	if opts.Blocks {
		passes = append(passes, SweepBlocks)
	}
	if opts.Nets {
		passes = append(passes, SweepNets)
	}

	total := 0
	for round := 1; ; round++ {
		roundTotal := 0
		for _, pass := range passes {
			roundTotal += pass(s)
		}
		total += roundTotal
		logrus.WithFields(logrus.Fields{"round": round, "removed": roundTotal}).Debug("sweep pass")
		if roundTotal == 0 {
			return total
		}
	}
}
