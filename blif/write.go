// Package blif emits an atom netlist in BLIF-style gate-level textual
// form: a single canonical ".model" body followed by black-box
// declarations for every subckt model it referenced.
package blif

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	an "github.com/dl7eng/atomnet"
	"github.com/pkg/errors"
)

// outpadPrefix is stripped from an OUTPAD block's name to recover the
// public primary-output name used on the .outputs line — BLIF can't let
// the pad and the net driving it share one name, so by convention the
// pad carries this prefix.
const outpadPrefix = "out:"

// unconnPrefix names an unconnected subckt pin, "unconnK" with a
// monotonically increasing K.
const unconnPrefix = "unconn"

type emitter struct {
	bw      *bufio.Writer
	store   *an.Store
	unconn  int
	bboxes  []*an.Model
	seenBox map[string]an.BlockID
}

// Write renders s as a single BLIF-style model named modelName to w.
func Write(w io.Writer, s *an.Store, modelName string) error {
	e := &emitter{bw: bufio.NewWriter(w), store: s, seenBox: map[string]an.BlockID{}}

	fmt.Fprintf(e.bw, ".model %s\n", modelName)

	var inpads, outpads, seqs, combs, subckts []an.BlockID
	for _, id := range s.Blocks() {
		switch s.BlockType(id) {
		case an.BlockInpad:
			inpads = append(inpads, id)
		case an.BlockOutpad:
			outpads = append(outpads, id)
		case an.BlockSequential:
			seqs = append(seqs, id)
		case an.BlockCombinational:
			m := s.BlockModel(id)
			if m != nil && m.Name == an.ModelNames {
				combs = append(combs, id)
			} else {
				subckts = append(subckts, id)
				e.noteBlackBox(id, m)
			}
		}
	}

	e.writeInputs(inpads)
	e.writeOutputs(outpads)
	e.writeOutputBuffers(outpads)
	for _, id := range seqs {
		if err := e.writeLatch(id); err != nil {
			return err
		}
	}
	for _, id := range combs {
		e.writeNames(id)
	}
	for _, id := range subckts {
		e.writeSubckt(id)
	}

	e.bw.WriteString(".end\n")

	for _, m := range e.bboxes {
		e.writeBlackBox(m)
	}

	return e.bw.Flush()
}

func (e *emitter) noteBlackBox(id an.BlockID, m *an.Model) {
	if m == nil {
		return
	}
	if _, ok := e.seenBox[m.Name]; ok {
		return
	}
	e.seenBox[m.Name] = id
	e.bboxes = append(e.bboxes, m)
}

func (e *emitter) writeInputs(inpads []an.BlockID) {
	names := make([]string, 0, len(inpads))
	for _, id := range inpads {
		names = append(names, e.store.BlockName(id))
	}
	fmt.Fprintf(e.bw, ".inputs %s\n", strings.Join(names, " "))
}

// outputName returns the public primary-output name for an OUTPAD block,
// stripping outpadPrefix if present.
func outputName(store *an.Store, id an.BlockID) string {
	return strings.TrimPrefix(store.BlockName(id), outpadPrefix)
}

func (e *emitter) writeOutputs(outpads []an.BlockID) {
	names := make([]string, 0, len(outpads))
	for _, id := range outpads {
		names = append(names, outputName(e.store, id))
	}
	fmt.Fprintf(e.bw, ".outputs %s\n", strings.Join(names, " "))
}

// writeOutputBuffers inserts an identity LUT for every OUTPAD whose
// driving net's name differs from the pad's public name — the textual
// format can only name a signal by its driving net, so a renamed output
// needs a one-bit pass-through to publish the name .outputs promised.
func (e *emitter) writeOutputBuffers(outpads []an.BlockID) {
	for _, id := range outpads {
		pins := e.store.BlockInputPins(id)
		if len(pins) == 0 {
			continue
		}
		netID := e.store.PinNet(pins[0])
		if !netID.IsValid() {
			continue
		}
		netName := e.store.NetName(netID)
		want := outputName(e.store, id)
		if netName == want {
			continue
		}
		fmt.Fprintf(e.bw, ".names %s %s\n1 1\n", netName, want)
	}
}

func (e *emitter) writeLatch(id an.BlockID) error {
	dPins := e.store.BlockInputPins(id)
	qPins := e.store.BlockOutputPins(id)
	clkPins := e.store.BlockClockPins(id)
	if len(dPins) != 1 || len(qPins) != 1 || len(clkPins) != 1 {
		return errors.Errorf("latch block %q: expected exactly one D, Q and clk pin", e.store.BlockName(id))
	}
	d := e.pinSignal(dPins[0])
	q := e.pinSignal(qPins[0])
	clk := e.pinSignal(clkPins[0])
	tt := e.store.BlockTruthTable(id)
	if len(tt) != 1 || len(tt[0]) != 1 {
		return errors.Errorf("latch block %q: expected a single-cell initial-value truth table", e.store.BlockName(id))
	}
	fmt.Fprintf(e.bw, ".latch %s %s re %s %s\n", d, q, clk, latchInitial(tt[0][0]))
	return nil
}

func latchInitial(v an.LogicValue) string {
	switch v {
	case an.LogicTrue:
		return "1"
	case an.LogicFalse:
		return "0"
	case an.LogicDontCare:
		return "2"
	default:
		return "3"
	}
}

func (e *emitter) writeNames(id an.BlockID) {
	var names []string
	for _, pin := range e.store.BlockInputPins(id) {
		names = append(names, e.pinSignal(pin))
	}
	outPins := e.store.BlockOutputPins(id)
	for _, pin := range outPins {
		names = append(names, e.pinSignal(pin))
	}
	fmt.Fprintf(e.bw, ".names %s\n", strings.Join(names, " "))
	for _, row := range e.store.BlockTruthTable(id) {
		var sb strings.Builder
		for _, v := range row[:len(row)-1] {
			sb.WriteString(v.String())
		}
		fmt.Fprintf(e.bw, "%s %s\n", sb.String(), row[len(row)-1].String())
	}
}

func (e *emitter) writeSubckt(id an.BlockID) {
	m := e.store.BlockModel(id)
	name := "black_box"
	if m != nil {
		name = m.Name
	}
	var conns []string
	for _, pid := range e.store.BlockPorts(id) {
		if !e.store.PortIsLive(pid) {
			continue
		}
		pins := e.store.PortPins(pid)
		for i, pin := range pins {
			formal := e.store.PortName(pid)
			if len(pins) > 1 {
				formal = fmt.Sprintf("%s[%d]", formal, i)
			}
			conns = append(conns, fmt.Sprintf("%s=%s", formal, e.pinSignal(pin)))
		}
	}
	fmt.Fprintf(e.bw, ".subckt %s %s\n", name, strings.Join(conns, " "))
}

func (e *emitter) writeBlackBox(m *an.Model) {
	id := e.seenBox[m.Name]
	var ins, outs []string
	for _, pid := range e.store.BlockPorts(id) {
		if !e.store.PortIsLive(pid) {
			continue
		}
		width := e.store.PortWidth(pid)
		base := e.store.PortName(pid)
		var formals []string
		if width == 1 {
			formals = []string{base}
		} else {
			for i := 0; i < width; i++ {
				formals = append(formals, fmt.Sprintf("%s[%d]", base, i))
			}
		}
		switch e.store.PortDirection(pid) {
		case an.DirInput, an.DirClock:
			ins = append(ins, formals...)
		case an.DirOutput:
			outs = append(outs, formals...)
		}
	}
	fmt.Fprintf(e.bw, ".model %s\n", m.Name)
	fmt.Fprintf(e.bw, ".inputs %s\n", strings.Join(ins, " "))
	fmt.Fprintf(e.bw, ".outputs %s\n", strings.Join(outs, " "))
	e.bw.WriteString(".blackbox\n")
	e.bw.WriteString(".end\n")
}

// pinSignal returns the net name driving/sinking pin, or a freshly
// allocated "unconnK" placeholder if it is unconnected.
func (e *emitter) pinSignal(pin an.PinID) string {
	netID := e.store.PinNet(pin)
	if netID.IsValid() {
		return e.store.NetName(netID)
	}
	name := fmt.Sprintf("%s%d", unconnPrefix, e.unconn)
	e.unconn++
	return name
}
