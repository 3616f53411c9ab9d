package cmd

import (
	"strconv"

	an "github.com/dl7eng/atomnet"
	"github.com/dl7eng/atomnet/cluster"
	"github.com/dl7eng/atomnet/pbgraph"
	"github.com/pkg/errors"
)

// Scenario is the CLI's own YAML-native stand-in for the real gate-level
// and packed-netlist external formats, which this core deliberately
// leaves to an external parser. It bundles a model library, an atom
// netlist, an architecture pb-type catalog and one packed-netlist
// document into a single file so `atomnet ingest`/`atomnet emit` have
// something concrete to run the pipeline against.
type Scenario struct {
	Models        []ModelSpec  `yaml:"models"`
	Blocks        []BlockSpec  `yaml:"blocks"`
	Nets          []NetSpec    `yaml:"nets"`
	ArchTypes     []PbTypeSpec `yaml:"arch_types"`
	Packed        PackedSpec   `yaml:"packed"`
	CircuitClocks []string     `yaml:"circuit_clocks"`
}

type ModelSpec struct {
	Name     string   `yaml:"name"`
	InPorts  []string `yaml:"in_ports"`
	OutPorts []string `yaml:"out_ports"`
	ClkPorts []string `yaml:"clk_ports"`
}

type PortSpec struct {
	Name  string `yaml:"name"`
	Dir   string `yaml:"dir"`
	Width int    `yaml:"width"`
}

type BlockSpec struct {
	Name       string     `yaml:"name"`
	Kind       string     `yaml:"kind"`
	Model      string     `yaml:"model"`
	Ports      []PortSpec `yaml:"ports"`
	TruthTable [][]string `yaml:"truth_table"`
}

type NetSpec struct {
	Name   string   `yaml:"name"`
	Driver string   `yaml:"driver"`
	Sinks  []string `yaml:"sinks"`
}

type PortDeclSpec struct {
	Name  string `yaml:"name"`
	Dir   string `yaml:"dir"`
	Width int    `yaml:"width"`
}

type EdgeSpec struct {
	Interconnect string `yaml:"interconnect"`
	FromPort     string `yaml:"from_port"`
	FromBit      int    `yaml:"from_bit"`
	ToPort       string `yaml:"to_port"`
	ToBit        int    `yaml:"to_bit"`
}

type ChildSpec struct {
	Type     string `yaml:"type"`
	Capacity int    `yaml:"capacity"`
}

type ModeSpec struct {
	Name     string      `yaml:"name"`
	Children []ChildSpec `yaml:"children"`
}

type PbTypeSpec struct {
	Name      string              `yaml:"name"`
	NumPins   int                 `yaml:"num_pins"`
	Ports     []PortDeclSpec      `yaml:"ports"`
	PinCounts map[string][]int    `yaml:"pin_counts"`
	Edges     []EdgeSpec          `yaml:"edges"`
	Modes     []ModeSpec          `yaml:"modes"`
}

type PortTokSpec struct {
	Name   string `yaml:"name"`
	Tokens string `yaml:"tokens"`
}

type BlockNodeSpec struct {
	Name     string          `yaml:"name"`
	Instance string          `yaml:"instance"`
	Mode     string          `yaml:"mode"`
	Inputs   []PortTokSpec   `yaml:"inputs"`
	Outputs  []PortTokSpec   `yaml:"outputs"`
	Clocks   []PortTokSpec   `yaml:"clocks"`
	Blocks   []BlockNodeSpec `yaml:"blocks"`
}

type PackedSpec struct {
	Instance string          `yaml:"instance"`
	Blocks   []BlockNodeSpec `yaml:"blocks"`
}

func direction(s string) (an.Direction, error) {
	switch s {
	case "input":
		return an.DirInput, nil
	case "output":
		return an.DirOutput, nil
	case "clock":
		return an.DirClock, nil
	default:
		return 0, errors.Errorf("unknown port direction %q", s)
	}
}

func blockKind(s string) (an.BlockKind, error) {
	switch s {
	case "combinational":
		return an.BlockCombinational, nil
	case "sequential":
		return an.BlockSequential, nil
	case "inpad":
		return an.BlockInpad, nil
	case "outpad":
		return an.BlockOutpad, nil
	default:
		return 0, errors.Errorf("unknown block kind %q", s)
	}
}

func logicValue(s string) (an.LogicValue, error) {
	switch s {
	case "0":
		return an.LogicFalse, nil
	case "1":
		return an.LogicTrue, nil
	case "-":
		return an.LogicDontCare, nil
	case "x", "X":
		return an.LogicUnknown, nil
	default:
		return 0, errors.Errorf("unknown truth-table value %q", s)
	}
}

// buildStore materializes the scenario's models/blocks/nets into a fresh
// *atomnet.Store.
func buildStore(sc *Scenario) (*an.Store, error) {
	lib := an.WithStandardPrimitives(an.NewModelLibrary())
	for _, m := range sc.Models {
		lib.Intern(m.Name, m.InPorts, m.OutPorts, m.ClkPorts)
	}
	store := an.NewStore(lib)

	pinRefs := map[string]an.PinID{}
	for _, b := range sc.Blocks {
		kind, err := blockKind(b.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "block %q", b.Name)
		}
		model, ok := lib.Lookup(b.Model)
		if !ok {
			return nil, errors.Errorf("block %q: unknown model %q", b.Name, b.Model)
		}
		var tt an.TruthTable
		for _, row := range b.TruthTable {
			var r an.TruthTableRow
			for _, cell := range row {
				v, err := logicValue(cell)
				if err != nil {
					return nil, errors.Wrapf(err, "block %q truth table", b.Name)
				}
				r = append(r, v)
			}
			tt = append(tt, r)
		}
		id, err := store.AddBlock(b.Name, kind, model, tt)
		if err != nil {
			return nil, errors.Wrapf(err, "block %q", b.Name)
		}
		for _, p := range b.Ports {
			dir, err := direction(p.Dir)
			if err != nil {
				return nil, errors.Wrapf(err, "block %q port %q", b.Name, p.Name)
			}
			pid, err := store.AddPort(id, p.Name, dir, p.Width)
			if err != nil {
				return nil, errors.Wrapf(err, "block %q port %q", b.Name, p.Name)
			}
			for bit, pin := range store.PortPins(pid) {
				pinRefs[pinRefKey(b.Name, p.Name, bit)] = pin
			}
		}
	}

	for _, n := range sc.Nets {
		driver := an.InvalidPinID
		if n.Driver != "" {
			pin, err := lookupPinRef(pinRefs, n.Driver)
			if err != nil {
				return nil, errors.Wrapf(err, "net %q driver", n.Name)
			}
			driver = pin
		}
		var sinks []an.PinID
		for _, s := range n.Sinks {
			pin, err := lookupPinRef(pinRefs, s)
			if err != nil {
				return nil, errors.Wrapf(err, "net %q sink", n.Name)
			}
			sinks = append(sinks, pin)
		}
		if _, err := store.AddNet(n.Name, driver, sinks); err != nil {
			return nil, errors.Wrapf(err, "net %q", n.Name)
		}
	}

	return store, nil
}

func pinRefKey(block, port string, bit int) string {
	return block + "." + port + "[" + strconv.Itoa(bit) + "]"
}

func lookupPinRef(refs map[string]an.PinID, ref string) (an.PinID, error) {
	pin, ok := refs[ref]
	if !ok {
		return an.InvalidPinID, errors.Errorf("unknown pin reference %q (want block.port[bit])", ref)
	}
	return pin, nil
}

// buildArchTypes materializes the scenario's architecture catalog into a
// cluster.StaticArchTypes, wiring up each pb type's pin graph and its
// modes' child-type slots. Types may reference each other by name, so
// this runs in two passes: types first, then modes/edges once every
// type's graph exists.
func buildArchTypes(sc *Scenario) (cluster.StaticArchTypes, error) {
	types := make(cluster.StaticArchTypes, len(sc.ArchTypes))
	for _, ts := range sc.ArchTypes {
		node := &pbgraph.Node{Name: ts.Name}
		t := &cluster.PbType{Name: ts.Name, NumPins: ts.NumPins, Graph: node}
		for _, pd := range ts.Ports {
			dir, err := direction(pd.Dir)
			if err != nil {
				return nil, errors.Wrapf(err, "arch type %q port %q", ts.Name, pd.Name)
			}
			port := node.AddPort(pd.Name, dir, pd.Width)
			if counts, ok := ts.PinCounts[pd.Name]; ok {
				if len(counts) != len(port.Pins) {
					return nil, errors.Errorf("arch type %q port %q: %d pin_counts entries, want %d", ts.Name, pd.Name, len(counts), len(port.Pins))
				}
				for bit, c := range counts {
					port.Pins[bit].CountInCluster = c
				}
			}
		}
		types[ts.Name] = t
	}

	for _, ts := range sc.ArchTypes {
		t := types[ts.Name]
		for _, e := range ts.Edges {
			from, err := pbgraph.Resolve(t.Graph, pbgraph.PinExpr{Port: e.FromPort, Index: e.FromBit})
			if err != nil {
				return nil, errors.Wrapf(err, "arch type %q edge", ts.Name)
			}
			to, err := pbgraph.Resolve(t.Graph, pbgraph.PinExpr{Port: e.ToPort, Index: e.ToBit})
			if err != nil {
				return nil, errors.Wrapf(err, "arch type %q edge", ts.Name)
			}
			pbgraph.Connect(e.Interconnect, from, to)
		}

		if len(ts.Modes) > 0 {
			t.Modes = make(map[string]*cluster.Mode, len(ts.Modes))
			for _, ms := range ts.Modes {
				mode := &cluster.Mode{Name: ms.Name}
				for _, cs := range ms.Children {
					childType, ok := types[cs.Type]
					if !ok {
						return nil, errors.Errorf("arch type %q mode %q: unknown child type %q", ts.Name, ms.Name, cs.Type)
					}
					mode.Children = append(mode.Children, cluster.ChildType{Type: childType, Capacity: cs.Capacity})
				}
				t.Modes[ms.Name] = mode
			}
		}
	}

	return types, nil
}

func buildDocument(sc *Scenario) *cluster.Document {
	doc := &cluster.Document{Instance: sc.Packed.Instance}
	doc.Blocks = make([]cluster.Block, len(sc.Packed.Blocks))
	for i, b := range sc.Packed.Blocks {
		doc.Blocks[i] = buildBlockNode(b)
	}
	return doc
}

func buildBlockNode(b BlockNodeSpec) cluster.Block {
	blk := cluster.Block{
		Name:     b.Name,
		Instance: b.Instance,
		Mode:     b.Mode,
		Inputs:   toPortToks(b.Inputs),
		Outputs:  toPortToks(b.Outputs),
		Clocks:   toPortToks(b.Clocks),
	}
	for _, c := range b.Blocks {
		blk.Blocks = append(blk.Blocks, buildBlockNode(c))
	}
	return blk
}

func toPortToks(specs []PortTokSpec) []cluster.PortTok {
	out := make([]cluster.PortTok, len(specs))
	for i, s := range specs {
		out[i] = cluster.PortTok{Name: s.Name, Tokens: s.Tokens}
	}
	return out
}
