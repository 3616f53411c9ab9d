package cluster_test

import (
	"testing"

	an "github.com/dl7eng/atomnet"
	"github.com/dl7eng/atomnet/cluster"
	"github.com/dl7eng/atomnet/pbgraph"
)

// fixture bundles the architecture and atom netlist for a minimal
// single-input single-output identity path: pad "a" -> LUT "buf_atom"
// (truth table [1,1]) -> pad "y", each pad its own single-atom cluster and
// the LUT packed into a "clb" cluster with one "lut" child slot.
type fixture struct {
	arch  cluster.StaticArchTypes
	store *an.Store
	doc   *cluster.Document
}

func buildFixture(t *testing.T) fixture {
	t.Helper()
	lib := an.NewModelLibrary()
	lib.Intern("input", nil, []string{"out"}, nil)
	lib.Intern("output", []string{"in"}, nil, nil)
	namesModel, _ := lib.Lookup(an.ModelNames)

	store := an.NewStore(lib)

	aPad, err := store.AddBlock("a_pad", an.BlockInpad, mustModel(t, lib, "input"), nil)
	if err != nil {
		t.Fatal(err)
	}
	aOut, err := store.AddPort(aPad, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	bufAtom, err := store.AddBlock("buf_atom", an.BlockCombinational, namesModel, an.TruthTable{{an.LogicTrue, an.LogicTrue}})
	if err != nil {
		t.Fatal(err)
	}
	bufIn, err := store.AddPort(bufAtom, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}
	bufOut, err := store.AddPort(bufAtom, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	yPad, err := store.AddBlock("y_pad", an.BlockOutpad, mustModel(t, lib, "output"), nil)
	if err != nil {
		t.Fatal(err)
	}
	yIn, err := store.AddPort(yPad, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.AddNet("a", store.PortPins(aOut)[0], []an.PinID{store.PortPins(bufIn)[0]}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddNet("y", store.PortPins(bufOut)[0], []an.PinID{store.PortPins(yIn)[0]}); err != nil {
		t.Fatal(err)
	}

	ioIn := &cluster.PbType{Name: "io_in", NumPins: 1, Graph: &pbgraph.Node{Name: "io_in"}}
	outP := ioIn.Graph.AddPort("out", an.DirOutput, 1)
	outP.Pins[0].CountInCluster = 0

	ioOut := &cluster.PbType{Name: "io_out", NumPins: 1, Graph: &pbgraph.Node{Name: "io_out"}}
	inP := ioOut.Graph.AddPort("in", an.DirInput, 1)
	inP.Pins[0].CountInCluster = 0

	lutType := &cluster.PbType{Name: "lut", Graph: &pbgraph.Node{Name: "lut"}}
	lutIn := lutType.Graph.AddPort("in", an.DirInput, 1)
	lutIn.Pins[0].CountInCluster = 2
	lutOut := lutType.Graph.AddPort("out", an.DirOutput, 1)
	lutOut.Pins[0].CountInCluster = 3

	clbType := &cluster.PbType{Name: "clb", NumPins: 2, Graph: &pbgraph.Node{Name: "clb"}}
	clbIn := clbType.Graph.AddPort("in", an.DirInput, 1)
	clbIn.Pins[0].CountInCluster = 0
	clbOut := clbType.Graph.AddPort("out", an.DirOutput, 1)
	clbOut.Pins[0].CountInCluster = 1
	clbType.Modes = map[string]*cluster.Mode{
		"default": {
			Name:     "default",
			Children: []cluster.ChildType{{Type: lutType, Capacity: 1}},
		},
	}
	pbgraph.Connect("direct_in", clbIn.Pins[0], lutIn.Pins[0])

	arch := cluster.StaticArchTypes{
		"io_in":  ioIn,
		"io_out": ioOut,
		"clb":    clbType,
	}

	doc := &cluster.Document{
		Instance: "FPGA_packed_netlist[0]",
		Blocks: []cluster.Block{
			{Name: "a_pad", Instance: "io_in[0]", Outputs: []cluster.PortTok{{Name: "out", Tokens: "a"}}},
			{Name: "y_pad", Instance: "io_out[1]", Inputs: []cluster.PortTok{{Name: "in", Tokens: "y"}}},
			{
				Name: "clb_inst", Instance: "clb[2]", Mode: "default",
				Inputs:  []cluster.PortTok{{Name: "in", Tokens: "a"}},
				Outputs: []cluster.PortTok{{Name: "out", Tokens: "y"}},
				Blocks: []cluster.Block{
					{
						Name: "buf_atom", Instance: "lut[0]",
						Inputs: []cluster.PortTok{{Name: "in", Tokens: "in[0]->direct_in"}},
					},
				},
			},
		},
	}

	return fixture{arch: arch, store: store, doc: doc}
}

func mustModel(t *testing.T, lib *an.ModelLibrary, name string) *an.Model {
	t.Helper()
	m, ok := lib.Lookup(name)
	if !ok {
		t.Fatalf("model %q not found", name)
	}
	return m
}

func TestIngestSingleClusterIdentity(t *testing.T) {
	f := buildFixture(t)
	clusters, err := cluster.Ingest(f.doc, f.arch, f.store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 3 {
		t.Fatalf("got %d clusters, want 3", len(clusters))
	}

	clb := clusters[2]
	lutAtom, ok := f.store.FindBlockByName("buf_atom")
	if !ok {
		t.Fatal("buf_atom not found")
	}
	clbIdx, ok := f.store.AtomClb(lutAtom)
	if !ok || clbIdx != 2 {
		t.Fatalf("buf_atom atom_clb = %d, %v; want 2, true", clbIdx, ok)
	}

	aNet, _ := f.store.FindNetByName("a")
	if clb.RouteNet(0) != aNet {
		t.Errorf("clb boundary input pin carries net %v, want %v", clb.RouteNet(0), aNet)
	}
	if clb.RouteNet(2) != aNet {
		t.Errorf("lut input pin (after transitive fill) carries net %v, want %v", clb.RouteNet(2), aNet)
	}
	yNet, _ := f.store.FindNetByName("y")
	if clb.RouteNet(3) != yNet {
		t.Errorf("lut output pin carries net %v, want %v", clb.RouteNet(3), yNet)
	}
	if clb.RouteNet(1) != yNet {
		t.Errorf("clb boundary output pin carries net %v, want %v", clb.RouteNet(1), yNet)
	}
}

func TestIngestWrongRootInstance(t *testing.T) {
	f := buildFixture(t)
	f.doc.Instance = "bogus[0]"
	if _, err := cluster.Ingest(f.doc, f.arch, f.store); err == nil {
		t.Fatal("expected error")
	} else if !an.IsCategory(err, an.CategorySchema) {
		t.Fatalf("got %v, want SchemaError", err)
	}
}

func TestIngestSlotMismatch(t *testing.T) {
	f := buildFixture(t)
	f.doc.Blocks[0].Instance = "io_in[5]"
	if _, err := cluster.Ingest(f.doc, f.arch, f.store); err == nil {
		t.Fatal("expected error")
	} else if !an.IsCategory(err, an.CategoryShape) {
		t.Fatalf("got %v, want ShapeMismatch", err)
	}
}

func TestIngestDuplicateSlot(t *testing.T) {
	f := buildFixture(t)
	clbBlk := &f.doc.Blocks[2]
	clbBlk.Blocks = append(clbBlk.Blocks, cluster.Block{
		Name: "buf_atom2", Instance: "lut[0]",
	})
	if _, err := cluster.Ingest(f.doc, f.arch, f.store); err == nil {
		t.Fatal("expected error")
	} else if !an.IsCategory(err, an.CategoryShape) {
		t.Fatalf("got %v, want ShapeMismatch", err)
	}
}

func TestIngestUnboundAtomIsConsistencyError(t *testing.T) {
	f := buildFixture(t)
	// Remove the clb cluster entirely, leaving buf_atom unbound.
	f.doc.Blocks = f.doc.Blocks[:2]
	if _, err := cluster.Ingest(f.doc, f.arch, f.store); err == nil {
		t.Fatal("expected error")
	} else if !an.IsCategory(err, an.CategoryConsistency) {
		t.Fatalf("got %v, want ConsistencyError", err)
	}
}

func TestExtractNetsAssignsExternalIndices(t *testing.T) {
	f := buildFixture(t)
	clusters, err := cluster.Ingest(f.doc, f.arch, f.store)
	if err != nil {
		t.Fatal(err)
	}
	if err := cluster.ExtractNets(clusters, nil, f.store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	aNet, _ := f.store.FindNetByName("a")
	if _, ok := f.store.AtomClbNet(aNet); !ok {
		t.Error("net a was not assigned an external index")
	}
	yNet, _ := f.store.FindNetByName("y")
	if _, ok := f.store.AtomClbNet(yNet); !ok {
		t.Error("net y was not assigned an external index")
	}
}

func TestExtractNetsMixedGlobalRejected(t *testing.T) {
	f := buildFixture(t)
	clkBlock, err := f.store.AddBlock("ff", an.BlockSequential, mustModel(t, f.store.Models(), an.ModelLatch), an.TruthTable{{an.LogicTrue}})
	if err != nil {
		t.Fatal(err)
	}
	clkPort, err := f.store.AddPort(clkBlock, "clk", an.DirClock, 1)
	if err != nil {
		t.Fatal(err)
	}
	aNet, _ := f.store.FindNetByName("a")
	// Net "a" already feeds buf_atom's non-global input pin; adding a clock
	// sink on the same net mixes global and non-global pin flags.
	sinks := append(f.store.NetSinks(aNet), f.store.PortPins(clkPort)[0])
	if err := f.store.RemoveNet(aNet); err != nil {
		t.Fatal(err)
	}
	driver, _ := f.store.FindBlockByName("a_pad")
	driverPort := f.store.BlockPorts(driver)[0]
	if _, err := f.store.AddNet("a", f.store.PortPins(driverPort)[0], sinks); err != nil {
		t.Fatal(err)
	}

	// ff needs a home too, as a fourth single-atom cluster whose clock pin
	// carries net "a", or the post-ingest unbound-atom check fails first.
	ffType := &cluster.PbType{Name: "ff", NumPins: 1, Graph: &pbgraph.Node{Name: "ff"}}
	ffClk := ffType.Graph.AddPort("clk", an.DirClock, 1)
	ffClk.Pins[0].CountInCluster = 0
	f.arch["ff"] = ffType
	f.doc.Blocks = append(f.doc.Blocks, cluster.Block{
		Name: "ff", Instance: "ff[3]", Clocks: []cluster.PortTok{{Name: "clk", Tokens: "a"}},
	})

	clusters, err := cluster.Ingest(f.doc, f.arch, f.store)
	if err != nil {
		t.Fatal(err)
	}
	if err := cluster.ExtractNets(clusters, nil, f.store); err == nil {
		t.Fatal("expected error")
	} else if !an.IsCategory(err, an.CategoryConsistency) {
		t.Fatalf("got %v, want ConsistencyError", err)
	}
}

func TestMarkConstantGeneratorsFlagsDrivenNet(t *testing.T) {
	lib := an.NewModelLibrary()
	store := an.NewStore(lib)
	namesModel, _ := lib.Lookup(an.ModelNames)

	vccAtom, err := store.AddBlock("vcc_gen", an.BlockCombinational, namesModel, an.TruthTable{{an.LogicTrue}})
	if err != nil {
		t.Fatal(err)
	}
	vccOut, err := store.AddPort(vccAtom, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}
	sinkAtom, err := store.AddBlock("sink", an.BlockCombinational, namesModel, an.TruthTable{{an.LogicTrue, an.LogicTrue}})
	if err != nil {
		t.Fatal(err)
	}
	sinkIn, err := store.AddPort(sinkAtom, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddNet("vcc", store.PortPins(vccOut)[0], []an.PinID{store.PortPins(sinkIn)[0]}); err != nil {
		t.Fatal(err)
	}

	vccType := &cluster.PbType{Name: "vcc_gen", NumPins: 1, Graph: &pbgraph.Node{Name: "vcc_gen"}}
	outP := vccType.Graph.AddPort("out", an.DirOutput, 1)
	outP.Pins[0].CountInCluster = 0

	doc := &cluster.Document{
		Instance: "FPGA_packed_netlist[0]",
		Blocks: []cluster.Block{
			{Name: "vcc_gen", Instance: "vcc_gen[0]", Outputs: []cluster.PortTok{{Name: "out", Tokens: "vcc"}}},
		},
	}

	// sinkAtom needs a home too, as a second single-atom cluster, or the
	// post-ingest unbound-atom check fails.
	sinkType := &cluster.PbType{Name: "sink", NumPins: 1, Graph: &pbgraph.Node{Name: "sink"}}
	inP := sinkType.Graph.AddPort("in", an.DirInput, 1)
	inP.Pins[0].CountInCluster = 0
	doc.Blocks = append(doc.Blocks, cluster.Block{
		Name: "sink", Instance: "sink[1]", Inputs: []cluster.PortTok{{Name: "in", Tokens: "vcc"}},
	})

	arch := cluster.StaticArchTypes{"vcc_gen": vccType, "sink": sinkType}

	clusters, err := cluster.Ingest(doc, arch, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cluster.MarkConstantGenerators(clusters, store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vccNet, _ := store.FindNetByName("vcc")
	if !store.NetIsConstant(vccNet) {
		t.Error("net vcc should be flagged constant after marking")
	}
	if !store.PinIsConstant(store.PortPins(vccOut)[0]) {
		t.Error("vcc driver pin should report constant")
	}
}
