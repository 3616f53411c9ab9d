package atomnet_test

import (
	"testing"

	an "github.com/dl7eng/atomnet"
)

func mustModel(t *testing.T, lib *an.ModelLibrary, name string) *an.Model {
	t.Helper()
	m, ok := lib.Lookup(name)
	if !ok {
		t.Fatalf("model %s not interned", name)
	}
	return m
}

// buildBuffer builds a one-input one-output identity LUT named "buf" wired
// between a primary input "x" and a primary output "y", mirroring seed
// scenario 5.
func buildBuffer(t *testing.T) *an.Store {
	t.Helper()
	s := an.NewStore(nil)
	namesModel := mustModel(t, s.Models(), an.ModelNames)

	in, err := s.AddBlock("x", an.BlockInpad, namesModel, nil)
	if err != nil {
		t.Fatal(err)
	}
	inPort, err := s.AddPort(in, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	buf, err := s.AddBlock("buf", an.BlockCombinational, namesModel, an.TruthTable{{an.LogicTrue, an.LogicTrue}})
	if err != nil {
		t.Fatal(err)
	}
	bufIn, err := s.AddPort(buf, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}
	bufOut, err := s.AddPort(buf, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	out, err := s.AddBlock("y", an.BlockOutpad, namesModel, nil)
	if err != nil {
		t.Fatal(err)
	}
	outPort, err := s.AddPort(out, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.AddNet("x", s.PortPins(inPort)[0], []an.PinID{s.PortPins(bufIn)[0]}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddNet("y", s.PortPins(bufOut)[0], []an.PinID{s.PortPins(outPort)[0]}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAddBlockDuplicateName(t *testing.T) {
	s := an.NewStore(nil)
	m := mustModel(t, s.Models(), an.ModelNames)
	if _, err := s.AddBlock("a", an.BlockCombinational, m, nil); err != nil {
		t.Fatal(err)
	}
	_, err := s.AddBlock("a", an.BlockCombinational, m, nil)
	if !an.IsCategory(err, an.CategoryDuplicate) {
		t.Fatalf("expected DuplicateName, got %v", err)
	}
}

func TestAddNetDuplicateName(t *testing.T) {
	s := an.NewStore(nil)
	m := mustModel(t, s.Models(), an.ModelNames)
	b, _ := s.AddBlock("a", an.BlockCombinational, m, nil)
	p, _ := s.AddPort(b, "out", an.DirOutput, 1)
	if _, err := s.AddNet("n", s.PortPins(p)[0], nil); err != nil {
		t.Fatal(err)
	}
	b2, _ := s.AddBlock("b", an.BlockCombinational, m, nil)
	p2, _ := s.AddPort(b2, "out", an.DirOutput, 1)
	_, err := s.AddNet("n", s.PortPins(p2)[0], nil)
	if !an.IsCategory(err, an.CategoryDuplicate) {
		t.Fatalf("expected DuplicateName, got %v", err)
	}
}

// TestInvariantPinNetBidirectional covers invariant 1: pin_net(p) = n
// implies p in pins(n), and Validate confirms it holds after ordinary
// mutation.
func TestInvariantPinNetBidirectional(t *testing.T) {
	s := buildBuffer(t)
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	nx, _ := s.FindNetByName("x")
	for _, p := range s.Pins() {
		if s.PinNet(p) != nx {
			continue
		}
		n := s.PinNet(p)
		found := s.NetDriver(n) == p
		for _, sk := range s.NetSinks(n) {
			found = found || sk == p
		}
		if !found {
			t.Fatalf("pin %d claims net %d but net does not list it back", p, n)
		}
	}
}

// TestRemoveBlockDoesNotRemoveNets covers the explicit requirement that
// RemoveBlock does not remove now-possibly-dangling nets.
func TestRemoveBlockDoesNotRemoveNets(t *testing.T) {
	s := buildBuffer(t)
	buf, _ := s.FindBlockByName("buf")
	if err := s.RemoveBlock(buf); err != nil {
		t.Fatal(err)
	}
	nx, ok := s.FindNetByName("x")
	if !ok {
		t.Fatal("net x should still exist after RemoveBlock")
	}
	if len(s.NetSinks(nx)) != 0 {
		t.Fatalf("net x should have no sinks left, got %v", s.NetSinks(nx))
	}
	ny, ok := s.FindNetByName("y")
	if !ok {
		t.Fatal("net y should still exist after RemoveBlock")
	}
	if s.NetDriver(ny).IsValid() {
		t.Fatal("net y should be driverless after RemoveBlock")
	}
}

func TestRemoveNetInvalidatesPins(t *testing.T) {
	s := buildBuffer(t)
	nx, _ := s.FindNetByName("x")
	pins := append([]an.PinID{s.NetDriver(nx)}, s.NetSinks(nx)...)
	if err := s.RemoveNet(nx); err != nil {
		t.Fatal(err)
	}
	for _, p := range pins {
		if s.PinNet(p).IsValid() {
			t.Fatalf("pin %d should have an invalid net after RemoveNet", p)
		}
	}
}

func TestTruthTableInconsistentRowsRejected(t *testing.T) {
	s := an.NewStore(nil)
	m := mustModel(t, s.Models(), an.ModelNames)
	tt := an.TruthTable{
		{an.LogicTrue, an.LogicFalse, an.LogicTrue},
		{an.LogicFalse, an.LogicTrue, an.LogicFalse},
	}
	_, err := s.AddBlock("bad", an.BlockCombinational, m, tt)
	if err == nil {
		t.Fatal("expected error for inconsistent truth table rows")
	}
}

func TestConstantGeneratorZeroInputLUT(t *testing.T) {
	s := an.NewStore(nil)
	m := mustModel(t, s.Models(), an.ModelNames)
	vcc, err := s.AddBlock("vcc_gen", an.BlockCombinational, m, an.TruthTable{{an.LogicTrue}})
	if err != nil {
		t.Fatal(err)
	}
	p, err := s.AddPort(vcc, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}
	n, err := s.AddNet("vcc", s.PortPins(p)[0], nil)
	if err != nil {
		t.Fatal(err)
	}
	s.SetNetConstant(n, true)
	if !s.PinIsConstant(s.PortPins(p)[0]) {
		t.Fatal("driver pin of a constant net must report PinIsConstant")
	}
}
