package blif_test

import (
	"strings"
	"testing"

	an "github.com/dl7eng/atomnet"
	"github.com/dl7eng/atomnet/blif"
)

func mustModel(t *testing.T, lib *an.ModelLibrary, name string) *an.Model {
	t.Helper()
	m, ok := lib.Lookup(name)
	if !ok {
		t.Fatalf("model %q not interned", name)
	}
	return m
}

// TestWriteIdentityLUT covers seed scenario 1's emitted form: pad "a" ->
// LUT "buf" (truth table [1,1]) -> pad "out:y".
func TestWriteIdentityLUT(t *testing.T) {
	lib := an.NewModelLibrary()
	lib.Intern("input", nil, []string{"out"}, nil)
	lib.Intern("output", []string{"in"}, nil, nil)
	namesModel := mustModel(t, lib, an.ModelNames)
	store := an.NewStore(lib)

	inPad, err := store.AddBlock("a", an.BlockInpad, mustModel(t, lib, "input"), nil)
	if err != nil {
		t.Fatal(err)
	}
	inOut, err := store.AddPort(inPad, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	buf, err := store.AddBlock("buf", an.BlockCombinational, namesModel, an.TruthTable{{an.LogicTrue, an.LogicTrue}})
	if err != nil {
		t.Fatal(err)
	}
	bufIn, err := store.AddPort(buf, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}
	bufOut, err := store.AddPort(buf, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	outPad, err := store.AddBlock("out:y", an.BlockOutpad, mustModel(t, lib, "output"), nil)
	if err != nil {
		t.Fatal(err)
	}
	outIn, err := store.AddPort(outPad, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.AddNet("a", store.PortPins(inOut)[0], []an.PinID{store.PortPins(bufIn)[0]}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddNet("y", store.PortPins(bufOut)[0], []an.PinID{store.PortPins(outIn)[0]}); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := blif.Write(&sb, store, "top"); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	for _, want := range []string{
		".model top\n",
		".inputs a\n",
		".outputs y\n",
		".names a y\n1 1\n",
		".end\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q; got:\n%s", want, out)
		}
	}
}

// TestWriteLatch covers a single sequential "latch" block whose initial
// value is TRUE.
func TestWriteLatch(t *testing.T) {
	lib := an.NewModelLibrary()
	lib.Intern("input", nil, []string{"out"}, nil)
	lib.Intern("output", []string{"in"}, nil, nil)
	latchModel := mustModel(t, lib, an.ModelLatch)
	store := an.NewStore(lib)

	d, err := store.AddBlock("d_pad", an.BlockInpad, mustModel(t, lib, "input"), nil)
	if err != nil {
		t.Fatal(err)
	}
	dOut, err := store.AddPort(d, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}
	clk, err := store.AddBlock("clk_pad", an.BlockInpad, mustModel(t, lib, "input"), nil)
	if err != nil {
		t.Fatal(err)
	}
	clkOut, err := store.AddPort(clk, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	ff, err := store.AddBlock("ff", an.BlockSequential, latchModel, an.TruthTable{{an.LogicTrue}})
	if err != nil {
		t.Fatal(err)
	}
	ffD, err := store.AddPort(ff, "D", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}
	ffClk, err := store.AddPort(ff, "clk", an.DirClock, 1)
	if err != nil {
		t.Fatal(err)
	}
	ffQ, err := store.AddPort(ff, "Q", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	q, err := store.AddBlock("out:q", an.BlockOutpad, mustModel(t, lib, "output"), nil)
	if err != nil {
		t.Fatal(err)
	}
	qIn, err := store.AddPort(q, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.AddNet("d", store.PortPins(dOut)[0], []an.PinID{store.PortPins(ffD)[0]}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddNet("clk", store.PortPins(clkOut)[0], []an.PinID{store.PortPins(ffClk)[0]}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddNet("qnet", store.PortPins(ffQ)[0], []an.PinID{store.PortPins(qIn)[0]}); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := blif.Write(&sb, store, "top"); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	if !strings.Contains(out, ".latch d qnet re clk 1\n") {
		t.Fatalf("output missing latch entry; got:\n%s", out)
	}
}

// TestWriteBlackBoxSubckt covers a black-box model instantiation: the
// .subckt line and its trailing .model/.blackbox/.end declaration.
func TestWriteBlackBoxSubckt(t *testing.T) {
	lib := an.NewModelLibrary()
	lib.Intern("input", nil, []string{"out"}, nil)
	lib.Intern("output", []string{"in"}, nil, nil)
	adder := lib.Intern("adder2", []string{"a", "b"}, []string{"sum"}, nil)
	store := an.NewStore(lib)

	a, err := store.AddBlock("a_pad", an.BlockInpad, mustModel(t, lib, "input"), nil)
	if err != nil {
		t.Fatal(err)
	}
	aOut, err := store.AddPort(a, "out", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	box, err := store.AddBlock("add1", an.BlockCombinational, adder, nil)
	if err != nil {
		t.Fatal(err)
	}
	boxA, err := store.AddPort(box, "a", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddPort(box, "b", an.DirInput, 1); err != nil {
		t.Fatal(err)
	}
	boxSum, err := store.AddPort(box, "sum", an.DirOutput, 1)
	if err != nil {
		t.Fatal(err)
	}

	out, err := store.AddBlock("out:s", an.BlockOutpad, mustModel(t, lib, "output"), nil)
	if err != nil {
		t.Fatal(err)
	}
	outIn, err := store.AddPort(out, "in", an.DirInput, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.AddNet("a", store.PortPins(aOut)[0], []an.PinID{store.PortPins(boxA)[0]}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddNet("s", store.PortPins(boxSum)[0], []an.PinID{store.PortPins(outIn)[0]}); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := blif.Write(&sb, store, "top"); err != nil {
		t.Fatal(err)
	}
	out2 := sb.String()

	if !strings.Contains(out2, ".subckt adder2") {
		t.Fatalf("output missing subckt line; got:\n%s", out2)
	}
	if !strings.Contains(out2, "a=a") || !strings.Contains(out2, "sum=s") {
		t.Fatalf("subckt connections missing a=a/sum=s; got:\n%s", out2)
	}
	if !strings.Contains(out2, "unconn0") {
		t.Fatalf("unconnected port b should get an unconnK placeholder; got:\n%s", out2)
	}
	if !strings.Contains(out2, ".model adder2\n.inputs a b\n.outputs sum\n.blackbox\n.end\n") {
		t.Fatalf("output missing black-box declaration; got:\n%s", out2)
	}
}
