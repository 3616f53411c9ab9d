package atomnet

import "strconv"

// WithStandardPrimitives registers the common combinational and sequential
// primitive shapes found in a typical architecture's primitive library
// (logic gates, muxers, adders, the clocked flip-flop) as black-box models
// on lib, and returns lib for chaining.
//
// The gate-level source encodes logic gates and muxers as "names" LUT
// blocks (their function lives in the truth table, not the model), so only
// primitives whose function cannot be expressed as a single LUT row set —
// multi-output or otherwise structural primitives like adders — need a
// dedicated named model here. The single-bit gates are included anyway so
// an architecture's primitive library can resolve any of these names to a
// concrete port list without falling back to an ad-hoc black box.
func WithStandardPrimitives(lib *ModelLibrary) *ModelLibrary {
	lib.Intern("and2", []string{"a", "b"}, []string{"out"}, nil)
	lib.Intern("nand2", []string{"a", "b"}, []string{"out"}, nil)
	lib.Intern("or2", []string{"a", "b"}, []string{"out"}, nil)
	lib.Intern("nor2", []string{"a", "b"}, []string{"out"}, nil)
	lib.Intern("xor2", []string{"a", "b"}, []string{"out"}, nil)
	lib.Intern("xnor2", []string{"a", "b"}, []string{"out"}, nil)
	lib.Intern("mux2", []string{"a", "b", "sel"}, []string{"out"}, nil)
	lib.Intern("dmux", []string{"in", "sel"}, []string{"a", "b"}, nil)
	lib.Intern("dff", []string{"D"}, []string{"Q"}, []string{"clk"})
	lib.Intern("half_adder", []string{"a", "b"}, []string{"sum", "cout"}, nil)
	lib.Intern("full_adder", []string{"a", "b", "cin"}, []string{"sum", "cout"}, nil)
	for _, bits := range []int{8, 16, 32} {
		bs := strconv.Itoa(bits)
		lib.Intern("adder"+bs, busNames(bits, "a", "b"), append(busNames(bits, "out"), "cout"), nil)
		lib.Intern("mux"+bs, append(busNames(bits, "a", "b"), "sel"), busNames(bits, "out"), nil)
	}
	return lib
}

// busNames expands one or more bus base names into their per-bit pin
// names, e.g. busNames(2, "a", "b") == []string{"a[0]", "a[1]", "b[0]", "b[1]"}.
func busNames(bits int, names ...string) []string {
	out := make([]string, 0, len(names)*bits)
	for _, n := range names {
		for i := 0; i < bits; i++ {
			out = append(out, busPinName(n, i))
		}
	}
	return out
}
