package atomnet

import "github.com/pkg/errors"

// TruthTableRow is one row of a truth table: num_inputs logic values
// followed by the single output value for that row. For a latch's initial
// value the row has width 1 (no inputs, just the output/initial value).
type TruthTableRow []LogicValue

// TruthTable is stored in its source encoding: each row lists input values
// followed by the row's output value, which may encode either the on-set
// or the off-set of the function. Which one it is is inferred from the
// output value of the first row (see EncodesOnSet). An empty table encodes
// constant zero and is treated as an on-set encoding.
type TruthTable []TruthTableRow

// ErrInconsistentTruthTable is returned by EncodesOnSet (and by anything
// that validates a table before accepting it) when rows disagree about
// whether they encode an on-set or an off-set. The source format leaves
// this case undefined; this core rejects it rather than guess.
var ErrInconsistentTruthTable = errors.New("truth table rows have inconsistent output values")

// numInputs returns the number of input columns, i.e. row width minus one.
func (t TruthTable) numInputs() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0]) - 1
}

// IsConstant reports whether t has no input columns, i.e. every row (if
// any) is just a single output value with no inputs to select it. A block
// carrying such a table drives the same logic value on every output pin
// regardless of any connection, which is what marks it as a constant
// generator at the atom-netlist level.
func (t TruthTable) IsConstant() bool {
	return t.numInputs() == 0
}

// EncodesOnSet reports whether the table encodes an on-set (true) or an
// off-set (false), inferred from the output value of the first row. An
// empty table is an on-set encoding of the constant-zero function. Returns
// ErrInconsistentTruthTable if rows disagree about their output value.
func (t TruthTable) EncodesOnSet() (bool, error) {
	if len(t) == 0 {
		return true, nil
	}
	first := t[0][len(t[0])-1]
	for _, row := range t[1:] {
		if len(row) == 0 {
			return false, errors.New("truth table row has no entries")
		}
		if row[len(row)-1] != first {
			return false, ErrInconsistentTruthTable
		}
	}
	return first == LogicTrue, nil
}

// Expand returns a copy of t with every row's don't-cares enumerated, so
// that the result lists one row per minterm that the row covers; numInputs
// must be t.numInputs() for combinational tables with more than one row,
// but is accepted explicitly so callers can expand a single-row latch
// initial-value table unambiguously.
func (t TruthTable) Expand(numInputs int) (TruthTable, error) {
	var out TruthTable
	for _, row := range t {
		if len(row) != numInputs+1 {
			return nil, errors.Errorf("truth table row has %d entries, want %d", len(row), numInputs+1)
		}
		expanded, err := expandRow(row, numInputs)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func expandRow(row TruthTableRow, numInputs int) (TruthTable, error) {
	dcIdx := make([]int, 0, numInputs)
	base := make(TruthTableRow, numInputs+1)
	copy(base, row)
	for i := 0; i < numInputs; i++ {
		switch row[i] {
		case LogicDontCare:
			dcIdx = append(dcIdx, i)
		case LogicTrue, LogicFalse:
			// fixed bit, nothing to do
		default:
			return nil, errors.Errorf("truth table input value %v is not 0/1/-", row[i])
		}
	}
	n := 1 << uint(len(dcIdx))
	out := make(TruthTable, 0, n)
	for combo := 0; combo < n; combo++ {
		r := make(TruthTableRow, numInputs+1)
		copy(r, base)
		for bit, idx := range dcIdx {
			if combo&(1<<uint(bit)) != 0 {
				r[idx] = LogicTrue
			} else {
				r[idx] = LogicFalse
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// ToLUTMask expands t to a full lookup table mask of length 2^numInputs,
// where mask[i] is the value of the function for input combination i (bit
// b of i selects input b). Off-set encodings are inverted so the result
// always reads as an on-set mask.
func (t TruthTable) ToLUTMask(numInputs int) ([]bool, error) {
	onSet, err := t.EncodesOnSet()
	if err != nil {
		return nil, err
	}
	mask := make([]bool, 1<<uint(numInputs))
	expanded, err := t.Expand(numInputs)
	if err != nil {
		return nil, err
	}
	for _, row := range expanded {
		idx := 0
		for b := 0; b < numInputs; b++ {
			if row[b] == LogicTrue {
				idx |= 1 << uint(b)
			}
		}
		mask[idx] = true
	}
	if !onSet {
		for i := range mask {
			mask[i] = !mask[i]
		}
	}
	return mask, nil
}
