// Package atomnettest provides utility functions for testing atom
// netlists: a structural comparator used to check the round-trip law in §8 (ingest -> emit -> external parse ->
// ingest yields a netlist isomorphic to the original, up to renaming of
// unconnK placeholders).
package atomnettest

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	an "github.com/dl7eng/atomnet"
)

// unconnPrefix is stripped from net/pin names before comparison so that
// round-tripped "unconnN" placeholder names (which are free to be
// renumbered by the emitter) don't cause spurious mismatches.
const unconnPrefix = "unconn"

func canonicalNetName(name string) string {
	if strings.HasPrefix(name, unconnPrefix) {
		return unconnPrefix
	}
	return name
}

// blockSignature is a structural fingerprint of a block: its kind, model
// name, and for each port its direction, width, and the canonical names of
// the nets attached to each of its pins (in bit order, "" for
// unconnected).
type blockSignature struct {
	kind  string
	model string
	ports []portSignature
}

type portSignature struct {
	dir   string
	nets  []string
}

func signature(s *an.Store, blk an.BlockID) blockSignature {
	sig := blockSignature{kind: s.BlockType(blk).String()}
	if m := s.BlockModel(blk); m != nil {
		sig.model = m.Name
	}
	for _, pid := range s.BlockPorts(blk) {
		if !s.PortIsLive(pid) {
			continue
		}
		ps := portSignature{dir: s.PortDirection(pid).String()}
		for _, pin := range s.PortPins(pid) {
			n := s.PinNet(pin)
			if !n.IsValid() {
				ps.nets = append(ps.nets, "")
				continue
			}
			ps.nets = append(ps.nets, canonicalNetName(s.NetName(n)))
		}
		sig.ports = append(sig.ports, ps)
	}
	return sig
}

func (b blockSignature) String() string {
	var parts []string
	for _, p := range b.ports {
		parts = append(parts, fmt.Sprintf("%s:%v", p.dir, p.nets))
	}
	return fmt.Sprintf("%s/%s[%s]", b.kind, b.model, strings.Join(parts, " "))
}

// CompareStructure asserts that got and want contain the same blocks (by
// name, except for unconnected-placeholder nets which compare only by
// prefix) with the same port/pin-to-net structure. It is intentionally
// insensitive to the emitter's unconnK numbering and to block/net
// declaration order.
func CompareStructure(t *testing.T, got, want *an.Store) {
	t.Helper()

	gotBlocks := got.Blocks()
	wantBlocks := want.Blocks()
	if len(gotBlocks) != len(wantBlocks) {
		t.Fatalf("block count mismatch: got %d, want %d", len(gotBlocks), len(wantBlocks))
	}

	gotByName := make(map[string]blockSignature, len(gotBlocks))
	for _, b := range gotBlocks {
		gotByName[got.BlockName(b)] = signature(got, b)
	}
	wantByName := make(map[string]blockSignature, len(wantBlocks))
	for _, b := range wantBlocks {
		wantByName[want.BlockName(b)] = signature(want, b)
	}

	var names []string
	for n := range wantByName {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		gs, ok := gotByName[name]
		if !ok {
			t.Fatalf("block %q missing from got", name)
		}
		ws := wantByName[name]
		if gs.String() != ws.String() {
			t.Fatalf("block %q structure mismatch:\n got:  %s\n want: %s", name, gs, ws)
		}
	}
}
