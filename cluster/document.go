// Package cluster ingests a packed-netlist document into populated
// ClusteredBlock / pb / pb_route structures (§4.3), extracts top-level
// inter-cluster nets (§4.4), and marks constant generators (§4.5).
package cluster

// Document is the root of a parsed packed-netlist document (§6). Its
// struct tags let a caller populate it directly with encoding/xml against
// the toolchain's own packed-netlist file, or build it by hand in tests;
// this package only consumes the tree, it never reads a file itself.
type Document struct {
	Instance string    `xml:"instance,attr"`
	Inputs   []PortTok `xml:"inputs>port"`
	Outputs  []PortTok `xml:"outputs>port"`
	Clocks   []PortTok `xml:"clocks>port"`
	Blocks   []Block   `xml:"block"`
}

// Block is one <block> element: a top-level cluster instance when it is a
// direct child of Document, or a nested pb instance otherwise.
type Block struct {
	Name     string    `xml:"name,attr"`
	Instance string    `xml:"instance,attr"`
	Mode     string    `xml:"mode,attr"`
	Inputs   []PortTok `xml:"inputs>port"`
	Outputs  []PortTok `xml:"outputs>port"`
	Clocks   []PortTok `xml:"clocks>port"`
	Blocks   []Block   `xml:"block"`
}

// PortTok is one <port name="...">tok tok tok</port> entry: one token per
// bit of the port, each either "open", an inter-cluster net name, or a
// pin[idx]->interconnect expression, depending on context (§4.3).
type PortTok struct {
	Name   string `xml:"name,attr"`
	Tokens string `xml:",chardata"`
}

// openToken is the distinguished literal marking a disconnected pin.
const openToken = "open"

// rootInstance is the distinguished instance literal required of the
// document's root block.
const rootInstance = "FPGA_packed_netlist[0]"
