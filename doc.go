/*
Package atomnet provides the atom netlist store and its safe in-place
transformation primitives: an ID-keyed relational structure of blocks,
ports, pins and nets used to reconstruct a clustered netlist from a
packed-netlist document (see the pbgraph and cluster subpackages), rewrite
it (see xform), and emit it back out in gate-level textual form (see blif).

Entities are kept in parallel ID-indexed slices rather than an object
graph: cross-references are ID-valued, which makes removal O(1), rules out
reference cycles, and lets every cross-reference be checked against a
live/tombstoned flag instead of a nil check. IDs are never reused, so a
dangling reference into this package is always detectable.
*/
package atomnet
