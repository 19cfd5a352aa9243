package pom

import "strings"

// Coordinate is a lightweight, immutable snapshot of a POM's identity at the
// moment it was visited. Path chains store these rather than live *Document
// pointers so that provenance can be printed without holding the whole
// resolved tree alive or risking later mutation of an already-recorded hop.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
}

func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// Path is the provenance chain from the root project down to the point a
// value (a dependency field, a property) was set, plus the length counter
// described in §3/§4.5 Rule 1: incremented by one across a dependency edge,
// unchanged across a parent-inheritance edge.
type Path struct {
	Chain  []Coordinate
	Length int
}

// RootPath is the zero-length path at the root project itself.
func RootPath(root Coordinate) Path {
	return Path{Chain: []Coordinate{root}, Length: 0}
}

// Extend returns a new Path appending c to the chain, with Length advanced
// by incr (0 for a parent edge, 1 for a dependency edge). The receiver's
// chain is never mutated in place, since provenance of prior hops must
// survive independent extension from the same point (e.g. a dependency and
// its synthesized parent edge both extend the same POM's path).
func (p Path) Extend(c Coordinate, incr int) Path {
	chain := make([]Coordinate, len(p.Chain)+1)
	copy(chain, p.Chain)
	chain[len(p.Chain)] = c
	return Path{Chain: chain, Length: p.Length + incr}
}

// String renders the chain as "g:a:v > g:a:v > ...", used by the printer and
// the tracer.
func (p Path) String() string {
	parts := make([]string, len(p.Chain))
	for i, c := range p.Chain {
		parts[i] = c.String()
	}
	return strings.Join(parts, " > ")
}

// Last returns the final coordinate in the chain, the zero value if empty.
func (p Path) Last() Coordinate {
	if len(p.Chain) == 0 {
		return Coordinate{}
	}
	return p.Chain[len(p.Chain)-1]
}
