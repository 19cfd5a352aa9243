// Package property implements the Property resolver (§4.3's per-POM
// counterpart, grounded on resolve_properties): given the already
// parent-merged raw property values for one dependency-resolution node, it
// expands every value to a fixpoint against itself and the node's builtins,
// and records the path that produced it.
//
// Property provenance here is coarser than a dependency's five paths: every
// property visible at a node is attributed to the path that reached the
// node itself, not to the specific ancestor POM that originally declared
// it. The parent-chain merge (nearest-POM-wins) already happened in the
// loader; recovering which exact ancestor contributed a given name would
// need threading a second path per property through that merge, which nothing
// downstream of this package actually consumes (the printer and tracer only
// need "where in the dependency tree was this property visible").
package property

import (
	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/propexpand"
)

// Resolve expands every entry in raw against itself plus doc's builtins,
// tagging every result with path.
func Resolve(raw map[string]string, doc *pom.Document, path pom.Path) map[string]*pom.ResolvedProperty {
	hasParent := doc.Parent.GroupID != "" || doc.Parent.ArtifactID != ""
	builtins := propexpand.Builtins(
		string(doc.GroupID), string(doc.ArtifactID), string(doc.Version),
		hasParent, string(doc.Parent.GroupID), string(doc.Parent.ArtifactID), string(doc.Parent.Version))

	out := make(map[string]*pom.ResolvedProperty, len(raw))
	for name, value := range raw {
		out[name] = &pom.ResolvedProperty{
			Name:  name,
			Value: propexpand.Expand(value, raw, builtins),
			Paths: path,
		}
	}
	return out
}
