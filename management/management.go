// Package management implements the Management resolver (§4.4): building
// pom.computed_managements from direct entries, the parent chain, and BOM
// imports (`<scope>import</scope>`), with "nearest wins, ties keep the
// existing (direct-before-parent) entry" as the merge rule.
package management

import (
	"deps.dev/util/maven"

	"github.com/momiji/mvnresolve/errs"
	"github.com/momiji/mvnresolve/log"
	"github.com/momiji/mvnresolve/loader"
	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/propexpand"
)

var knownScopes = map[string]bool{
	"compile": true, "test": true, "runtime": true, "provided": true, "system": true, "import": true, "": true,
}

// Build walks doc's own dependencyManagement, then recurses into imports
// declared there, then into the parent chain, merging every entry into out
// (shared across the whole management build for one root POM). path is the
// caller's accumulated management-chain path; Build advances it by one
// level for doc's own entries, matching the source resolver's convention
// that every management-chain hop (parent or import) costs one unit,
// distinct from the dependency resolver's "parent edges don't increment"
// rule (§4.5 Rule 1), which applies to the dependency graph, not to this
// chain.
func Build(l *loader.Loader, doc *pom.Document, path pom.Path, out map[pom.ManagementKey]*pom.ResolvedDependency) error {
	path = path.Extend(doc.Key(), 1)

	props, err := l.LoadParents(doc, nil)
	if err != nil {
		return err
	}
	builtins := propexpand.Builtins(
		string(doc.GroupID), string(doc.ArtifactID), string(doc.Version),
		doc.Parent.GroupID != "" || doc.Parent.ArtifactID != "",
		string(doc.Parent.GroupID), string(doc.Parent.ArtifactID), string(doc.Parent.Version))

	for _, raw := range doc.DependencyManagement.Dependencies {
		dep := raw
		dep.GroupID = maven.String(propexpand.Expand(string(dep.GroupID), props, builtins))
		dep.ArtifactID = maven.String(propexpand.Expand(string(dep.ArtifactID), props, builtins))
		dep.Version = maven.String(propexpand.Expand(string(dep.Version), props, builtins))
		dep.Scope = maven.String(propexpand.Expand(string(dep.Scope), props, builtins))
		dep.Type = maven.String(propexpand.Expand(string(dep.Type), props, builtins))

		if !knownScopes[string(dep.Scope)] {
			return errs.Wrap(errs.InvalidScope, dep.Name(), path.String(), nil)
		}

		if string(dep.Type) == "pom" && string(dep.Scope) == "import" {
			importedDoc, found, err := l.LoadByCoordinate(string(dep.GroupID), string(dep.ArtifactID), string(dep.Version), "", doc.File, true)
			if err != nil {
				return err
			}
			if !found {
				log.Warnf("dependencyManagement import %s not found (referenced from %s)", dep.Name(), doc.File)
				continue
			}
			if err := Build(l, importedDoc, path, out); err != nil {
				return err
			}
			continue
		}

		if dep.Type == "" {
			dep.Type = "jar"
		}
		mergeInto(out, dep, path)
	}

	hasParent := doc.Parent.GroupID != "" || doc.Parent.ArtifactID != ""
	if hasParent {
		parentDoc, found, err := l.LoadByCoordinate(
			string(doc.Parent.GroupID), string(doc.Parent.ArtifactID), string(doc.Parent.Version),
			string(doc.Parent.RelativePath), doc.File, false)
		if err != nil {
			return err
		}
		if found {
			if err := Build(l, parentDoc, path, out); err != nil {
				return err
			}
		}
	}

	return nil
}

func mergeInto(out map[pom.ManagementKey]*pom.ResolvedDependency, dep maven.Dependency, path pom.Path) {
	k := pom.ManagementKeyOf(dep)
	resolved := &pom.ResolvedDependency{
		Dependency:      dep,
		Paths:           path,
		PathsVersion:    path,
		PathsScope:      path,
		PathsOptional:   path,
		PathsExclusions: path,
	}
	if existing, ok := out[k]; ok {
		if path.Length < existing.Paths.Length {
			out[k] = resolved
		}
		return
	}
	out[k] = resolved
}
