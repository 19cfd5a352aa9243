package pom

import "deps.dev/util/maven"

// GAKey identifies a dependency by groupId:artifactId only, ignoring
// classifier/type — the key conflict resolution (§4.5 Rule 4) and exclusion
// matching operate on.
type GAKey struct {
	GroupID    string
	ArtifactID string
}

func (k GAKey) String() string { return k.GroupID + ":" + k.ArtifactID }

// ManagementKey identifies a dependencyManagement entry by
// groupId:artifactId:type, the key the management resolver (§4.4) dedupes
// on.
type ManagementKey struct {
	GroupID    string
	ArtifactID string
	Type       string
}

func (k ManagementKey) String() string { return k.GroupID + ":" + k.ArtifactID + ":" + k.Type }

// GAKeyOf and ManagementKeyOf build keys from a maven.Dependency, defaulting
// a blank type to "jar" as Maven itself does.
func GAKeyOf(d maven.Dependency) GAKey {
	return GAKey{GroupID: string(d.GroupID), ArtifactID: string(d.ArtifactID)}
}

func ManagementKeyOf(d maven.Dependency) ManagementKey {
	t := string(d.Type)
	if t == "" {
		t = "jar"
	}
	return ManagementKey{GroupID: string(d.GroupID), ArtifactID: string(d.ArtifactID), Type: t}
}

func ExclusionKeyOf(e maven.Exclusion) GAKey {
	return GAKey{GroupID: string(e.GroupID), ArtifactID: string(e.ArtifactID)}
}

// ResolvedDependency is a maven.Dependency occurrence annotated with the
// five provenance paths the upstream library has no concept of: why the
// dependency itself was reached, and separately why each of
// version/scope/optional/exclusions holds the value it does (it may have
// been filled in from a management entry arrived at over a different path
// than the declaring dependency).
type ResolvedDependency struct {
	maven.Dependency

	Paths           Path
	PathsVersion    Path
	PathsScope      Path
	PathsOptional   Path
	PathsExclusions Path

	// NotFound marks a dependency whose child POM could not be located on
	// disk; its subtree is pruned but the occurrence itself is still kept
	// for the printer (§7 MissingPOM: never fatal for a transitive dep).
	NotFound bool
}

// Clone copies the dependency and its exclusion slice so that overwriting
// one computed_dependencies entry never aliases another occurrence's slice.
func (d *ResolvedDependency) Clone() *ResolvedDependency {
	clone := *d
	clone.Exclusions = append([]maven.Exclusion(nil), d.Exclusions...)
	return &clone
}

func (d *ResolvedDependency) GAKey() GAKey               { return GAKeyOf(d.Dependency) }
func (d *ResolvedDependency) ManagementKey() ManagementKey { return ManagementKeyOf(d.Dependency) }

// ResolvedProperty is a single computed_properties entry: the expanded
// value plus the path that contributed it.
type ResolvedProperty struct {
	Name  string
	Value string
	Paths Path
}
