// Package pom holds the data model: the raw parsed POM document (built on
// top of deps.dev/util/maven's Project/Dependency/Profile types), the
// provenance-tracking wrappers the upstream library has no reason to carry
// (ResolvedDependency, ResolvedProperty, Path), and the keys used to dedupe
// management entries and conflict-resolve dependencies.
package pom

import "deps.dev/util/maven"

// Document is one parsed POM on disk. It embeds maven.Project so every
// interpolate/merge/ProcessDependencies method the upstream library provides
// is available unchanged; Modules and File extend it with the two things
// the library has no use for (it is registry-oriented, not filesystem- or
// multi-module-oriented).
type Document struct {
	maven.Project
	Modules []maven.String `xml:"modules>module,omitempty"`
	File    string         `xml:"-"`

	// ProfileModules carries each profile's own <modules><module> overlay,
	// keyed by profile ID. maven.Profile has no Modules field (the upstream
	// library is registry-oriented, not reactor-oriented), so the reader
	// populates this from a second, narrower decode pass over the raw POM.
	ProfileModules map[string][]string `xml:"-"`
}

// Key returns the project's own coordinate, useful once GroupID/Version have
// been filled in from the parent chain.
func (d *Document) Key() Coordinate {
	return Coordinate{
		GroupID:    string(d.GroupID),
		ArtifactID: string(d.ArtifactID),
		Version:    string(d.Version),
	}
}

// Clone deep-copies the document so a cached entry can be handed out to a
// resolution run without that run's computed fields (or any accidental
// slice mutation) leaking back into the cache. Exclusions/Dependencies
// slices are the only deeply-nested mutable structure threaded through
// resolution; everything else in maven.Project is value-typed strings.
func (d *Document) Clone() *Document {
	clone := *d
	clone.Dependencies = append([]maven.Dependency(nil), d.Dependencies...)
	for i := range clone.Dependencies {
		clone.Dependencies[i].Exclusions = append([]maven.Exclusion(nil), d.Dependencies[i].Exclusions...)
	}
	clone.DependencyManagement.Dependencies = append([]maven.Dependency(nil), d.DependencyManagement.Dependencies...)
	clone.Profiles = append([]maven.Profile(nil), d.Profiles...)
	clone.Modules = append([]maven.String(nil), d.Modules...)
	clone.Properties.Properties = append([]maven.Property(nil), d.Properties.Properties...)
	if d.ProfileModules != nil {
		clone.ProfileModules = make(map[string][]string, len(d.ProfileModules))
		for k, v := range d.ProfileModules {
			clone.ProfileModules[k] = append([]string(nil), v...)
		}
	}
	return &clone
}
