// Package propexpand implements the fixpoint `${name}` property expansion
// contract (§4.3): lookup order is props then builtins, unknown keys are
// left literal, and expansion repeats until either nothing changes or no
// `$` remains. Re-derived here rather than called into deps.dev/util/maven's
// own (unexported) interpolating helper, which exists only to interpolate
// struct fields in place and isn't reachable from outside that package.
package propexpand

import (
	"regexp"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Expand resolves `${name}` references in value against props first, then
// builtins. It iterates to a fixpoint: stops when a pass leaves the string
// unchanged (covers both "fully resolved" and "unresolvable self/cyclic
// reference" — the latter simply stops making progress) or once no `$`
// character remains.
func Expand(value string, props, builtins map[string]string) string {
	for {
		if !containsDollar(value) {
			return value
		}
		next := expandOnce(value, props, builtins)
		if next == value {
			return next
		}
		value = next
	}
}

func expandOnce(value string, props, builtins map[string]string) string {
	return placeholder.ReplaceAllStringFunc(value, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := props[name]; ok {
			return v
		}
		if v, ok := builtins[name]; ok {
			return v
		}
		return m
	})
}

func containsDollar(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '$' {
			return true
		}
	}
	return false
}

// Builtins constructs the project's builtin property map (§3 invariant):
// {project,pom,}.{groupId,artifactId,version}, and if a parent coordinate is
// given, the same six keys under parent./project.parent.
func Builtins(groupID, artifactID, version string, hasParent bool, parentGroupID, parentArtifactID, parentVersion string) map[string]string {
	b := map[string]string{
		"groupId":            groupID,
		"artifactId":         artifactID,
		"version":            version,
		"project.groupId":    groupID,
		"project.artifactId": artifactID,
		"project.version":    version,
		"pom.groupId":        groupID,
		"pom.artifactId":     artifactID,
		"pom.version":        version,
	}
	if hasParent {
		b["parent.groupId"] = parentGroupID
		b["parent.artifactId"] = parentArtifactID
		b["parent.version"] = parentVersion
		b["project.parent.groupId"] = parentGroupID
		b["project.parent.artifactId"] = parentArtifactID
		b["project.parent.version"] = parentVersion
	}
	return b
}

// AddIfMissing merges src into dst, keeping dst's existing value on key
// collision (the "seed properties only where absent" rule used by
// register_locations and load_parents).
func AddIfMissing(dst, src map[string]string) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// Set merges src into dst unconditionally, overwriting on collision (used
// for the CLI's -D seed, which always wins over a pom's own property of the
// same name).
func Set(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
