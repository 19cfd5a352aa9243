// Package mvnrange implements the Maven version-range resolver (§4.2):
// given a `[x,y)`-style range and an artifact directory, pick the highest
// on-disk version satisfying the range, using deps.dev/util/semver's Maven
// ordering rather than re-deriving Maven's version-comparison algorithm.
package mvnrange

import (
	"os"

	"deps.dev/util/semver"
)

// IsRange reports whether a version string is a Maven range expression
// (begins with an inclusive or exclusive bound marker) rather than a literal
// version.
func IsRange(version string) bool {
	return len(version) > 0 && (version[0] == '[' || version[0] == '(')
}

// Resolve picks the highest version under artifactDir (one subdirectory per
// on-disk version, as laid out by the local repository) satisfying rng. If
// artifactDir doesn't exist, or no subdirectory satisfies the range, it
// returns ok=false and the caller keeps the literal range string (§4.2:
// "return the literal range unchanged"; §7 RangeUnresolvable is a warning,
// not an error).
func Resolve(rng string, artifactDir string) (resolved string, ok bool) {
	constraint, err := semver.Maven.ParseConstraint(rng)
	if err != nil {
		return rng, false
	}

	entries, err := os.ReadDir(artifactDir)
	if err != nil {
		return rng, false
	}

	var best *semver.Version
	var bestName string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := semver.Maven.Parse(e.Name())
		if err != nil {
			continue
		}
		if !constraint.MatchVersion(v) {
			continue
		}
		if best == nil || v.Compare(best) > 0 {
			best = v
			bestName = e.Name()
		}
	}

	if best == nil {
		return rng, false
	}
	return bestName, true
}
