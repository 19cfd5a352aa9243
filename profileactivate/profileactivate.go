// Package profileactivate implements the Profile activator (§4.6):
// deciding which <profiles><profile> entries apply to a POM and splicing
// their dependencies/managements/properties into it (last-declared profile
// wins, so profiles are prepended in reverse so later entries in
// computed_properties.set still win).
package profileactivate

import (
	"os"
	"strings"

	"deps.dev/util/maven"
	"deps.dev/util/semver"

	"github.com/momiji/mvnresolve/errs"
	"github.com/momiji/mvnresolve/log"
	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/propexpand"
)

// Environment is the fixed activation context for one resolution run:
// target JDK version and OS descriptor. Unlike deps.dev/util/maven's own
// (unexported, File-less) profile activation, this also evaluates the
// file.exists/file.missing criterion, supplemented from the original
// resolver since the library leaves it as a known gap.
type Environment struct {
	JDK      string
	OSName   string
	OSFamily string
	OSArch   string
}

// Apply decides which of doc's profiles are active against env and props,
// then splices their dependencies/dependencyManagement/properties into doc
// (profile-declared entries take precedence over the POM's own, matching
// how a later pom_solver.py merge prepends profile content). It returns the
// warnings produced by unsupported or unevaluable criteria (§7).
func Apply(doc *pom.Document, env Environment, props map[string]string, builtins map[string]string) []errs.Warning {
	if len(doc.Profiles) == 0 {
		return nil
	}

	var warnings []errs.Warning
	var active []maven.Profile
	var defaults []maven.Profile

profileLoop:
	for _, profile := range doc.Profiles {
		modules := doc.ProfileModules[string(profile.ID)]
		if len(profile.Dependencies) == 0 && len(profile.DependencyManagement.Dependencies) == 0 && len(profile.Properties.Properties) == 0 && len(modules) == 0 {
			continue
		}
		if profile.Activation.ActiveByDefault.Boolean() {
			defaults = append(defaults, profile)
			continue
		}

		act := profile.Activation

		if act.JDK != "" {
			if jdkMatches(string(act.JDK), env.JDK) {
				active = append(active, profile)
				continue profileLoop
			}
		}

		if act.OS.Name != "" || act.OS.Family != "" || act.OS.Arch != "" || act.OS.Version != "" {
			if act.OS.Name != "" && !osAllowed(string(act.OS.Name), env.OSName) {
				continue
			}
			if act.OS.Family != "" && !osAllowed(string(act.OS.Family), env.OSFamily) {
				continue
			}
			if act.OS.Arch != "" && !osAllowed(string(act.OS.Arch), env.OSArch) {
				continue
			}
			if act.OS.Version != "" {
				warnings = append(warnings, errs.Warning{
					Kind: "UnsupportedActivation", Coordinate: doc.Key().String(),
					Message: "skip profile '" + string(profile.ID) + "': unsupported os.version activation '" + string(act.OS.Version) + "'",
				})
				continue
			}
			active = append(active, profile)
			continue profileLoop
		}

		if act.Property.Name != "" {
			name := string(act.Property.Name)
			if strings.HasPrefix(name, "!") {
				if _, ok := props[strings.TrimPrefix(name, "!")]; ok {
					continue
				}
			} else {
				value := string(act.Property.Value)
				if _, ok := props[name]; !ok {
					continue
				}
				if value != "" {
					pv := propexpand.Expand(value, props, builtins)
					cv := propexpand.Expand(props[name], props, builtins)
					if strings.Contains(pv, "$") {
						warnings = append(warnings, unsupportedDollar(doc, profile, pv))
						continue
					}
					if strings.Contains(cv, "$") {
						warnings = append(warnings, unsupportedDollar(doc, profile, cv))
						continue
					}
					if cv != pv {
						continue
					}
				}
			}
			active = append(active, profile)
			continue profileLoop
		}

		if act.File.Exists != "" || act.File.Missing != "" {
			combined := string(act.File.Exists) + string(act.File.Missing)
			if strings.Contains(combined, "$") {
				warnings = append(warnings, unsupportedDollar(doc, profile, combined))
				continue
			}
			if act.File.Exists != "" && !fileExists(string(act.File.Exists)) {
				continue
			}
			if act.File.Missing != "" && fileExists(string(act.File.Missing)) {
				continue
			}
			active = append(active, profile)
			continue profileLoop
		}
	}

	if len(active) == 0 {
		active = defaults
	}

	for _, profile := range active {
		doc.Dependencies = append(append([]maven.Dependency(nil), profile.Dependencies...), doc.Dependencies...)
		doc.DependencyManagement.Dependencies = append(append([]maven.Dependency(nil), profile.DependencyManagement.Dependencies...), doc.DependencyManagement.Dependencies...)
		for _, p := range profile.Properties.Properties {
			setProperty(doc, p.Name, p.Value)
		}
		for _, m := range doc.ProfileModules[string(profile.ID)] {
			doc.Modules = append(doc.Modules, maven.String(m))
		}
		log.Debugf("activated profile '%s' in %s", profile.ID, doc.File)
	}

	return warnings
}

func unsupportedDollar(doc *pom.Document, profile maven.Profile, value string) errs.Warning {
	return errs.Warning{
		Kind: "UnsupportedActivation", Coordinate: doc.Key().String(),
		Message: "skip profile '" + string(profile.ID) + "': unsupported '$' in activation '" + value + "'",
	}
}

func jdkMatches(want, have string) bool {
	c, err := semver.Maven.ParseConstraint(want)
	if err != nil {
		return false
	}
	if c.IsSimple() {
		cmp, diff, err := semver.Maven.Difference(want, have)
		if err != nil {
			return false
		}
		if cmp > 0 || (cmp < 0 && (diff == semver.DiffMajor || diff == semver.DiffMinor)) {
			return false
		}
		return true
	}
	return c.Match(have)
}

// osAllowed mirrors requireOS semantics: case-insensitive match, negated by
// a leading "!".
func osAllowed(want, have string) bool {
	negate := strings.HasPrefix(want, "!")
	want = strings.ToLower(strings.TrimPrefix(want, "!"))
	have = strings.ToLower(have)
	if negate {
		return want != have
	}
	return want == have
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func setProperty(doc *pom.Document, name, value string) {
	for i := range doc.Properties.Properties {
		if doc.Properties.Properties[i].Name == name {
			doc.Properties.Properties[i].Value = value
			return
		}
	}
	doc.Properties.Properties = append(doc.Properties.Properties, maven.Property{Name: name, Value: value})
}
