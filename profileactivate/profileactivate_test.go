package profileactivate_test

import (
	"testing"

	"deps.dev/util/maven"

	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/profileactivate"
)

func newDoc(profiles ...maven.Profile) *pom.Document {
	return &pom.Document{
		Project: maven.Project{
			ProjectKey: maven.ProjectKey{GroupID: "g", ArtifactID: "a", Version: "1.0"},
			Profiles:   profiles,
		},
	}
}

func TestApplyJDKActivation(t *testing.T) {
	profile := maven.Profile{
		ID: "java11",
		Activation: maven.Activation{JDK: "[11,)"},
		Properties: maven.Properties{Properties: []maven.Property{{Name: "activated", Value: "yes"}}},
	}
	doc := newDoc(profile)

	profileactivate.Apply(doc, profileactivate.Environment{JDK: "17"}, nil, nil)

	found := false
	for _, p := range doc.Properties.Properties {
		if p.Name == "activated" && p.Value == "yes" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected JDK-activated profile's property to be spliced in, got %+v", doc.Properties.Properties)
	}
}

func TestApplyJDKActivationSkipsWhenOutOfRange(t *testing.T) {
	profile := maven.Profile{
		ID:         "java11",
		Activation: maven.Activation{JDK: "[11,)"},
		Properties: maven.Properties{Properties: []maven.Property{{Name: "activated", Value: "yes"}}},
	}
	doc := newDoc(profile)

	profileactivate.Apply(doc, profileactivate.Environment{JDK: "8"}, nil, nil)

	for _, p := range doc.Properties.Properties {
		if p.Name == "activated" {
			t.Errorf("profile should not have activated for JDK 8")
		}
	}
}

func TestApplyPropertyActivation(t *testing.T) {
	profile := maven.Profile{
		ID:         "withprop",
		Activation: maven.Activation{Property: maven.ActivationProperty{Name: "env", Value: "prod"}},
		Dependencies: []maven.Dependency{
			{GroupID: "g", ArtifactID: "prod-only"},
		},
	}
	doc := newDoc(profile)
	props := map[string]string{"env": "prod"}

	profileactivate.Apply(doc, profileactivate.Environment{}, props, nil)

	if len(doc.Dependencies) != 1 || string(doc.Dependencies[0].ArtifactID) != "prod-only" {
		t.Errorf("expected prod-only dependency spliced in, got %+v", doc.Dependencies)
	}
}

func TestApplyModulesOverlaySplicedInOnActivation(t *testing.T) {
	profile := maven.Profile{
		ID:         "withprop",
		Activation: maven.Activation{Property: maven.ActivationProperty{Name: "env", Value: "prod"}},
	}
	doc := newDoc(profile)
	doc.Modules = []maven.String{"core"}
	doc.ProfileModules = map[string][]string{"withprop": {"prod-extra"}}
	props := map[string]string{"env": "prod"}

	profileactivate.Apply(doc, profileactivate.Environment{}, props, nil)

	var names []string
	for _, m := range doc.Modules {
		names = append(names, string(m))
	}
	if len(names) != 2 || names[0] != "core" || names[1] != "prod-extra" {
		t.Errorf("expected the profile's module overlay appended to the reactor module list, got %+v", names)
	}
}

func TestApplyModulesOnlyProfileIsNotSkipped(t *testing.T) {
	profile := maven.Profile{
		ID:         "modules-only",
		Activation: maven.Activation{ActiveByDefault: "true"},
	}
	doc := newDoc(profile)
	doc.ProfileModules = map[string][]string{"modules-only": {"extra"}}

	profileactivate.Apply(doc, profileactivate.Environment{}, nil, nil)

	if len(doc.Modules) != 1 || string(doc.Modules[0]) != "extra" {
		t.Errorf("a profile with no dependencies/managements/properties but nonempty modules must still activate, got %+v", doc.Modules)
	}
}

func TestApplyActiveByDefaultFallsBackWhenNothingElseActivates(t *testing.T) {
	def := maven.Profile{
		ID:         "default",
		Activation: maven.Activation{ActiveByDefault: "true"},
		Properties: maven.Properties{Properties: []maven.Property{{Name: "fell-back", Value: "yes"}}},
	}
	notActivated := maven.Profile{
		ID:         "other",
		Activation: maven.Activation{Property: maven.ActivationProperty{Name: "never-set"}},
		Properties: maven.Properties{Properties: []maven.Property{{Name: "other", Value: "yes"}}},
	}
	doc := newDoc(def, notActivated)

	profileactivate.Apply(doc, profileactivate.Environment{}, nil, nil)

	var hasDefault, hasOther bool
	for _, p := range doc.Properties.Properties {
		if p.Name == "fell-back" {
			hasDefault = true
		}
		if p.Name == "other" {
			hasOther = true
		}
	}
	if !hasDefault {
		t.Errorf("expected the activeByDefault profile to apply when nothing else activated")
	}
	if hasOther {
		t.Errorf("the non-activated profile must not have applied")
	}
}
