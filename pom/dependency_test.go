package pom_test

import (
	"testing"

	"deps.dev/util/maven"

	"github.com/momiji/mvnresolve/pom"
)

func TestGAKeyOfIgnoresTypeAndClassifier(t *testing.T) {
	a := pom.GAKeyOf(maven.Dependency{GroupID: "g", ArtifactID: "a", Type: "jar", Classifier: "sources"})
	b := pom.GAKeyOf(maven.Dependency{GroupID: "g", ArtifactID: "a", Type: "pom"})
	if a != b {
		t.Errorf("GAKeyOf should ignore type/classifier: %+v != %+v", a, b)
	}
	if a.String() != "g:a" {
		t.Errorf("GAKey.String() = %q, want %q", a.String(), "g:a")
	}
}

func TestManagementKeyOfDefaultsBlankTypeToJar(t *testing.T) {
	withType := pom.ManagementKeyOf(maven.Dependency{GroupID: "g", ArtifactID: "a", Type: "jar"})
	blank := pom.ManagementKeyOf(maven.Dependency{GroupID: "g", ArtifactID: "a"})
	if withType != blank {
		t.Errorf("blank type should default to jar: %+v != %+v", withType, blank)
	}

	pomType := pom.ManagementKeyOf(maven.Dependency{GroupID: "g", ArtifactID: "a", Type: "pom"})
	if pomType == blank {
		t.Errorf("an explicit pom type must not collide with the jar default")
	}
}

func TestResolvedDependencyCloneIsIndependent(t *testing.T) {
	orig := &pom.ResolvedDependency{
		Dependency: maven.Dependency{
			GroupID: "g", ArtifactID: "a", Version: "1.0",
			Exclusions: []maven.Exclusion{{GroupID: "x", ArtifactID: "y"}},
		},
	}
	clone := orig.Clone()
	clone.Exclusions[0].ArtifactID = "mutated"

	if orig.Exclusions[0].ArtifactID == "mutated" {
		t.Errorf("Clone must deep-copy the exclusion slice")
	}
	if clone.GAKey() != orig.GAKey() {
		t.Errorf("Clone must preserve identity: %+v != %+v", clone.GAKey(), orig.GAKey())
	}
}
