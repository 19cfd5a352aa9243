package printer_test

import (
	"strings"
	"testing"

	"deps.dev/util/maven"

	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/printer"
	"github.com/momiji/mvnresolve/resolver"
)

func buildResult() *resolver.Result {
	root := &pom.Document{
		Project: maven.Project{ProjectKey: maven.ProjectKey{GroupID: "com.example", ArtifactID: "app", Version: "1.0"}},
	}
	rootCoord := root.Key()
	rootPath := pom.RootPath(rootCoord)

	parentPseudo := &pom.ResolvedDependency{
		Dependency: maven.Dependency{GroupID: "com.example", ArtifactID: "parentpom", Version: "1.0", Type: "parent"},
		Paths:      rootPath.Extend(rootCoord, 1),
	}
	foo := &pom.ResolvedDependency{
		Dependency: maven.Dependency{GroupID: "libs", ArtifactID: "foo", Version: "1.0", Scope: "compile"},
		Paths:      rootPath.Extend(rootCoord, 1),
	}
	fooCoord := pom.Coordinate{GroupID: "libs", ArtifactID: "foo", Version: "1.0"}
	bar := &pom.ResolvedDependency{
		Dependency:   maven.Dependency{GroupID: "libs", ArtifactID: "bar", Version: "2.0", Scope: "runtime"},
		Paths:        foo.Paths.Extend(fooCoord, 1),
		PathsVersion: foo.Paths.Extend(fooCoord, 1),
	}

	return &resolver.Result{
		Root: root,
		ComputedDependencies: map[pom.GAKey]*pom.ResolvedDependency{
			parentPseudo.GAKey(): parentPseudo,
			foo.GAKey():          foo,
			bar.GAKey():          bar,
		},
		ComputedProperties: map[string]*pom.ResolvedProperty{
			"revision": {Name: "revision", Value: "1.0", Paths: rootPath},
		},
		ComputedManagements: map[pom.ManagementKey]*pom.ResolvedDependency{
			{GroupID: "libs", ArtifactID: "bar", Type: "jar"}: {
				Dependency: maven.Dependency{GroupID: "libs", ArtifactID: "bar", Version: "2.0", Type: "jar"},
				Paths:      rootPath,
			},
		},
	}
}

func TestPrintDependenciesSection(t *testing.T) {
	var buf strings.Builder
	printer.Print(&buf, buildResult(), printer.Options{Sections: []string{printer.SectionDependencies}})

	out := buf.String()
	if !strings.Contains(out, "Dependencies (3):") {
		t.Errorf("expected all three computed dependencies counted (including the synthetic parent), got:\n%s", out)
	}
	if !strings.Contains(out, "libs:foo") || !strings.Contains(out, "libs:bar") {
		t.Errorf("expected both foo and bar listed, got:\n%s", out)
	}
}

func TestPrintTreeSpliceOutParentPseudoNode(t *testing.T) {
	var buf strings.Builder
	printer.Print(&buf, buildResult(), printer.Options{Sections: []string{printer.SectionTree}})

	out := buf.String()
	if strings.Contains(out, "parentpom") {
		t.Errorf("synthetic parent pseudo-dependency must be spliced out of the tree, got:\n%s", out)
	}
	if !strings.Contains(out, "libs:foo") || !strings.Contains(out, "libs:bar") {
		t.Errorf("expected foo and bar in the tree, got:\n%s", out)
	}
}

func TestPrintManagementsSection(t *testing.T) {
	var buf strings.Builder
	printer.Print(&buf, buildResult(), printer.Options{Sections: []string{printer.SectionManagements}})

	out := buf.String()
	if !strings.Contains(out, "Managements (1):") {
		t.Errorf("expected the one computed management entry counted, got:\n%s", out)
	}
	if !strings.Contains(out, "libs:bar:jar") || !strings.Contains(out, "2.0") {
		t.Errorf("expected libs:bar:jar management entry with its version, got:\n%s", out)
	}
}

func TestPrintPropertiesSection(t *testing.T) {
	var buf strings.Builder
	printer.Print(&buf, buildResult(), printer.Options{Sections: []string{printer.SectionProperties}})

	if out := buf.String(); !strings.Contains(out, "revision: 1.0") {
		t.Errorf("expected the revision property listed, got:\n%s", out)
	}
}
