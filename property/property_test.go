package property_test

import (
	"testing"

	"deps.dev/util/maven"

	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/property"
)

func TestResolveExpandsAgainstSelfAndBuiltins(t *testing.T) {
	doc := &pom.Document{
		Project: maven.Project{
			ProjectKey: maven.ProjectKey{GroupID: "com.example", ArtifactID: "app", Version: "1.0"},
		},
	}
	path := pom.RootPath(doc.Key())

	raw := map[string]string{
		"base":      "1",
		"derived":   "${base}.0",
		"coord":     "${project.groupId}:${artifactId}",
		"unresolvable": "${missing}",
	}

	out := property.Resolve(raw, doc, path)

	if got := out["derived"].Value; got != "1.0" {
		t.Errorf("derived = %q, want %q", got, "1.0")
	}
	if got := out["coord"].Value; got != "com.example:app" {
		t.Errorf("coord = %q, want %q", got, "com.example:app")
	}
	if got := out["unresolvable"].Value; got != "${missing}" {
		t.Errorf("unresolvable = %q, want the literal placeholder unchanged", got)
	}
	for name, p := range out {
		if p.Paths.Length != path.Length || len(p.Paths.Chain) != len(path.Chain) {
			t.Errorf("property %q carries path %+v, want %+v", name, p.Paths, path)
		}
	}
}
