package management_test

import (
	"testing"

	"github.com/momiji/mvnresolve/loader"
	"github.com/momiji/mvnresolve/management"
	"github.com/momiji/mvnresolve/pom"
)

// TestBuildNearestWins checks that a child's own dependencyManagement entry
// (path length 1) wins over the same coordinate inherited from the parent
// (path length 2), even though the parent's version would otherwise be the
// one written down last in a naive merge.
func TestBuildNearestWins(t *testing.T) {
	l := loader.New("testdata/m2")
	doc, err := l.LoadByFile("testdata/child/pom.xml")
	if err != nil {
		t.Fatalf("LoadByFile: %v", err)
	}

	out := map[pom.ManagementKey]*pom.ResolvedDependency{}
	if err := management.Build(l, doc, pom.Path{}, out); err != nil {
		t.Fatalf("Build: %v", err)
	}

	key := pom.ManagementKey{GroupID: "org.apache.commons", ArtifactID: "commons-lang3", Type: "jar"}
	mgt, ok := out[key]
	if !ok {
		t.Fatalf("commons-lang3 management entry missing: %+v", out)
	}
	if got, want := string(mgt.Version), "3.13.0"; got != want {
		t.Errorf("version = %q, want the child's own nearer entry %q", got, want)
	}
	if mgt.Paths.Length != 1 {
		t.Errorf("Paths.Length = %d, want 1 (the child's own dependencyManagement)", mgt.Paths.Length)
	}
}
