package pom_test

import (
	"testing"

	"github.com/momiji/mvnresolve/pom"
)

func TestPathExtend(t *testing.T) {
	root := pom.RootPath(pom.Coordinate{GroupID: "g", ArtifactID: "root", Version: "1.0"})
	if root.Length != 0 {
		t.Errorf("RootPath length = %d, want 0", root.Length)
	}

	child := root.Extend(pom.Coordinate{GroupID: "g", ArtifactID: "child", Version: "1.0"}, 1)
	if child.Length != 1 {
		t.Errorf("child.Length = %d, want 1", child.Length)
	}
	if len(child.Chain) != 2 {
		t.Errorf("child.Chain has %d entries, want 2", len(child.Chain))
	}

	// Extending the same parent path twice must not let one extension's
	// chain mutation leak into the other (a dependency and its synthesized
	// parent edge both extend the same node's path independently).
	sibling := root.Extend(pom.Coordinate{GroupID: "g", ArtifactID: "sibling", Version: "1.0"}, 0)
	if sibling.Length != 0 {
		t.Errorf("sibling.Length = %d, want 0 (parent edge does not increment)", sibling.Length)
	}
	if child.Chain[1].ArtifactID != "child" || sibling.Chain[1].ArtifactID != "sibling" {
		t.Errorf("chains diverged incorrectly: child=%v sibling=%v", child.Chain, sibling.Chain)
	}

	if got, want := child.String(), "g:root:1.0 > g:child:1.0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := child.Last(), (pom.Coordinate{GroupID: "g", ArtifactID: "child", Version: "1.0"}); got != want {
		t.Errorf("Last() = %+v, want %+v", got, want)
	}
}

func TestPathLastOfEmptyPath(t *testing.T) {
	var p pom.Path
	if got := p.Last(); got != (pom.Coordinate{}) {
		t.Errorf("Last() of empty path = %+v, want zero value", got)
	}
}
