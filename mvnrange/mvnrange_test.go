package mvnrange_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/momiji/mvnresolve/mvnrange"
)

func TestIsRange(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"1.0", false},
		{"[1.0,2.0)", true},
		{"(,1.0]", true},
		{"", false},
	}
	for _, tc := range tests {
		if got := mvnrange.IsRange(tc.version); got != tc.want {
			t.Errorf("IsRange(%q) = %v, want %v", tc.version, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{"1.0", "1.5", "2.0", "not-a-version"} {
		if err := os.Mkdir(filepath.Join(dir, v), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	resolved, ok := mvnrange.Resolve("[1.0,2.0)", dir)
	if !ok {
		t.Fatalf("Resolve did not find a match")
	}
	if resolved != "1.5" {
		t.Errorf("Resolve picked %q, want the highest in-range version 1.5", resolved)
	}

	if _, ok := mvnrange.Resolve("[5.0,6.0)", dir); ok {
		t.Errorf("Resolve should not match when no on-disk version satisfies the range")
	}

	if _, ok := mvnrange.Resolve("[1.0,2.0)", filepath.Join(dir, "does-not-exist")); ok {
		t.Errorf("Resolve should fail gracefully against a missing artifact directory")
	}
}
