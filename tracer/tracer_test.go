package tracer_test

import (
	"strings"
	"testing"

	"github.com/momiji/mvnresolve/tracer"
)

func TestZeroValuePredicatesAreAllFalse(t *testing.T) {
	var tr *tracer.Tracer
	if tr.TracePOMs() || tr.TraceDep("g:a") || tr.TraceProp("x") || tr.TraceRange("g:a") {
		t.Errorf("a nil Tracer must disable every trace predicate")
	}
	// Must also be safe to call without panicking.
	tr.Trace("should be a no-op")
	tr.SetContext("also a no-op")
}

func TestAddDepWildcard(t *testing.T) {
	var buf strings.Builder
	tr := tracer.New(&buf).SetColor(false)
	tr.AddDep("*")
	if !tr.TraceDep("anything:at-all") {
		t.Errorf("'*' should enable tracing for every dependency")
	}
}

func TestTraceRangeFollowsDepList(t *testing.T) {
	var buf strings.Builder
	tr := tracer.New(&buf).SetColor(false)
	tr.AddDep("g:a")
	if !tr.TraceRange("g:a") {
		t.Errorf("range tracing should follow a specifically-traced dependency")
	}
	if tr.TraceRange("g:other") {
		t.Errorf("range tracing should not follow an untraced dependency")
	}
}

func TestTraceNumbersLinesAndFlushesContext(t *testing.T) {
	var buf strings.Builder
	tr := tracer.New(&buf).SetColor(false)
	tr.SetContext("entering pom", "g:a:1.0")
	tr.Trace("dependency", "g:b", "1.0", "compile")
	tr.Trace("dependency", "g:c", "2.0", "runtime")

	out := buf.String()
	if !strings.Contains(out, "0: entering pom: g:a:1.0") {
		t.Errorf("expected flushed context as line 0, got:\n%s", out)
	}
	if !strings.Contains(out, "1: dependency: g:b 1.0: compile") {
		t.Errorf("expected first trace as line 1, got:\n%s", out)
	}
	if !strings.Contains(out, "2: dependency: g:c 2.0: runtime") {
		t.Errorf("expected second trace as line 2, got:\n%s", out)
	}
}
