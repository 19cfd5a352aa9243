// Package tracer implements the optional resolution tracer (§3c/§7): a
// line-numbered, filterable log of individual resolver decisions, switched
// on selectively per POM / dependency / property / range rather than
// wholesale, so a large resolution can be traced down to one artifact.
package tracer

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Tracer accumulates a numbered trace. The zero value is a no-op tracer:
// every predicate returns false and Trace/SetContext are safe to call but
// do nothing, so callers never need a nil check.
type Tracer struct {
	out   io.Writer
	line  int
	color bool

	poms     bool
	ranges   bool
	debug    bool
	deps     map[string]bool
	depsAll  bool
	props    map[string]bool
	propsAll bool

	ctx    string
	hasCtx bool
}

// New builds a Tracer writing to out, with color defaulted from whether out
// looks like a terminal (only meaningful when out is os.Stdout/os.Stderr).
func New(out io.Writer) *Tracer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Tracer{out: out, color: color, deps: map[string]bool{}, props: map[string]bool{}}
}

func (t *Tracer) SetColor(color bool) *Tracer { t.color = color; return t }
func (t *Tracer) SetPOMs(v bool) *Tracer      { t.poms = v; return t }
func (t *Tracer) SetRanges(v bool) *Tracer    { t.ranges = v; return t }
func (t *Tracer) SetDebug(v bool) *Tracer     { t.debug = v; return t }

// AddDep enables tracing for one g:a coordinate, or every dependency when
// ga is "*".
func (t *Tracer) AddDep(ga string) *Tracer {
	t.deps[ga] = true
	if ga == "*" {
		t.depsAll = true
	}
	return t
}

// AddProp enables tracing for one property name, or every property when
// name is "*".
func (t *Tracer) AddProp(name string) *Tracer {
	t.props[name] = true
	if name == "*" {
		t.propsAll = true
	}
	return t
}

func (t *Tracer) TracePOMs() bool { return t != nil && t.poms }
func (t *Tracer) TraceDebug() bool { return t != nil && t.debug }

func (t *Tracer) TraceDep(ga string) bool {
	return t != nil && (t.depsAll || t.deps[ga])
}

func (t *Tracer) TraceProp(name string) bool {
	return t != nil && (t.propsAll || t.props[name])
}

// TraceRange reports whether range resolution for ga should be traced: any
// range is traced when ranges-tracing is globally on, and a specific g:a is
// traced whenever it was passed to AddDep by name (the "*" wildcard does not
// turn on range tracing).
func (t *Tracer) TraceRange(ga string) bool {
	return t != nil && (t.ranges || t.deps[ga])
}

func (t *Tracer) cName(s string) string {
	if !t.color {
		return s
	}
	return "\033[1;33m" + s + "\033[0m"
}

func (t *Tracer) cVal(s string) string {
	if !t.color {
		return s
	}
	return "\033[1;33m" + s + "\033[0m"
}

// format renders "text: name arg1: arg2 arg3: arg4 ..." the way
// pom_tracer.py's format alternates attribute/value coloring across args
// after the first (the name).
func (t *Tracer) format(text string, args ...string) string {
	out := text + ":"
	if len(args) > 0 && args[0] != "" {
		out += " " + t.cName(args[0])
	}
	seps := []string{" ", ": "}
	p := 0
	for _, a := range args[1:] {
		out += seps[p] + t.cVal(a)
		p = (p + 1) % len(seps)
	}
	return out
}

// SetContext stashes a header line to be emitted (and consumed) the next
// time Trace is called, letting a caller announce "entering POM X" only if
// something inside it actually gets traced.
func (t *Tracer) SetContext(text string, args ...string) {
	if t == nil {
		return
	}
	t.ctx = t.format(text, args...)
	t.hasCtx = true
}

// Trace emits text (numbered), first flushing any pending context line. An
// empty text emits only the pending context, if any.
func (t *Tracer) Trace(text string, args ...string) {
	if t == nil || t.out == nil {
		return
	}
	if t.hasCtx {
		fmt.Fprintln(t.out)
		fmt.Fprintf(t.out, "%d: %s\n", t.line, t.ctx)
		t.line++
		t.hasCtx = false
		t.ctx = ""
	}
	if text != "" {
		fmt.Fprintf(t.out, "%d: %s\n", t.line, t.format(text, args...))
		t.line++
	}
}
