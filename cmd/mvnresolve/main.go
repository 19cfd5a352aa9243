// Package main provides the mvnresolve CLI: compute and print the effective
// dependency graph of a Maven project without invoking Maven itself.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deps.dev/util/maven"
	"github.com/gobwas/glob"
	"golang.org/x/term"

	"github.com/momiji/mvnresolve/loader"
	"github.com/momiji/mvnresolve/log"
	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/printer"
	"github.com/momiji/mvnresolve/profileactivate"
	"github.com/momiji/mvnresolve/resolver"
	"github.com/momiji/mvnresolve/tracer"
)

// Config is populated directly by flag.*Var calls in main, the same shape
// as the teacher's own parseFlags() *Config helper.
type Config struct {
	RootFile string
	Sections string
	Modules  string

	JDK      string
	OSName   string
	OSFamily string
	OSArch   string

	TracePOMs  bool
	TraceDeps  string
	TraceProps string
	TraceRange bool

	Basic   bool
	Color   bool
	NoColor bool
	Verbose bool
}

// properties collects repeated -D name=value flags into a map.
type properties map[string]string

func (p properties) String() string { return "" }

func (p properties) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("-D expects name=value, got %q", s)
	}
	p[name] = value
	return nil
}

// forcedManagements collects repeated -DM g:a[:t]=version flags into
// initial_managements overrides (§4.5 Rule 3g: these unconditionally pin a
// coordinate even over an in-graph dependencyManagement entry).
type forcedManagements map[pom.ManagementKey]*pom.ResolvedDependency

func (f forcedManagements) String() string { return "" }

func (f forcedManagements) Set(s string) error {
	coord, version, ok := strings.Cut(s, "=")
	if !ok || version == "" {
		return fmt.Errorf("-DM expects g:a[:t]=version, got %q", s)
	}
	parts := strings.Split(coord, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("-DM expects g:a[:t]=version, got %q", s)
	}
	typ := "jar"
	if len(parts) == 3 {
		typ = parts[2]
	}
	key := pom.ManagementKey{GroupID: parts[0], ArtifactID: parts[1], Type: typ}
	f[key] = &pom.ResolvedDependency{
		Dependency: maven.Dependency{GroupID: maven.String(parts[0]), ArtifactID: maven.String(parts[1]), Type: maven.String(typ), Version: maven.String(version)},
	}
	return nil
}

// csvList collects repeated or comma-joined flag values into a flat slice.
type csvList []string

func (c *csvList) String() string { return strings.Join(*c, ",") }

func (c *csvList) Set(s string) error {
	*c = append(*c, strings.Split(s, ",")...)
	return nil
}

func main() {
	config := &Config{}
	props := properties{}
	forced := forcedManagements{}
	var traceDeps, traceProps csvList

	flag.StringVar(&config.Sections, "sections", "", "comma-separated sections to print (project,properties,managements,dependencies,collect,tree); default all")
	flag.StringVar(&config.Modules, "modules", "", "glob pattern filtering which reactor modules are resolved and printed")
	flag.Var(&props, "D", "define a property, repeatable (-D name=value)")
	flag.Var(&forced, "DM", "force a dependencyManagement entry, repeatable (-DM g:a[:t]=version)")
	flag.StringVar(&config.JDK, "jdk", "11", "JDK version used for profile activation")
	flag.StringVar(&config.OSName, "os-name", "linux", "OS name used for profile activation")
	flag.StringVar(&config.OSFamily, "os-family", "unix", "OS family used for profile activation")
	flag.StringVar(&config.OSArch, "os-arch", "amd64", "OS arch used for profile activation")
	flag.BoolVar(&config.TracePOMs, "trace-poms", false, "trace every POM visited")
	flag.Var(&traceDeps, "trace-dep", "trace a g:a coordinate, or '*' for every dependency, repeatable")
	flag.Var(&traceProps, "trace-prop", "trace a property name, or '*' for every property, repeatable")
	flag.BoolVar(&config.TraceRange, "trace-range", false, "trace every version range resolution")
	flag.BoolVar(&config.Basic, "basic", false, "use ASCII tree drawing instead of box-drawing characters")
	flag.BoolVar(&config.Color, "color", false, "force ANSI color output")
	flag.BoolVar(&config.NoColor, "no-color", false, "force plain output")
	flag.BoolVar(&config.Verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	if config.Verbose {
		log.SetLogger(&log.DefaultLogger{Verbose: true})
	}

	args := flag.Args()
	config.RootFile = "pom.xml"
	if len(args) > 0 {
		config.RootFile = args[0]
	}

	m2Home := os.Getenv("M2_HOME")
	if m2Home == "" {
		m2Home = filepath.Join(os.Getenv("HOME"), ".m2", "repository")
	}
	l := loader.New(m2Home)

	initialProps := map[string]string(props)
	if err := l.RegisterLocations(config.RootFile, initialProps); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	roots, err := selectRoots(l, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	tr := buildTracer(config, traceDeps, traceProps)

	exitCode := 0
	for _, rootFile := range roots {
		res, err := resolver.Resolve(l, rootFile, resolver.Options{
			Env: profileactivate.Environment{
				JDK: config.JDK, OSName: config.OSName, OSFamily: config.OSFamily, OSArch: config.OSArch,
			},
			InitialProps:      initialProps,
			ForcedManagements: map[pom.ManagementKey]*pom.ResolvedDependency(forced),
			Tracer:            tr,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error resolving %s: %v\n", rootFile, err)
			exitCode = 1
			continue
		}
		log.Infof("run %s: resolved %s", res.RunID, rootFile)
		for _, w := range res.Warnings {
			log.Warnf("%s", w.String())
		}

		printer.Print(os.Stdout, res, printer.Options{
			Color:    resolveColor(config),
			Basic:    config.Basic,
			Sections: splitSections(config.Sections),
		})
	}
	os.Exit(exitCode)
}

// selectRoots resolves config.RootFile plus, when -modules is set, every
// reactor module pom.xml whose module name matches the glob.
func selectRoots(l *loader.Loader, config *Config) ([]string, error) {
	if config.Modules == "" {
		return []string{config.RootFile}, nil
	}
	g, err := glob.Compile(config.Modules)
	if err != nil {
		return nil, fmt.Errorf("invalid -modules pattern: %w", err)
	}
	doc, err := l.LoadByFile(config.RootFile)
	if err != nil {
		return nil, err
	}
	var roots []string
	for _, m := range doc.Modules {
		if g.Match(string(m)) {
			roots = append(roots, filepath.Join(filepath.Dir(doc.File), string(m), "pom.xml"))
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("-modules %q matched no module", config.Modules)
	}
	return roots, nil
}

func buildTracer(config *Config, traceDeps, traceProps csvList) *tracer.Tracer {
	if !config.TracePOMs && !config.TraceRange && len(traceDeps) == 0 && len(traceProps) == 0 {
		return nil
	}
	tr := tracer.New(os.Stdout).SetPOMs(config.TracePOMs).SetRanges(config.TraceRange).SetColor(resolveColor(config))
	for _, d := range traceDeps {
		tr.AddDep(d)
	}
	for _, p := range traceProps {
		tr.AddProp(p)
	}
	return tr
}

func resolveColor(config *Config) bool {
	if config.NoColor {
		return false
	}
	if config.Color {
		return true
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func splitSections(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
