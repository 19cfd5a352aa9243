// Package printer renders a resolved project the way pom_printer.py does:
// a project header, then whichever of properties/managements/dependencies/
// collect/tree sections were asked for, each entry annotated with the
// provenance path that produced it.
package printer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/resolver"
)

// Section names, matching the original's aliases.
const (
	SectionProject      = "project"
	SectionProperties   = "properties"
	SectionManagements  = "managements"
	SectionDependencies = "dependencies"
	SectionCollect      = "collect"
	SectionTree         = "tree"
)

var sectionAliases = map[string]string{
	"proj": SectionProject, "props": SectionProperties, "mgts": SectionManagements,
	"deps": SectionDependencies, "coll": SectionCollect,
}

var allSections = []string{SectionProject, SectionProperties, SectionManagements, SectionDependencies, SectionCollect, SectionTree}

// Options controls rendering.
type Options struct {
	Indent   int
	Color    bool
	Basic    bool
	Sections []string
}

// NormalizeSections expands aliases and defaults to every section.
func NormalizeSections(requested []string) []string {
	if len(requested) == 0 {
		return allSections
	}
	out := make([]string, 0, len(requested))
	for _, s := range requested {
		if full, ok := sectionAliases[s]; ok {
			out = append(out, full)
			continue
		}
		out = append(out, s)
	}
	return out
}

func has(sections []string, name string) bool {
	for _, s := range sections {
		if s == name {
			return true
		}
	}
	return false
}

// Print writes the rendered project to w.
func Print(w io.Writer, res *resolver.Result, opts Options) {
	indent := opts.Indent
	if indent == 0 {
		indent = 120
	}
	sections := NormalizeSections(opts.Sections)

	cName := func(s string) string { return s }
	cVal := func(s string) string { return s }
	cIndent := 0
	if opts.Color {
		cName = func(s string) string { return "\033[1;33m" + s + "\033[0m" }
		cVal = func(s string) string { return "\033[1;32m" + s + "\033[0m" }
		cIndent = 11
	}
	indent1 := indent + cIndent
	indent2 := indent + 2*cIndent

	doc := res.Root
	header := fmt.Sprintf("%s:%s:%s", doc.GroupID, doc.ArtifactID, doc.Version)
	fmt.Fprintln(w, strings.Repeat("#", indent))
	fmt.Fprintln(w, padRight(fmt.Sprintf("# %s ", header), indent-1, " ")+"#")
	fmt.Fprintln(w, strings.Repeat("#", indent))

	if has(sections, SectionProject) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Project: %s:%s\n", cName(fmt.Sprintf("%s:%s", doc.GroupID, doc.ArtifactID)), cVal(string(doc.Version)))
	}

	if has(sections, SectionProperties) {
		printProperties(w, res.ComputedProperties, cName, cVal, indent2)
	}

	if has(sections, SectionManagements) {
		printManagements(w, res.ComputedManagements, cName, cVal, indent1)
	}

	if has(sections, SectionDependencies) || has(sections, SectionCollect) || has(sections, SectionTree) {
		printDependencySections(w, res, sections, opts.Basic, cName, cVal, indent1, indent2, indent)
	}
}

func printProperties(w io.Writer, props map[string]*pom.ResolvedProperty, cName, cVal func(string) string, indent2 int) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Properties (%d):\n", len(props))
	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		p := props[n]
		printComment(w, indent2, fmt.Sprintf("    %s: %s", cName(p.Name), cVal(p.Value)), p.Paths.String(), "")
	}
}

func printManagements(w io.Writer, mgts map[pom.ManagementKey]*pom.ResolvedDependency, cName, cVal func(string) string, indent1 int) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Managements (%d):\n", len(mgts))
	keys := make([]pom.ManagementKey, 0, len(mgts))
	for k := range mgts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].GroupID != keys[j].GroupID {
			return keys[i].GroupID < keys[j].GroupID
		}
		if keys[i].ArtifactID != keys[j].ArtifactID {
			return keys[i].ArtifactID < keys[j].ArtifactID
		}
		return keys[i].Type < keys[j].Type
	})
	for _, k := range keys {
		mgt := mgts[k]
		printComment(w, indent1, fmt.Sprintf("    %s:%s", cName(k.String()), cVal(string(mgt.Version))), mgt.Paths.String(), "")
	}
}

func printDependencySections(w io.Writer, res *resolver.Result, sections []string, basic bool, cName, cVal func(string) string, indent1, indent2, indent int) {
	printDeps := has(sections, SectionDependencies)
	printColl := has(sections, SectionCollect)
	printTree := has(sections, SectionTree)

	keys := make([]pom.GAKey, 0, len(res.ComputedDependencies))
	for k := range res.ComputedDependencies {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].GroupID != keys[j].GroupID {
			return keys[i].GroupID < keys[j].GroupID
		}
		return keys[i].ArtifactID < keys[j].ArtifactID
	})

	if printDeps {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Dependencies (%d):\n", len(res.ComputedDependencies))
	}

	type collected struct {
		dep *pom.ResolvedDependency
	}
	var cols []collected

	for _, k := range keys {
		dep := res.ComputedDependencies[k]
		if string(dep.Type) == "parent" {
			continue
		}
		if printDeps {
			printComment(w, indent1, fmt.Sprintf("    %s", cName(k.String())), dep.Paths.String(), "")
			printComment(w, indent1, fmt.Sprintf("        %s:%s", cVal(string(dep.Version)), dep.Scope), dep.Paths.String(), "dep: ")
			printComment(w, indent, "", dep.PathsVersion.String(), "ver: ")
		}
		cols = append(cols, collected{dep: dep})
	}

	if printColl {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Collected Dependencies (%d):\n", len(cols))
		for _, c := range cols {
			printComment(w, indent2, fmt.Sprintf("    %s:%s:%s", cName(c.dep.GAKey().String()), cVal(string(c.dep.Version)), c.dep.Scope), c.dep.Paths.String(), "dep: ")
		}
	}

	if printTree {
		fmt.Fprintln(w)
		printTreeSection(w, res, keys, basic, cName, cVal, indent2)
	}
}

// treeNode is the splice-friendly shape used to build the tree: children
// are looked up by the last path component of the recorded provenance
// rather than a real graph edge list, mirroring how pom_printer.py infers
// parent/child relationships from paths alone.
type treeNode struct {
	dep      *pom.ResolvedDependency
	children []*treeNode
}

func printTreeSection(w io.Writer, res *resolver.Result, keys []pom.GAKey, basic bool, cName, cVal func(string) string, indent2 int) {
	nodes := map[string]*treeNode{}
	rootKey := res.Root.Key().String()
	root := &treeNode{}
	nodes[rootKey] = root

	var ordered []*pom.ResolvedDependency
	for _, k := range keys {
		dep := res.ComputedDependencies[k]
		ordered = append(ordered, dep)
	}

	pending := ordered
	for len(pending) > 0 {
		var next []*pom.ResolvedDependency
		for _, dep := range pending {
			parentKey := dep.Paths.Last().String()
			if parent, ok := nodes[parentKey]; ok {
				n := &treeNode{dep: dep}
				parent.children = append(parent.children, n)
				nodes[dep.GAKey().String()+":"+string(dep.Version)] = n
				nodes[fmt.Sprintf("%s:%s:%s", dep.GroupID, dep.ArtifactID, dep.Version)] = n
			} else {
				next = append(next, dep)
			}
		}
		if len(next) == len(pending) {
			break // orphaned entries (shouldn't happen); stop rather than loop forever
		}
		pending = next
	}

	// Splice out synthetic "parent" nodes: their children are promoted to
	// their own parent, matching pom_printer.py's remove_type.
	var splice func(n *treeNode)
	splice = func(n *treeNode) {
		kept := n.children[:0]
		for _, c := range n.children {
			if c.dep != nil && string(c.dep.Type) == "parent" {
				kept = append(kept, c.children...)
			} else {
				kept = append(kept, c)
			}
		}
		n.children = kept
		for _, c := range n.children {
			splice(c)
		}
	}
	splice(root)

	count := countNodes(root)
	fmt.Fprintf(w, "Tree Dependencies (%d):\n", count)

	elbow, pipe, tee, blank := "└─ ", "│  ", "├─ ", "   "
	if basic {
		elbow, pipe, tee, blank = "\\- ", "|  ", "+- ", "   "
	}

	printComment(w, indent2, fmt.Sprintf("    %s:%s", cName(res.Root.Key().GroupID+":"+res.Root.Key().ArtifactID), cVal(res.Root.Key().Version)), "", "")

	var loop func(n *treeNode, header string)
	loop = func(n *treeNode, header string) {
		for i, c := range n.children {
			last := i+1 == len(n.children)
			h := header + tee
			if last {
				h = header + elbow
			}
			printComment(w, indent2, fmt.Sprintf("    %s%s:%s:%s", h, cName(c.dep.GAKey().String()), cVal(string(c.dep.Version)), c.dep.Scope), c.dep.PathsVersion.String(), "ver: ")
			nh := header + pipe
			if last {
				nh = header + blank
			}
			loop(c, nh)
		}
	}
	loop(root, "")
}

func countNodes(n *treeNode) int {
	total := len(n.children)
	for _, c := range n.children {
		total += countNodes(c)
	}
	return total
}

func printComment(w io.Writer, indent int, text, comment, prefix string) {
	if comment == "" {
		fmt.Fprintln(w, text)
		return
	}
	fmt.Fprintf(w, "%s  # %s%s\n", padRight(text, indent, " "), prefix, comment)
}

func padRight(s string, width int, pad string) string {
	for len(s) < width {
		s += pad
	}
	return s
}
