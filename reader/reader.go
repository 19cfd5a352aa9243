// Package reader turns a pom.xml file on disk into a *pom.Document. It is an
// external interface to the core resolver (§6): POM dialect acceptance,
// namespace tolerance, and the "unknown sibling tags are a hard error" rule
// live here, not in the resolver.
package reader

import (
	"fmt"
	"io"
	"os"
	"strings"

	forkedxml "github.com/michaelkedar/xml"

	"github.com/momiji/mvnresolve/errs"
	"github.com/momiji/mvnresolve/pom"
)

// elementWhitelist mirrors the original reader's selective unexpected_tags
// calls: Maven tolerates a great many optional project-level elements
// (description, licenses, build, reporting, ...) that deps.dev/util/maven's
// Project already silently ignores on decode, so this module only hard-fails
// on the elements the original reader actually validates: <parent>,
// attribute-form <property>, <profile>, <activation> and its sub-elements,
// and <dependency>.
var elementWhitelist = map[string][]string{
	"parent":              {"groupId", "artifactId", "version", "relativePath"},
	"property":            {"name", "value"},
	"profile":             {"id", "activation", "dependencies", "dependencyManagement", "properties", "build", "repositories", "pluginRepositories", "modules", "distributionManagement", "reporting"},
	"activation":          {"activeByDefault", "jdk", "property", "os", "file"},
	"activation>property": {"name", "value"},
	"activation>os":       {"name", "family", "arch", "version"},
	"activation>file":     {"exists", "missing"},
	"dependency":          {"groupId", "artifactId", "version", "type", "scope", "exclusions", "classifier", "optional", "systemPath"},
}

// Read parses the pom.xml at path into a *pom.Document, validating the
// whitelisted element set along the way.
func Read(path string) (*pom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.MissingPOM, path, path, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, errs.Wrap(errs.MalformedPOM, path, path, err)
	}

	if err := validateElements(raw, path); err != nil {
		return nil, err
	}

	var doc pom.Document
	dec := forkedxml.NewDecoder(strings.NewReader(string(raw)))
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.MalformedPOM, path, path, err)
	}
	doc.File = path

	profileModules, err := readProfileModules(raw)
	if err != nil {
		return nil, errs.Wrap(errs.MalformedPOM, path, path, err)
	}
	doc.ProfileModules = profileModules

	if doc.GroupID == "" && doc.Parent.GroupID == "" {
		return nil, errs.Wrap(errs.MalformedPOM, path, path, fmt.Errorf("no groupId on project or parent"))
	}
	if doc.ArtifactID == "" {
		return nil, errs.Wrap(errs.MalformedPOM, path, path, fmt.Errorf("no artifactId"))
	}

	return &doc, nil
}

// validateElements walks the raw XML token stream, tracking the local
// (namespace-stripped) tag stack, and raises UnexpectedElement the moment a
// child appears under a whitelisted parent (tracked by local tag name,
// possibly qualified by its own parent for the activation sub-elements) that
// isn't in the set above.
func validateElements(raw []byte, path string) error {
	dec := forkedxml.NewDecoder(strings.NewReader(string(raw)))
	var stack []string

	localName := func(name forkedxml.Name) string { return name.Local }

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errs.Wrap(errs.MalformedPOM, path, path, err)
		}
		switch t := tok.(type) {
		case forkedxml.StartElement:
			tag := localName(t.Name)
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				key := parent
				if parent == "os" || parent == "property" || parent == "file" {
					if len(stack) >= 2 && stack[len(stack)-2] == "activation" {
						key = "activation>" + parent
					}
				}
				if allowed, ok := elementWhitelist[key]; ok && !contains(allowed, tag) {
					return errs.Wrap(errs.UnexpectedElement, tag, strings.Join(append(append([]string{}, stack...), tag), "/"), fmt.Errorf("tag %q not allowed under %q", tag, parent))
				}
			}
			stack = append(stack, tag)
		case forkedxml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return nil
}

// profilesShape decodes just enough of <project><profiles> to recover each
// profile's <modules><module> overlay (§3/§4.6), a reactor-module concept
// deps.dev/util/maven's own Profile struct has no field for.
type profilesShape struct {
	Profiles []struct {
		ID      string   `xml:"id"`
		Modules []string `xml:"modules>module"`
	} `xml:"profiles>profile"`
}

func readProfileModules(raw []byte) (map[string][]string, error) {
	var shape profilesShape
	dec := forkedxml.NewDecoder(strings.NewReader(string(raw)))
	if err := dec.Decode(&shape); err != nil {
		return nil, err
	}
	if len(shape.Profiles) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(shape.Profiles))
	for _, p := range shape.Profiles {
		if len(p.Modules) > 0 {
			out[p.ID] = p.Modules
		}
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
