// Package loader implements the POM loader (§4.1): memoized fetch by file or
// by coordinate, module-location registration, and the parent-chain walk
// that resolves just enough properties to find each parent.
package loader

import (
	"path/filepath"
	"strings"

	"deps.dev/util/maven"

	"github.com/momiji/mvnresolve/errs"
	"github.com/momiji/mvnresolve/log"
	"github.com/momiji/mvnresolve/mvnrange"
	"github.com/momiji/mvnresolve/pom"
	"github.com/momiji/mvnresolve/propexpand"
	"github.com/momiji/mvnresolve/reader"
)

// Loader is the process-lifetime POM cache and local-repository resolver.
// It is an explicit value (not a package global) so a resolution run can be
// constructed fresh for tests and, per §9, so a future parallel
// implementation has something other than global state to synchronize on.
type Loader struct {
	M2Home string

	fileCache  map[string]*pom.Document
	coordCache map[string]string // "g:a:v" -> absolute file path
}

// New builds a Loader rooted at the given local repository directory
// (typically $HOME/.m2/repository).
func New(m2Home string) *Loader {
	return &Loader{
		M2Home:     m2Home,
		fileCache:  map[string]*pom.Document{},
		coordCache: map[string]string{},
	}
}

// LoadByFile loads (or returns a cached, cloned copy of) the POM at path.
// The path may name a directory, in which case pom.xml within it is used.
func (l *Loader) LoadByFile(path string) (*pom.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.Wrap(errs.MissingPOM, path, path, err)
	}
	if info, statErr := osStat(abs); statErr == nil && info.IsDir() {
		abs = filepath.Join(abs, "pom.xml")
	}

	if cached, ok := l.fileCache[abs]; ok {
		return cached.Clone(), nil
	}

	doc, err := reader.Read(abs)
	if err != nil {
		return nil, err
	}
	l.fileCache[abs] = doc
	return doc.Clone(), nil
}

// Register records that coordinate g:a:v is known to live at file, so a
// later LoadByCoordinate for the same coordinate skips location discovery
// entirely (§4.1 rule 1).
func (l *Loader) Register(groupID, artifactID, version, file string) {
	l.coordCache[groupID+":"+artifactID+":"+version] = file
}

func (l *Loader) underM2(path string) bool {
	if l.M2Home == "" {
		return false
	}
	rel, err := filepath.Rel(l.M2Home, path)
	return err == nil && !strings.HasPrefix(rel, "..")
}

// LoadByCoordinate implements the §4.1 location-discovery order for a
// g:a:v coordinate referenced from baseFile (the POM declaring the
// dependency or parent). relativePath is the dependency/parent's own
// <relativePath>, empty if absent.
func (l *Loader) LoadByCoordinate(groupID, artifactID, version, relativePath, baseFile string, allowMissing bool) (*pom.Document, bool, error) {
	gav := groupID + ":" + artifactID + ":" + version

	// 1. registered location.
	if file, ok := l.coordCache[gav]; ok {
		doc, err := l.LoadByFile(file)
		if err != nil {
			return nil, false, err
		}
		return doc, true, nil
	}

	// 2. relativePath, only off the local repository.
	if relativePath != "" && !l.underM2(baseFile) {
		target := filepath.Join(filepath.Dir(baseFile), relativePath)
		if info, err := osStat(target); err == nil {
			if info.IsDir() {
				target = filepath.Join(target, "pom.xml")
			}
			if fileExists(target) {
				doc, err := l.LoadByFile(target)
				if err != nil {
					return nil, false, err
				}
				l.Register(groupID, artifactID, version, target)
				return doc, true, nil
			}
		}
	}

	// 3. version range.
	resolvedVersion := version
	if mvnrange.IsRange(version) {
		artifactDir := filepath.Join(l.M2Home, strings.ReplaceAll(groupID, ".", "/"), artifactID)
		if v, ok := mvnrange.Resolve(version, artifactDir); ok {
			resolvedVersion = v
		} else {
			log.Warnf("range %s for %s:%s did not resolve against %s", version, groupID, artifactID, artifactDir)
		}
	}

	// 4. local repository fallback.
	file := filepath.Join(l.M2Home, strings.ReplaceAll(groupID, ".", "/"), artifactID, resolvedVersion, artifactID+"-"+resolvedVersion+".pom")
	if !fileExists(file) {
		if allowMissing {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(errs.MissingPOM, gav, file, nil)
	}
	doc, err := l.LoadByFile(file)
	if err != nil {
		return nil, false, err
	}
	l.Register(groupID, artifactID, resolvedVersion, file)
	return doc, true, nil
}

// RegisterLocations recursively registers rootFile and every declared
// <modules><module> subdirectory's pom.xml, seeding each with initialProps
// wherever the module doesn't already define the same property name.
func (l *Loader) RegisterLocations(rootFile string, initialProps map[string]string) error {
	doc, err := l.LoadByFile(rootFile)
	if err != nil {
		return err
	}
	seedDocProperties(doc, initialProps)

	if _, err := l.LoadParents(doc, nil); err != nil {
		return err
	}

	key := doc.Key()
	l.Register(key.GroupID, key.ArtifactID, key.Version, doc.File)

	for _, m := range doc.Modules {
		modPath := filepath.Join(filepath.Dir(doc.File), string(m), "pom.xml")
		if err := l.RegisterLocations(modPath, initialProps); err != nil {
			return err
		}
	}
	return nil
}

// LoadParents walks doc's parent chain (§4.1 load_parents), merging
// properties in priority order (seed, then each POM's own, nearest first)
// and resolving doc's own groupId/artifactId/version once the full chain of
// properties is visible. It returns the accumulated property map.
func (l *Loader) LoadParents(doc *pom.Document, seed map[string]string) (map[string]string, error) {
	props := map[string]string{}
	if err := l.loadParentsRecurse(doc, seed, props); err != nil {
		return nil, err
	}
	return props, nil
}

func (l *Loader) loadParentsRecurse(doc *pom.Document, seed, props map[string]string) error {
	if seed != nil {
		propexpand.Set(props, seed)
	}
	propexpand.AddIfMissing(props, docOwnProperties(doc))

	hasParent := doc.Parent.GroupID != "" || doc.Parent.ArtifactID != ""
	if hasParent {
		parentDoc, found, err := l.LoadByCoordinate(
			string(doc.Parent.GroupID), string(doc.Parent.ArtifactID), string(doc.Parent.Version),
			string(doc.Parent.RelativePath), doc.File, false)
		if err != nil {
			return err
		}
		if found {
			if err := l.loadParentsRecurse(parentDoc, nil, props); err != nil {
				return err
			}
		}
	}

	builtins := propexpand.Builtins(
		string(doc.GroupID), string(doc.ArtifactID), string(doc.Version),
		hasParent, string(doc.Parent.GroupID), string(doc.Parent.ArtifactID), string(doc.Parent.Version))

	if doc.GroupID == "" {
		doc.GroupID = maven.String(propexpand.Expand(string(doc.Parent.GroupID), props, builtins))
	} else {
		doc.GroupID = maven.String(propexpand.Expand(string(doc.GroupID), props, builtins))
	}
	doc.ArtifactID = maven.String(propexpand.Expand(string(doc.ArtifactID), props, builtins))
	if doc.Version == "" {
		doc.Version = maven.String(propexpand.Expand(string(doc.Parent.Version), props, builtins))
	} else {
		doc.Version = maven.String(propexpand.Expand(string(doc.Version), props, builtins))
	}

	if doc.GroupID == "" || doc.Version == "" {
		return errs.Wrap(errs.MalformedPOM, doc.Key().String(), doc.File, nil)
	}
	return nil
}

func docOwnProperties(doc *pom.Document) map[string]string {
	out := make(map[string]string, len(doc.Properties.Properties))
	for _, p := range doc.Properties.Properties {
		out[p.Name] = p.Value
	}
	return out
}

func seedDocProperties(doc *pom.Document, seed map[string]string) {
	existing := map[string]bool{}
	for _, p := range doc.Properties.Properties {
		existing[p.Name] = true
	}
	for k, v := range seed {
		if !existing[k] {
			doc.Properties.Properties = append(doc.Properties.Properties, maven.Property{Name: k, Value: v})
			existing[k] = true
		}
	}
}
