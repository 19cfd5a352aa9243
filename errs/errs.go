// Package errs defines the fatal error kinds the resolver can raise, each
// carrying the offending coordinate and the path chain that reached it.
package errs

import (
	"errors"
	"fmt"
)

// Kind is a sentinel identifying one of the fatal error categories from the
// error handling design. Use errors.Is against the exported sentinels below.
type Kind error

var (
	// MalformedPOM: XML cannot be parsed, or a mandatory coordinate is
	// still missing after parent-fill.
	MalformedPOM Kind = errors.New("malformed pom")
	// UnexpectedElement: an element outside the whitelisted set for its
	// parent was encountered.
	UnexpectedElement Kind = errors.New("unexpected element")
	// InvalidScope: a dependency or management entry declared a scope
	// outside the known set.
	InvalidScope Kind = errors.New("invalid scope")
	// InvalidType: a dependency declared a type outside {jar, pom, parent}
	// (ignoring the silently-skipped type list).
	InvalidType Kind = errors.New("invalid type")
	// InvalidOptional: the optional element held something other than
	// "true" or "false" (a blank value defaults to "false").
	InvalidOptional Kind = errors.New("invalid optional")
	// MissingPOM: a file was not found with allow_missing=false. Always
	// fatal for the root POM.
	MissingPOM Kind = errors.New("missing pom")
)

// CoordinateError wraps a fatal Kind with the artifact coordinate and the
// dotted path chain (root -> ... -> offending POM) that reached it.
type CoordinateError struct {
	Kind       Kind
	Coordinate string
	PathChain  string
	Err        error
}

func (e *CoordinateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (at %s): %v", e.Kind, e.Coordinate, e.PathChain, e.Err)
	}
	return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Coordinate, e.PathChain)
}

func (e *CoordinateError) Unwrap() error { return e.Kind }

// Wrap builds a CoordinateError for the given kind, coordinate, and path
// chain, optionally wrapping an underlying cause.
func Wrap(kind Kind, coordinate, pathChain string, cause error) *CoordinateError {
	return &CoordinateError{Kind: kind, Coordinate: coordinate, PathChain: pathChain, Err: cause}
}

// Warning is a non-fatal condition surfaced alongside a best-effort result
// rather than aborting resolution. The resolver returns unsupported profile
// activation criteria as Warnings; a missing transitive POM and an
// unresolvable version range are reported through log.Warnf only.
type Warning struct {
	Kind       string
	Coordinate string
	Message    string
}

func (w Warning) String() string {
	if w.Coordinate == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Coordinate, w.Message)
}
