package gen

import "strings"

// Attributes maps match patterns to annotation lines spliced verbatim into
// generated code: package scoped lines go above a service's emitted chunk,
// struct scoped lines go immediately above the struct or interface
// declaration. The generator performs no validation of the line contents.
type Attributes struct {
	packages []attribute
	structs  []attribute
}

type attribute struct {
	pattern string
	lines   []string
}

// PushPackage registers annotation lines for generated code whose enclosing
// package matches pattern.
func (a *Attributes) PushPackage(pattern string, lines ...string) {
	a.packages = append(a.packages, attribute{pattern: pattern, lines: lines})
}

// PushStruct registers annotation lines for generated structs whose fully
// qualified path matches pattern.
func (a *Attributes) PushStruct(pattern string, lines ...string) {
	a.structs = append(a.structs, attribute{pattern: pattern, lines: lines})
}

// ForPackage returns the annotation lines registered for the given package.
// Lookup is best effort: no match yields an empty list, never an error.
func (a Attributes) ForPackage(pkg string) []string {
	return collect(a.packages, pkg)
}

// ForStruct returns the annotation lines registered for the given fully
// qualified struct path, e.g. "greet.v1.Greeter".
func (a Attributes) ForStruct(path string) []string {
	return collect(a.structs, path)
}

func collect(attrs []attribute, path string) []string {
	var lines []string
	for _, at := range attrs {
		if matchPattern(at.pattern, path) {
			lines = append(lines, at.lines...)
		}
	}
	return lines
}

// matchPattern reports whether path matches pattern. A pattern is an exact
// path, "*" for everything, "prefix.*" for a namespace subtree, or
// "*.Suffix" for a trailing component match.
func matchPattern(pattern, path string) bool {
	switch {
	case pattern == "":
		return false
	case pattern == "*":
		return true
	case pattern == path:
		return true
	case strings.HasSuffix(pattern, ".*"):
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(path, strings.TrimPrefix(pattern, "*"))
	}
	return false
}
