package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"slices"
	"strings"
)

// wellKnownPrefix marks protocol-level type names defined by the protobuf
// standard library.
const wellKnownPrefix = ".google.protobuf"

// DefaultAllowlist holds the non-path type spellings the resolver accepts
// verbatim. The unit type is the only spelling needed in practice; extend
// the list through ResolveMode.Allowlist rather than editing it.
var DefaultAllowlist = []string{"struct{}"}

// ResolveMode carries the options directing type path resolution.
type ResolveMode struct {
	// ProtoPath is the namespace prefix under which generated message types
	// are assumed to be reachable, unless a verbatim rule applies.
	ProtoPath string
	// CompileWellKnownTypes disables verbatim pass-through of well known
	// types, treating them like any other compiled message.
	CompileWellKnownTypes bool
	// Allowlist overrides DefaultAllowlist when non-nil.
	Allowlist []string
}

// TypeRef is a resolved reference to a message type, usable inside generated
// code. References produced by path resolution carry their qualifier
// segments; verbatim references carry only their original spelling.
type TypeRef struct {
	name     string
	segments []string
}

func (t TypeRef) String() string {
	return t.name
}

// Segments returns the qualifier segments of a structured reference, or nil
// for a verbatim one.
func (t TypeRef) Segments() []string {
	return t.segments
}

// Resolve maps a message's protocol-level type name and its mangled
// in-language name to the reference emitted into generated code.
//
// The rules apply in order, first match wins:
//  1. well known types are passed through verbatim unless they are compiled
//     alongside the target files;
//  2. names fully qualified from the namespace root (leading dot) are passed
//     through verbatim, assumed to resolve to an externally-provided
//     definition;
//  3. allow-listed non-path spellings such as the unit type are passed
//     through verbatim;
//  4. names already carrying a package qualifier are validated as path
//     expressions and emitted unchanged, which also makes resolution
//     idempotent for previously resolved names;
//  5. everything else is prefixed with ProtoPath and validated as a path
//     expression.
func (m ResolveMode) Resolve(protoName, name string) (TypeRef, error) {
	allow := m.Allowlist
	if allow == nil {
		allow = DefaultAllowlist
	}
	switch {
	case strings.HasPrefix(protoName, wellKnownPrefix) && !m.CompileWellKnownTypes:
		return verbatimRef(name), nil
	case strings.HasPrefix(name, "."):
		return verbatimRef(name), nil
	case slices.Contains(allow, name):
		return verbatimRef(name), nil
	case strings.Contains(name, "."):
		return pathRef(name)
	case m.ProtoPath == "":
		return pathRef(name)
	default:
		return pathRef(m.ProtoPath + "." + name)
	}
}

func verbatimRef(name string) TypeRef {
	return TypeRef{name: name}
}

func pathRef(name string) (TypeRef, error) {
	segs, err := parsePath(name)
	if err != nil {
		return TypeRef{}, fmt.Errorf("malformed type reference %q: %w", name, err)
	}
	return TypeRef{name: name, segments: segs}, nil
}

// parsePath validates name as a plain identifier or selector chain and
// splits it into its segments.
func parsePath(name string) ([]string, error) {
	expr, err := parser.ParseExpr(name)
	if err != nil {
		return nil, err
	}
	return flattenSelector(expr)
}

func flattenSelector(expr ast.Expr) ([]string, error) {
	switch x := expr.(type) {
	case *ast.Ident:
		return []string{x.Name}, nil
	case *ast.SelectorExpr:
		left, err := flattenSelector(x.X)
		if err != nil {
			return nil, err
		}
		return append(left, x.Sel.Name), nil
	default:
		return nil, fmt.Errorf("not a path expression")
	}
}
