package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	"google.golang.org/grpc/grpclog"
)

// defaultProtoPath is the namespace prefix generated message types are
// assumed to be reachable under when the caller does not override it.
const defaultProtoPath = "super"

// Builder carries the configuration for one generation pass. It is consumed
// by value when Build is called; mutations afterwards have no effect on a
// running pass.
type Builder struct {
	// BuildClient and BuildServer select which roles to emit.
	BuildClient bool
	BuildServer bool
	// ProtoPath is the namespace prefix prepended to resolved type
	// references, unless a verbatim resolution rule applies.
	ProtoPath string
	// CompileWellKnownTypes treats well known protobuf types like any other
	// compiled message instead of passing their references through.
	CompileWellKnownTypes bool
	// OutputDir is where Output.Write places finalized files. Optional;
	// plugin drivers deliver content through the plugin response instead.
	OutputDir string
	// Allowlist overrides the resolver's non-path type allow-list.
	Allowlist []string
	// ClientAttributes and ServerAttributes are spliced verbatim into the
	// corresponding generated constructs.
	ClientAttributes Attributes
	ServerAttributes Attributes
	// PassThroughArgs are forwarded opaquely to the upstream compiler
	// invocation; they have no effect on stub emission.
	PassThroughArgs []string
}

// Configure returns a Builder with the default configuration: both roles
// enabled, type references resolved under "super", well known types passed
// through.
func Configure() Builder {
	return Builder{
		BuildClient: true,
		BuildServer: true,
		ProtoPath:   defaultProtoPath,
	}
}

// Build consumes the configuration and returns a Generator for one pass.
func (b Builder) Build() *Generator {
	return &Generator{cfg: b}
}

// Generator accumulates generated stub text across the services of one
// generation pass: client chunks in one buffer, server chunks in another, so
// a single output artifact groups each role together regardless of
// discovery order. The buffers are exclusively owned; generation is
// single-threaded and runs to completion within one build invocation.
type Generator struct {
	cfg     Builder
	clients bytes.Buffer
	servers bytes.Buffer
}

// Generate emits stubs for one discovered service into the role buffers.
// The server pass consumes an independent deep copy of the service so that
// neither role can observe mutations performed by the other.
func (g *Generator) Generate(svc Service) error {
	if grpclog.V(2) {
		grpclog.Infof("Generating stubs for %s", svc.Identifier())
	}
	mode := ResolveMode{
		ProtoPath:             g.cfg.ProtoPath,
		CompileWellKnownTypes: g.cfg.CompileWellKnownTypes,
		Allowlist:             g.cfg.Allowlist,
	}
	if g.cfg.BuildServer {
		chunk, err := generateServer(svc.Clone(), true, mode, g.cfg.ServerAttributes)
		if err != nil {
			return err
		}
		g.servers.WriteString(chunk)
		g.servers.WriteByte('\n')
	}
	if g.cfg.BuildClient {
		chunk, err := generateClient(svc, true, mode, g.cfg.ClientAttributes)
		if err != nil {
			return err
		}
		g.clients.WriteString(chunk)
		g.clients.WriteByte('\n')
	}
	return nil
}

// Import is one import line of a finalized output file.
type Import struct {
	Alias string
	Path  string
}

// FileHeader describes the preamble of a finalized output file. The driver
// owns import collection; the generator owns everything below the imports.
type FileHeader struct {
	// Package is the go package name of the output file.
	Package string
	// Source names the definition file the stubs were generated from, for
	// the provenance comment. Optional.
	Source string
	// Doc holds package documentation lines. Optional.
	Doc []string
	// Imports are emitted in the given order.
	Imports []Import
}

// Output holds the finalized source text for each requested role. A nil
// slice means the role was disabled or no service was discovered.
type Output struct {
	Client []byte
	Server []byte
}

// Finalize parses each non-empty role buffer as a Go source file, applies
// canonical formatting and returns the finished sources, clearing the
// buffers. A parse failure indicates an internal templating defect and
// aborts the pass; no partial output is returned.
func (g *Generator) Finalize(client, server FileHeader) (Output, error) {
	var out Output
	if g.cfg.BuildClient && g.clients.Len() > 0 {
		src, err := finalizeFile(client, g.clients.Bytes())
		if err != nil {
			return Output{}, fmt.Errorf("finalize client stubs: %w", err)
		}
		out.Client = src
		g.clients.Reset()
	}
	if g.cfg.BuildServer && g.servers.Len() > 0 {
		src, err := finalizeFile(server, g.servers.Bytes())
		if err != nil {
			return Output{}, fmt.Errorf("finalize server stubs: %w", err)
		}
		out.Server = src
		g.servers.Reset()
	}
	return out, nil
}

func finalizeFile(h FileHeader, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by protoc-gen-triple. DO NOT EDIT.\n")
	if h.Source != "" {
		fmt.Fprintf(&buf, "// source: %s\n", h.Source)
	}
	buf.WriteByte('\n')
	for _, line := range h.Doc {
		fmt.Fprintf(&buf, "// %s\n", line)
	}
	fmt.Fprintf(&buf, "package %s\n\n", h.Package)
	if len(h.Imports) > 0 {
		buf.WriteString("import (\n")
		for _, imp := range h.Imports {
			if imp.Alias != "" {
				fmt.Fprintf(&buf, "\t%s %q\n", imp.Alias, imp.Path)
			} else {
				fmt.Fprintf(&buf, "\t%q\n", imp.Path)
			}
		}
		buf.WriteString(")\n\n")
	}
	buf.Write(body)

	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, h.Package, buf.Bytes(), parser.ParseComments); err != nil {
		grpclog.Errorf("%v: %s", err, buf.String())
		return nil, fmt.Errorf("invalid generated program: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		grpclog.Errorf("%v: %s", err, buf.String())
		return nil, fmt.Errorf("invalid generated program: %w", err)
	}
	return formatted, nil
}

// Write places the finalized role files under dir, using base as the
// filename stem.
func (o Output) Write(dir, base string) error {
	if dir == "" {
		return errors.New("output target not determined")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("output target: %w", err)
	}
	if o.Client != nil {
		name := filepath.Join(dir, base+".triple.client.go")
		if err := os.WriteFile(name, o.Client, 0o600); err != nil {
			return fmt.Errorf("output target: %w", err)
		}
	}
	if o.Server != nil {
		name := filepath.Join(dir, base+".triple.server.go")
		if err := os.WriteFile(name, o.Server, 0o600); err != nil {
			return fmt.Errorf("output target: %w", err)
		}
	}
	return nil
}
