package gentriple

import (
	"errors"
	"path"
	"strings"

	"google.golang.org/grpc/grpclog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/go-core-stack/triple-gen/gen"
	"github.com/go-core-stack/triple-gen/internal/descriptor"
	"github.com/go-core-stack/triple-gen/internal/generator"
)

// tripleRuntimeImport is the transport runtime the emitted stubs are written
// against. The generator itself never imports it; the path only appears
// inside generated text.
const tripleRuntimeImport = "github.com/go-core-stack/triple"

var errNoTargetService = errors.New("no target service defined in the file")

type tripleGenerator struct {
	reg            *descriptor.Registry
	cfg            gen.Builder
	omitPackageDoc bool
}

// New returns a new generator which generates Triple client and server stub
// files.
func New(reg *descriptor.Registry, cfg gen.Builder, omitPackageDoc bool) generator.Generator {
	return &tripleGenerator{
		reg:            reg,
		cfg:            cfg,
		omitPackageDoc: omitPackageDoc,
	}
}

func (g *tripleGenerator) Generate(targets []*descriptor.File) ([]*descriptor.ResponseFile, error) {
	var files []*descriptor.ResponseFile
	for _, file := range targets {
		if grpclog.V(1) {
			grpclog.Infof("Processing %s", file.GetName())
		}

		out, err := g.generate(file)
		if errors.Is(err, errNoTargetService) {
			if grpclog.V(1) {
				grpclog.Infof("%s: %v", file.GetName(), err)
			}
			continue
		}
		if err != nil {
			grpclog.Errorf("%s: %v", file.GetName(), err)
			return nil, err
		}

		if out.Client != nil {
			files = append(files, g.responseFile(file, "client", out.Client))
		}
		if out.Server != nil {
			files = append(files, g.responseFile(file, "server", out.Server))
		}
	}
	return files, nil
}

// generate runs one accumulation pass over the services of a file and
// finalizes both role buffers.
func (g *tripleGenerator) generate(file *descriptor.File) (gen.Output, error) {
	if len(file.Services) == 0 {
		return gen.Output{}, errNoTargetService
	}

	pass := g.cfg.Build()
	for _, svc := range file.Services {
		if err := pass.Generate(descriptor.Adapt(svc)); err != nil {
			return gen.Output{}, err
		}
	}

	header := gen.FileHeader{
		Package: g.stubPackageName(file),
		Source:  file.GetName(),
		Imports: g.imports(file),
	}
	client, server := header, header
	if !g.omitPackageDoc {
		doc := []string{
			"Package " + header.Package + " contains Triple RPC stubs for the services",
			"declared in " + file.GetName() + ".",
		}
		if g.cfg.BuildClient {
			client.Doc = doc
		} else {
			server.Doc = doc
		}
	}
	return pass.Finalize(client, server)
}

// stubPackageName names the package the stubs are generated into. Stubs
// live in their own package next to the message package so that message
// types stay reachable through the configured proto path qualifier.
func (g *tripleGenerator) stubPackageName(file *descriptor.File) string {
	return file.GoPkg.Name + "triple"
}

func (g *tripleGenerator) responseFile(file *descriptor.File, role string, content []byte) *descriptor.ResponseFile {
	dir := path.Dir(file.GeneratedFilenamePrefix)
	base := path.Base(file.GeneratedFilenamePrefix)
	stubPkg := g.stubPackageName(file)
	name := path.Join(dir, stubPkg, base+".triple."+role+".go")
	goPkg := descriptor.GoPackage{
		Path: path.Join(file.GoPkg.Path, stubPkg),
		Name: stubPkg,
	}
	return &descriptor.ResponseFile{
		GoPkg: goPkg,
		CodeGeneratorResponse_File: &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(name),
			Content: proto.String(string(content)),
		},
	}
}

// imports collects the import lines both role files need by scanning the
// request and response types of every method, so generation stays stable
// across runs regardless of which types each individual method uses.
func (g *tripleGenerator) imports(file *descriptor.File) []gen.Import {
	imports := []gen.Import{
		{Path: "context"},
		{Alias: "triple", Path: tripleRuntimeImport},
	}
	seen := map[string]bool{}
	for _, svc := range file.Services {
		for _, m := range svc.Methods {
			for _, msg := range []*descriptor.Message{m.RequestType, m.ResponseType} {
				imp, ok := g.importFor(file, msg)
				if !ok || seen[imp.Path] {
					continue
				}
				seen[imp.Path] = true
				imports = append(imports, imp)
			}
		}
	}
	return imports
}

func (g *tripleGenerator) importFor(file *descriptor.File, msg *descriptor.Message) (gen.Import, bool) {
	if !g.cfg.CompileWellKnownTypes {
		if spelling, ok := descriptor.WellKnownGoType(msg.FQMN()); ok {
			qualifier, _, qualified := strings.Cut(spelling, ".")
			if !qualified {
				// Unit spelling, nothing to import.
				return gen.Import{}, false
			}
			p, ok := wellKnownImports[qualifier]
			return gen.Import{Path: p}, ok
		}
	}
	pkg := msg.File.GoPkg
	if pkg.Path == "" {
		return gen.Import{}, false
	}
	if pkg.Path == file.GoPkg.Path {
		// The stub package reaches its sibling message package through the
		// configured proto path qualifier.
		return gen.Import{Alias: g.cfg.ProtoPath, Path: pkg.Path}, true
	}
	return gen.Import{Alias: pkg.Alias, Path: pkg.Path}, true
}

// wellKnownImports maps the package qualifier of a well known type spelling
// to its import path.
var wellKnownImports = map[string]string{
	"anypb":       "google.golang.org/protobuf/types/known/anypb",
	"durationpb":  "google.golang.org/protobuf/types/known/durationpb",
	"emptypb":     "google.golang.org/protobuf/types/known/emptypb",
	"fieldmaskpb": "google.golang.org/protobuf/types/known/fieldmaskpb",
	"structpb":    "google.golang.org/protobuf/types/known/structpb",
	"timestamppb": "google.golang.org/protobuf/types/known/timestamppb",
	"wrapperspb":  "google.golang.org/protobuf/types/known/wrapperspb",
}
