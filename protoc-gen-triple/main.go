// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Command protoc-gen-triple is a plugin for the Google protocol buffer
// compiler to generate Triple RPC client and server stubs from protobuf
// service definitions.
//
// You rarely need to run this program directly. Instead, put this program
// into your $PATH with a name "protoc-gen-triple" and run
//
//	protoc --triple_out=output_directory path/to/input.proto
//
// The generated code will be placed in files with the .triple.client.go and
// .triple.server.go suffixes.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"google.golang.org/grpc/grpclog"
	"google.golang.org/protobuf/compiler/protogen"

	"github.com/go-core-stack/triple-gen/gen"
	"github.com/go-core-stack/triple-gen/internal/codegenerator"
	"github.com/go-core-stack/triple-gen/internal/descriptor"
	"github.com/go-core-stack/triple-gen/internal/gentriple"
)

var (
	buildClient           = flag.Bool("build_client", true, "generate client stubs")
	buildServer           = flag.Bool("build_server", true, "generate server stubs")
	protoPath             = flag.String("proto_path", "super", "package qualifier resolved message type references are prefixed with")
	compileWellKnownTypes = flag.Bool("compile_well_known_types", false, "treat well known types like any other compiled message instead of passing their references through")
	attributesFile        = flag.String("attributes", "", "path to a YAML manifest of annotation lines to splice into the generated code")
	omitPackageDoc        = flag.Bool("omit_package_doc", false, "if true, no package comment will be included in the generated code")
	versionFlag           = flag.Bool("version", false, "print the current version")
)

// Variables set by goreleaser at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	flag.Parse()

	if *versionFlag {
		if commit == "unknown" {
			buildInfo, ok := debug.ReadBuildInfo()
			if ok {
				version = buildInfo.Main.Version
				for _, setting := range buildInfo.Settings {
					if setting.Key == "vcs.revision" {
						commit = setting.Value
					}
					if setting.Key == "vcs.time" {
						date = setting.Value
					}
				}
			}
		}
		fmt.Printf("Version %v, commit %v, built at %v\n", version, commit, date)
		os.Exit(0)
	}

	protogen.Options{
		ParamFunc: flag.CommandLine.Set,
	}.Run(func(plugin *protogen.Plugin) error {
		reg := descriptor.NewRegistry()

		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		codegenerator.SetSupportedFeaturesOnPluginGen(plugin)

		generator := gentriple.New(reg, cfg, *omitPackageDoc)

		if grpclog.V(1) {
			grpclog.Infof("Parsing code generator request")
		}

		if err := reg.LoadFromPlugin(plugin); err != nil {
			return err
		}

		targets := make([]*descriptor.File, 0, len(plugin.Request.FileToGenerate))
		for _, target := range plugin.Request.FileToGenerate {
			f, err := reg.LookupFile(target)
			if err != nil {
				return err
			}
			targets = append(targets, f)
		}

		files, err := generator.Generate(targets)
		for _, f := range files {
			if grpclog.V(1) {
				grpclog.Infof("NewGeneratedFile %q in %s", f.GetName(), f.GoPkg)
			}

			genFile := plugin.NewGeneratedFile(f.GetName(), protogen.GoImportPath(f.GoPkg.Path))
			if _, err := genFile.Write([]byte(f.GetContent())); err != nil {
				return err
			}
		}

		if grpclog.V(1) {
			grpclog.Info("Processed code generator request")
		}

		return err
	})
}

func buildConfig() (gen.Builder, error) {
	cfg := gen.Configure()
	cfg.BuildClient = *buildClient
	cfg.BuildServer = *buildServer
	cfg.ProtoPath = *protoPath
	cfg.CompileWellKnownTypes = *compileWellKnownTypes
	if *attributesFile != "" {
		client, server, err := gentriple.LoadAttributes(*attributesFile)
		if err != nil {
			return cfg, err
		}
		cfg.ClientAttributes = client
		cfg.ServerAttributes = server
	}
	return cfg, nil
}
