// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Command triple-gen generates Triple RPC client and server stubs from a
// compiled descriptor set, as produced by
//
//	protoc --descriptor_set_out=defs.binpb --include_imports --include_source_info path/to/input.proto
//
// It drives the same stub generator as the protoc-gen-triple plugin, for
// build environments that keep compiled descriptor sets around instead of
// invoking protoc per build.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/grpclog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/go-core-stack/triple-gen/gen"
	"github.com/go-core-stack/triple-gen/internal/casing"
	"github.com/go-core-stack/triple-gen/internal/descriptor"
	"github.com/go-core-stack/triple-gen/internal/gentriple"
)

var (
	descriptorSet         string
	outputDir             string
	targetFiles           []string
	buildClient           bool
	buildServer           bool
	protoPath             string
	compileWellKnownTypes bool
	attributesFile        string
)

func main() {
	cmd := &cobra.Command{
		Use:           "triple-gen",
		Short:         "Generate Triple RPC stubs from a compiled descriptor set",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringVarP(&descriptorSet, "descriptor-set", "d", "", "path to a serialized FileDescriptorSet (required)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory; falls back to $OUT_DIR")
	cmd.Flags().StringArrayVarP(&targetFiles, "file", "f", nil, "definition file to generate stubs for; repeatable, defaults to every file in the set")
	cmd.Flags().BoolVar(&buildClient, "client", true, "generate client stubs")
	cmd.Flags().BoolVar(&buildServer, "server", true, "generate server stubs")
	cmd.Flags().StringVar(&protoPath, "proto-path", "super", "package qualifier resolved message type references are prefixed with")
	cmd.Flags().BoolVar(&compileWellKnownTypes, "compile-well-known-types", false, "treat well known types like any other compiled message")
	cmd.Flags().StringVar(&attributesFile, "attributes", "", "path to a YAML manifest of annotation lines to splice into the generated code")
	if err := cmd.MarkFlagRequired("descriptor-set"); err != nil {
		panic(err)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	out := outputDir
	if out == "" {
		out = os.Getenv("OUT_DIR")
	}
	if out == "" {
		return fmt.Errorf("output target not determined: set --out or $OUT_DIR")
	}

	data, err := os.ReadFile(descriptorSet)
	if err != nil {
		return fmt.Errorf("descriptor set: %w", err)
	}
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("descriptor set %s: %w", descriptorSet, err)
	}

	reg := descriptor.NewRegistry()
	if err := reg.LoadFromDescriptorSet(&set); err != nil {
		return err
	}

	cfg := gen.Configure()
	cfg.BuildClient = buildClient
	cfg.BuildServer = buildServer
	cfg.ProtoPath = protoPath
	cfg.CompileWellKnownTypes = compileWellKnownTypes
	cfg.OutputDir = out
	if attributesFile != "" {
		client, server, err := gentriple.LoadAttributes(attributesFile)
		if err != nil {
			return err
		}
		cfg.ClientAttributes = client
		cfg.ServerAttributes = server
	}

	targets, err := resolveTargets(reg, &set)
	if err != nil {
		return err
	}

	files, err := gentriple.New(reg, cfg, false).Generate(targets)
	if err != nil {
		return err
	}

	for _, f := range files {
		name := filepath.Join(out, filepath.FromSlash(f.GetName()))
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return fmt.Errorf("output target: %w", err)
		}
		if err := os.WriteFile(name, []byte(f.GetContent()), 0o600); err != nil {
			return fmt.Errorf("output target: %w", err)
		}
		if grpclog.V(1) {
			grpclog.Infof("Wrote %s", name)
		}
	}

	for _, role := range enabledRoles() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s stubs written to %s\n", casing.Title(role), out)
	}
	return nil
}

func resolveTargets(reg *descriptor.Registry, set *descriptorpb.FileDescriptorSet) ([]*descriptor.File, error) {
	names := targetFiles
	if len(names) == 0 {
		for _, fd := range set.GetFile() {
			names = append(names, fd.GetName())
		}
	}
	targets := make([]*descriptor.File, 0, len(names))
	for _, name := range names {
		f, err := reg.LookupFile(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, f)
	}
	return targets, nil
}

func enabledRoles() []string {
	var roles []string
	if buildClient {
		roles = append(roles, "client")
	}
	if buildServer {
		roles = append(roles, "server")
	}
	return roles
}
