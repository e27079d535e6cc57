package gentriple

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/go-core-stack/triple-gen/gen"
	"github.com/go-core-stack/triple-gen/internal/descriptor"
)

func message(name string) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name)}
}

func method(name, in, out string, clientStreaming, serverStreaming bool) *descriptorpb.MethodDescriptorProto {
	m := &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(in),
		OutputType: proto.String(out),
	}
	if clientStreaming {
		m.ClientStreaming = proto.Bool(true)
	}
	if serverStreaming {
		m.ServerStreaming = proto.Bool(true)
	}
	return m
}

func greetDescriptorSet() *descriptorpb.FileDescriptorSet {
	return &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{{
			Name:    proto.String("greet/v1/greet.proto"),
			Package: proto.String("greet.v1"),
			Options: &descriptorpb.FileOptions{
				GoPackage: proto.String("example.com/gen/greet/v1;greetv1"),
			},
			MessageType: []*descriptorpb.DescriptorProto{
				message("HelloRequest"),
				message("HelloReply"),
			},
			Service: []*descriptorpb.ServiceDescriptorProto{{
				Name: proto.String("Greeter"),
				Method: []*descriptorpb.MethodDescriptorProto{
					method("SayHello", ".greet.v1.HelloRequest", ".greet.v1.HelloReply", false, false),
					method("LotsOfReplies", ".greet.v1.HelloRequest", ".greet.v1.HelloReply", false, true),
					method("LotsOfGreetings", ".greet.v1.HelloRequest", ".greet.v1.HelloReply", true, false),
					method("BidiHello", ".greet.v1.HelloRequest", ".greet.v1.HelloReply", true, true),
				},
			}},
		}},
	}
}

func loadTarget(t *testing.T, set *descriptorpb.FileDescriptorSet, name string) (*descriptor.Registry, *descriptor.File) {
	t.Helper()
	reg := descriptor.NewRegistry()
	require.NoError(t, reg.LoadFromDescriptorSet(set))
	file, err := reg.LookupFile(name)
	require.NoError(t, err)
	return reg, file
}

func TestGenerateResponseFiles(t *testing.T) {
	reg, file := loadTarget(t, greetDescriptorSet(), "greet/v1/greet.proto")

	g := New(reg, gen.Configure(), false)
	files, err := g.Generate([]*descriptor.File{file})
	require.NoError(t, err)
	require.Len(t, files, 2)

	client, server := files[0], files[1]
	assert.Equal(t, "greet/v1/greetv1triple/greet.triple.client.go", client.GetName())
	assert.Equal(t, "greet/v1/greetv1triple/greet.triple.server.go", server.GetName())
	assert.Equal(t, "example.com/gen/greet/v1/greetv1triple", client.GoPkg.Path)
	assert.Equal(t, "greetv1triple", client.GoPkg.Name)

	src := client.GetContent()
	assert.Contains(t, src, "// Code generated by protoc-gen-triple. DO NOT EDIT.")
	assert.Contains(t, src, "// source: greet/v1/greet.proto")
	assert.Contains(t, src, "package greetv1triple")
	assert.Contains(t, src, `super "example.com/gen/greet/v1"`)
	assert.Contains(t, src, `triple "github.com/go-core-stack/triple"`)
	assert.Contains(t, src, "func NewGreeterClient(cc *triple.Conn) *GreeterClient")
	assert.Contains(t, src, `"/greet.v1.Greeter/SayHello"`)

	// The package doc lands on the first emitted role only.
	assert.Contains(t, src, "Package greetv1triple contains Triple RPC stubs")
	assert.NotContains(t, server.GetContent(), "Package greetv1triple contains")

	assert.Contains(t, server.GetContent(), "func RegisterGreeterServer(reg *triple.Registry, srv GreeterServer)")
}

func TestGenerateOmitPackageDoc(t *testing.T) {
	reg, file := loadTarget(t, greetDescriptorSet(), "greet/v1/greet.proto")

	g := New(reg, gen.Configure(), true)
	files, err := g.Generate([]*descriptor.File{file})
	require.NoError(t, err)
	for _, f := range files {
		assert.NotContains(t, f.GetContent(), "Package greetv1triple contains")
	}
}

func TestGenerateClientOnly(t *testing.T) {
	reg, file := loadTarget(t, greetDescriptorSet(), "greet/v1/greet.proto")

	cfg := gen.Configure()
	cfg.BuildServer = false
	g := New(reg, cfg, false)
	files, err := g.Generate([]*descriptor.File{file})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0].GetName(), ".triple.client.go"))
}

func TestGenerateSkipsServicelessFiles(t *testing.T) {
	set := greetDescriptorSet()
	set.File = append(set.File, &descriptorpb.FileDescriptorProto{
		Name:    proto.String("greet/v1/types.proto"),
		Package: proto.String("greet.v1"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("example.com/gen/greet/v1;greetv1"),
		},
		MessageType: []*descriptorpb.DescriptorProto{message("Metadata")},
	})
	reg, file := loadTarget(t, set, "greet/v1/greet.proto")
	types, err := reg.LookupFile("greet/v1/types.proto")
	require.NoError(t, err)

	g := New(reg, gen.Configure(), false)
	files, err := g.Generate([]*descriptor.File{types, file})
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.NotContains(t, f.GetName(), "types.triple")
	}
}

func TestGenerateWellKnownImports(t *testing.T) {
	set := greetDescriptorSet()
	set.File = append(set.File,
		&descriptorpb.FileDescriptorProto{
			Name:    proto.String("google/protobuf/empty.proto"),
			Package: proto.String("google.protobuf"),
			Options: &descriptorpb.FileOptions{
				GoPackage: proto.String("google.golang.org/protobuf/types/known/emptypb"),
			},
			MessageType: []*descriptorpb.DescriptorProto{message("Empty")},
		},
		&descriptorpb.FileDescriptorProto{
			Name:    proto.String("google/protobuf/timestamp.proto"),
			Package: proto.String("google.protobuf"),
			Options: &descriptorpb.FileOptions{
				GoPackage: proto.String("google.golang.org/protobuf/types/known/timestamppb"),
			},
			MessageType: []*descriptorpb.DescriptorProto{message("Timestamp")},
		},
	)
	set.File[0].Service[0].Method = append(set.File[0].Service[0].Method,
		method("Poke", ".google.protobuf.Empty", ".google.protobuf.Timestamp", false, false))

	reg, file := loadTarget(t, set, "greet/v1/greet.proto")
	g := New(reg, gen.Configure(), false)
	files, err := g.Generate([]*descriptor.File{file})
	require.NoError(t, err)
	require.Len(t, files, 2)

	src := files[0].GetContent()
	assert.Contains(t, src, `"google.golang.org/protobuf/types/known/timestamppb"`)
	assert.NotContains(t, src, "emptypb")
	assert.Contains(t, src, "req *struct{}")
}
