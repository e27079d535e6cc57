package descriptor

import (
	"fmt"
	"strings"

	options "google.golang.org/genproto/googleapis/api/annotations"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/go-core-stack/triple-gen/internal/casing"
)

// GoPackage represents a golang package.
type GoPackage struct {
	// Path is the package path to the package.
	Path string
	// Name is the package name of the package.
	Name string
	// Alias is an alias of the package unique within the current invocation of the generator.
	Alias string
}

// String returns a string representation of this package in the form of import line in Go.
func (p GoPackage) String() string {
	if p.Alias == "" {
		return fmt.Sprintf("%q", p.Path)
	}
	return fmt.Sprintf("%s %q", p.Alias, p.Path)
}

// ResponseFile wraps pluginpb.CodeGeneratorResponse_File.
type ResponseFile struct {
	GoPkg GoPackage
	*pluginpb.CodeGeneratorResponse_File
}

// File wraps descriptorpb.FileDescriptorProto for richer features.
type File struct {
	*descriptorpb.FileDescriptorProto
	// GoPkg is the go package of the go file generated from this file.
	GoPkg GoPackage
	// GeneratedFilenamePrefix is used to construct filenames for generated
	// files associated with this source file. It is built from the source
	// file's path with the extension removed.
	GeneratedFilenamePrefix string
	// Messages is the list of messages defined in this file.
	Messages []*Message
	// Services is the list of services defined in this file.
	Services []*Service
}

// Message describes a protocol buffer message types.
type Message struct {
	*descriptorpb.DescriptorProto
	// File is the file where the message is defined.
	File *File
	// Outers is a list of outer messages if this message is a nested type.
	Outers []string
	// Index is the index of the message in the file.
	Index int
}

// FQMN returns a fully qualified message name of this message.
func (m *Message) FQMN() string {
	components := []string{""}
	if m.File.Package != nil {
		components = append(components, m.File.GetPackage())
	}
	components = append(components, m.Outers...)
	components = append(components, m.GetName())
	return strings.Join(components, ".")
}

// GoName returns the mangled in-language name of the message relative to its
// own package. Nested message names are joined with underscores the same way
// the Go message generator joins them.
func (m *Message) GoName() string {
	parts := make([]string, 0, len(m.Outers)+1)
	for _, o := range m.Outers {
		parts = append(parts, casing.Camel(o))
	}
	parts = append(parts, casing.Camel(m.GetName()))
	return strings.Join(parts, "_")
}

// Service wraps descriptorpb.ServiceDescriptorProto for richer features.
type Service struct {
	*descriptorpb.ServiceDescriptorProto
	// File is the file where this service is defined.
	File *File
	// Index is the index of the service in the file.
	Index int
	// Methods is the list of methods defined in this service.
	Methods []*Method
	// Comment holds the leading comment lines of the service declaration.
	Comment []string
}

// FQSN returns the fully qualified service name of this service.
func (s *Service) FQSN() string {
	components := []string{""}
	if s.File.Package != nil {
		components = append(components, s.File.GetPackage())
	}
	components = append(components, s.GetName())
	return strings.Join(components, ".")
}

// Method wraps descriptorpb.MethodDescriptorProto for richer features.
type Method struct {
	*descriptorpb.MethodDescriptorProto
	// Service is the service which this method belongs to.
	Service *Service
	// Index is the index of the method in the service.
	Index int
	// RequestType is the message type of requests to this method.
	RequestType *Message
	// ResponseType is the message type of responses from this method.
	ResponseType *Message
	// Comment holds the leading comment lines of the method declaration.
	Comment []string
	// HTTPRule carries the google.api.http annotation of the method if one
	// is present. The stub generator does not interpret it; it is kept as
	// opaque pass-through metadata for downstream tooling.
	HTTPRule *options.HttpRule
}

// FQMN returns a fully qualified rpc method name of this method.
func (m *Method) FQMN() string {
	return strings.Join([]string{m.Service.FQSN(), m.GetName()}, ".")
}
