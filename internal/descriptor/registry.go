package descriptor

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"google.golang.org/grpc/grpclog"
	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Registry is a registry of information extracted from
// pluginpb.CodeGeneratorRequest.
type Registry struct {
	// msgs is a mapping from fully-qualified message name to descriptor.
	msgs map[string]*Message

	// files is a mapping from file path to descriptor.
	files map[string]*File

	// pkgAliases is a mapping from package aliases to package paths in Go
	// which are already taken.
	pkgAliases map[string]string
}

// NewRegistry returns a new Registry.
func NewRegistry() *Registry {
	return &Registry{
		msgs:       make(map[string]*Message),
		files:      make(map[string]*File),
		pkgAliases: make(map[string]string),
	}
}

// LoadFromPlugin loads all files and services in the plugin's code generator
// request into the registry.
func (r *Registry) LoadFromPlugin(gen *protogen.Plugin) error {
	return r.load(gen.Request.GetProtoFile())
}

// LoadFromDescriptorSet loads all files and services in a serialized
// FileDescriptorSet, as produced by protoc --descriptor_set_out, into the
// registry.
func (r *Registry) LoadFromDescriptorSet(set *descriptorpb.FileDescriptorSet) error {
	return r.load(set.GetFile())
}

func (r *Registry) load(files []*descriptorpb.FileDescriptorProto) error {
	for _, f := range files {
		r.loadFile(f)
	}
	// Services are loaded in a second pass so that request and response
	// types can be resolved across files regardless of declaration order.
	for _, f := range files {
		if err := r.loadServices(r.files[f.GetName()]); err != nil {
			return err
		}
	}
	return nil
}

// loadFile registers a file and the message types defined in it.
func (r *Registry) loadFile(fd *descriptorpb.FileDescriptorProto) {
	if grpclog.V(1) {
		grpclog.Infof("Loading %s", fd.GetName())
	}
	file := &File{
		FileDescriptorProto:     fd,
		GoPkg:                   r.goPackage(fd),
		GeneratedFilenamePrefix: strings.TrimSuffix(fd.GetName(), path.Ext(fd.GetName())),
	}
	r.files[fd.GetName()] = file
	r.registerMsg(file, nil, fd.GetMessageType())
}

func (r *Registry) registerMsg(file *File, outerPath []string, msgs []*descriptorpb.DescriptorProto) {
	for i, md := range msgs {
		m := &Message{
			DescriptorProto: md,
			File:            file,
			Outers:          outerPath,
			Index:           i,
		}
		if grpclog.V(2) {
			grpclog.Infof("Registering %s", m.FQMN())
		}
		r.msgs[m.FQMN()] = m
		file.Messages = append(file.Messages, m)

		r.registerMsg(file, append(append([]string(nil), outerPath...), md.GetName()), md.GetNestedType())
	}
}

// LookupMsg looks up a message type by "name".
// It tries to resolve "name" from "location" if "name" is a relative message name.
func (r *Registry) LookupMsg(location, name string) (*Message, error) {
	if grpclog.V(2) {
		grpclog.Infof("Lookup %s from %s", name, location)
	}
	if strings.HasPrefix(name, ".") {
		m, ok := r.msgs[name]
		if !ok {
			return nil, fmt.Errorf("no message found: %s", name)
		}
		return m, nil
	}

	if !strings.HasPrefix(location, ".") {
		location = fmt.Sprintf(".%s", location)
	}
	components := strings.Split(location, ".")
	for len(components) > 0 {
		fqmn := strings.Join(append(components, name), ".")
		if m, ok := r.msgs[fqmn]; ok {
			return m, nil
		}
		components = components[:len(components)-1]
	}
	return nil, fmt.Errorf("no message found: %s", name)
}

// LookupFile looks up a file by name.
func (r *Registry) LookupFile(name string) (*File, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file given to the generator: %s", name)
	}
	return f, nil
}

// goPackage derives the go package of a file from its go_package option,
// falling back to the proto package and finally the file name.
func (r *Registry) goPackage(fd *descriptorpb.FileDescriptorProto) GoPackage {
	gopkg := fd.GetOptions().GetGoPackage()
	var pkgPath, name string
	switch {
	case gopkg == "":
		name = fd.GetPackage()
	case strings.Contains(gopkg, ";"):
		parts := strings.SplitN(gopkg, ";", 2)
		pkgPath, name = parts[0], parts[1]
	default:
		pkgPath = gopkg
		name = gopkg[strings.LastIndex(gopkg, "/")+1:]
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(fd.GetName()), filepath.Ext(fd.GetName()))
	}
	pkg := GoPackage{
		Path: pkgPath,
		Name: sanitizePackageName(name),
	}
	if alias, taken := r.pkgAliases[pkg.Name]; taken && alias != pkg.Path {
		for i := 1; ; i++ {
			candidate := fmt.Sprintf("%s_%d", pkg.Name, i)
			if existing, ok := r.pkgAliases[candidate]; !ok || existing == pkg.Path {
				pkg.Alias = candidate
				break
			}
		}
	}
	r.pkgAliases[pkg.aliasOrName()] = pkg.Path
	return pkg
}

func (p GoPackage) aliasOrName() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Name
}

// sanitizePackageName replaces unusable characters so that the result is a
// valid go identifier.
func sanitizePackageName(name string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9', c == '_':
			return c
		default:
			return '_'
		}
	}, name)
}
