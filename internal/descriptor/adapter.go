package descriptor

import (
	options "google.golang.org/genproto/googleapis/api/annotations"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/go-core-stack/triple-gen/gen"
	"github.com/go-core-stack/triple-gen/internal/casing"
)

// tripleCodecPath names the codec the emitted stubs bind to at every call
// site. It is parsed into the generated code as a path expression.
const tripleCodecPath = "triple.ProtoCodec"

// Adapt converts a registered service into the capability set consumed by
// the stub generator. Adapting is a pure transformation; the underlying
// descriptor has already been validated by the compiler that produced it, so
// no further validation happens here.
func Adapt(svc *Service) gen.Service {
	return tripleService{inner: svc}
}

type tripleService struct {
	inner *Service
}

func (s tripleService) Name() string {
	return casing.Camel(s.inner.GetName())
}

func (s tripleService) Package() string {
	return s.inner.File.GetPackage()
}

func (s tripleService) Identifier() string {
	return s.inner.GetName()
}

func (s tripleService) Comment() []string {
	return s.inner.Comment
}

func (s tripleService) Methods() []gen.Method {
	ms := make([]gen.Method, 0, len(s.inner.Methods))
	for _, m := range s.inner.Methods {
		ms = append(ms, tripleMethod{inner: m})
	}
	return ms
}

// Clone returns a fully-owned duplicate of the service. The client and
// server passes consume the same logical service independently, so neither
// may observe mutations performed by the other. File level metadata stays
// shared: it is owned by the registry and read-only after loading.
func (s tripleService) Clone() gen.Service {
	inner := &Service{
		ServiceDescriptorProto: proto.Clone(s.inner.ServiceDescriptorProto).(*descriptorpb.ServiceDescriptorProto),
		File:                   s.inner.File,
		Index:                  s.inner.Index,
		Comment:                append([]string(nil), s.inner.Comment...),
	}
	for _, m := range s.inner.Methods {
		inner.Methods = append(inner.Methods, cloneMethod(inner, m))
	}
	return tripleService{inner: inner}
}

func cloneMethod(svc *Service, m *Method) *Method {
	out := &Method{
		MethodDescriptorProto: proto.Clone(m.MethodDescriptorProto).(*descriptorpb.MethodDescriptorProto),
		Service:               svc,
		Index:                 m.Index,
		RequestType:           cloneMessage(m.RequestType),
		ResponseType:          cloneMessage(m.ResponseType),
		Comment:               append([]string(nil), m.Comment...),
	}
	if m.HTTPRule != nil {
		out.HTTPRule = proto.Clone(m.HTTPRule).(*options.HttpRule)
	}
	return out
}

func cloneMessage(m *Message) *Message {
	if m == nil {
		return nil
	}
	return &Message{
		DescriptorProto: proto.Clone(m.DescriptorProto).(*descriptorpb.DescriptorProto),
		File:            m.File,
		Outers:          append([]string(nil), m.Outers...),
		Index:           m.Index,
	}
}

type tripleMethod struct {
	inner *Method
}

func (m tripleMethod) Name() string {
	return casing.Camel(m.inner.GetName())
}

func (m tripleMethod) Identifier() string {
	return m.inner.GetName()
}

func (m tripleMethod) Comment() []string {
	return m.inner.Comment
}

func (m tripleMethod) ClientStreaming() bool {
	return m.inner.GetClientStreaming()
}

func (m tripleMethod) ServerStreaming() bool {
	return m.inner.GetServerStreaming()
}

func (m tripleMethod) CodecPath() string {
	return tripleCodecPath
}

// RequestResponseName resolves the request and response type references of
// the method under the given resolution mode.
func (m tripleMethod) RequestResponseName(mode gen.ResolveMode) (gen.TypeRef, gen.TypeRef, error) {
	req, err := mode.Resolve(m.inner.GetInputType(), m.goTypeName(m.inner.RequestType, mode.CompileWellKnownTypes))
	if err != nil {
		return gen.TypeRef{}, gen.TypeRef{}, err
	}
	resp, err := mode.Resolve(m.inner.GetOutputType(), m.goTypeName(m.inner.ResponseType, mode.CompileWellKnownTypes))
	if err != nil {
		return gen.TypeRef{}, gen.TypeRef{}, err
	}
	return req, resp, nil
}

// goTypeName mangles the in-language name of a message as seen from the
// generated stub package: well known types keep their canonical spellings,
// messages from the target file's own package stay unqualified, and
// everything else carries its package qualifier.
func (m tripleMethod) goTypeName(msg *Message, compileWellKnownTypes bool) string {
	if !compileWellKnownTypes {
		if t, ok := WellKnownGoType(msg.FQMN()); ok {
			return t
		}
	}
	if samePackage(msg.File, m.inner.Service.File) {
		return msg.GoName()
	}
	return msg.File.GoPkg.aliasOrName() + "." + msg.GoName()
}

func samePackage(a, b *File) bool {
	if a.GoPkg.Path != "" || b.GoPkg.Path != "" {
		return a.GoPkg.Path == b.GoPkg.Path
	}
	return a.GoPkg.Name == b.GoPkg.Name
}
