package gen

import (
	"fmt"
)

// The four RPC calling-convention shapes. The two streaming flags of a
// method map onto exactly one of these.
const (
	shapeUnary        = "unary"
	shapeServerStream = "server_stream"
	shapeClientStream = "client_stream"
	shapeBidiStream   = "bidi_stream"
)

// shapeOf maps the streaming flags of a method onto its calling-convention
// shape. The mapping is total and exclusive.
func shapeOf(clientStreaming, serverStreaming bool) string {
	switch {
	case !clientStreaming && !serverStreaming:
		return shapeUnary
	case !clientStreaming && serverStreaming:
		return shapeServerStream
	case clientStreaming && !serverStreaming:
		return shapeClientStream
	default:
		return shapeBidiStream
	}
}

// handlerCtor names the runtime handler constructor for a shape, used by the
// server registration template.
func handlerCtor(shape string) string {
	switch shape {
	case shapeUnary:
		return "NewUnaryHandler"
	case shapeServerStream:
		return "NewServerStreamHandler"
	case shapeClientStream:
		return "NewClientStreamHandler"
	default:
		return "NewBidiStreamHandler"
	}
}

// serviceData is the template input for one generated service.
type serviceData struct {
	Name         string
	StructName   string
	ServicePath  string
	Comment      []string
	PackageAttrs []string
	StructAttrs  []string
	Methods      []methodData
}

type methodData struct {
	Struct   string
	GoName   string
	Path     string
	Comment  []string
	Request  string
	Response string
	Codec    string
	Shape    string
}

// buildServiceData resolves everything a role template needs for one
// service. Client and server emission share this procedure so both roles
// construct paths and type references identically; only the struct
// scaffolding around the methods differs.
func buildServiceData(svc Service, roleSuffix string, emitPackage bool, mode ResolveMode, attrs Attributes) (serviceData, error) {
	pkg := ""
	if emitPackage {
		pkg = svc.Package()
	}
	spath := servicePath(pkg, svc.Identifier())
	data := serviceData{
		Name:         svc.Name(),
		StructName:   svc.Name() + roleSuffix,
		ServicePath:  spath,
		Comment:      svc.Comment(),
		PackageAttrs: attrs.ForPackage(pkg),
		StructAttrs:  attrs.ForStruct(spath),
	}
	for _, m := range svc.Methods() {
		req, resp, err := m.RequestResponseName(mode)
		if err != nil {
			return serviceData{}, fmt.Errorf("resolve types of %s/%s: %w", spath, m.Identifier(), err)
		}
		codec, err := pathRef(m.CodecPath())
		if err != nil {
			return serviceData{}, fmt.Errorf("resolve codec of %s/%s: %w", spath, m.Identifier(), err)
		}
		data.Methods = append(data.Methods, methodData{
			Struct:   data.StructName,
			GoName:   m.Name(),
			Path:     rpcPath(pkg, svc.Identifier(), m.Identifier()),
			Comment:  m.Comment(),
			Request:  req.String(),
			Response: resp.String(),
			Codec:    codec.String(),
			Shape:    shapeOf(m.ClientStreaming(), m.ServerStreaming()),
		})
	}
	return data, nil
}

// rpcPath builds the RPC path literal exactly as the transport matches it:
// no trimming, no case changes.
func rpcPath(pkg, service, method string) string {
	if pkg == "" {
		return "/" + service + "/" + method
	}
	return "/" + pkg + "." + service + "/" + method
}

// servicePath is the path a generated server registers itself under, and
// the key struct attributes are looked up by.
func servicePath(pkg, service string) string {
	if pkg == "" {
		return service
	}
	return pkg + "." + service
}
