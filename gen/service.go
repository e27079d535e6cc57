// Package gen turns parsed RPC service descriptions into ready-to-compile
// Triple client and server stub code.
//
// The package is parser agnostic: any value implementing Service and Method
// can be fed to a Generator, so a new upstream parser only needs an adapter,
// not emitter changes. See internal/descriptor for the adapter used by the
// protoc plugin.
package gen

// Service is the capability set the stub generator needs from a parsed RPC
// service description.
type Service interface {
	// Name is the display identifier of the service, used to derive the
	// generated struct names.
	Name() string
	// Package is the dotted namespace enclosing the service. It is empty
	// only when the service has no enclosing namespace.
	Package() string
	// Identifier is the wire-level service name used in RPC paths. It is
	// never empty.
	Identifier() string
	// Methods returns the methods of the service in declaration order.
	// Declaration order determines emission order.
	Methods() []Method
	// Comment returns the leading comment lines of the service, if any.
	Comment() []string
	// Clone returns a deep, non-aliasing duplicate of the service. The
	// client and server emission passes consume independent copies.
	Clone() Service
}

// Method is the capability set the stub generator needs from a single RPC
// method.
type Method interface {
	// Name is the display identifier used for the generated function name.
	Name() string
	// Identifier is the wire-level method name used in RPC paths.
	Identifier() string
	// Comment returns the leading comment lines of the method, if any.
	Comment() []string
	// ClientStreaming reports whether the client sends a stream of request
	// messages.
	ClientStreaming() bool
	// ServerStreaming reports whether the server sends a stream of response
	// messages.
	ServerStreaming() bool
	// CodecPath names the encode/decode strategy the generated stub binds
	// to at the call site, as a path expression.
	CodecPath() string
	// RequestResponseName yields the request and response type references
	// to embed in generated signatures, resolved under the given mode.
	RequestResponseName(mode ResolveMode) (request, response TypeRef, err error)
}
