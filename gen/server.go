package gen

import (
	"bytes"
	"text/template"
)

// generateServer emits the server stub chunk for one service: a
// {Name}Server interface with one operation per method, plus a registration
// function that populates the runtime-owned registration table with the
// service path and per-method handlers.
//
// Path construction and type resolution are structurally identical to the
// client emitter; only the surrounding scaffolding and the forwarding
// direction differ.
func generateServer(svc Service, emitPackage bool, mode ResolveMode, attrs Attributes) (string, error) {
	data, err := buildServiceData(svc, "Server", emitPackage, mode, attrs)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := serverTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var serverTemplate = template.Must(template.New("server").Funcs(template.FuncMap{
	"handler": handlerCtor,
}).Parse(`
{{- range .PackageAttrs}}{{.}}
{{end -}}
{{- range .Comment}}// {{.}}
{{end -}}
// {{.StructName}} is the server API for the {{.Name}} service.
{{- range .StructAttrs}}
{{.}}
{{- end}}
type {{.StructName}} interface {
{{- range .Methods}}
{{- range .Comment}}
	// {{.}}
{{- end}}
{{- if eq .Shape "unary"}}{{template "server_unary" .}}
{{- else if eq .Shape "server_stream"}}{{template "server_server_stream" .}}
{{- else if eq .Shape "client_stream"}}{{template "server_client_stream" .}}
{{- else}}{{template "server_bidi_stream" .}}
{{- end}}
{{- end}}
}

// Register{{.StructName}} records srv in the runtime-owned registration
// table under the service path "{{.ServicePath}}". The table lives and dies
// with the runtime; generated callers register at startup.
func Register{{.StructName}}(reg *triple.Registry, srv {{.StructName}}) {
	reg.Register(&triple.ServiceDesc{
		Path: {{printf "%q" .ServicePath}},
		Methods: []triple.MethodDesc{
{{- range .Methods}}
			{
				Path:    {{printf "%q" .Path}},
				Codec:   {{.Codec}}{},
				Handler: triple.{{handler .Shape}}[{{.Request}}, {{.Response}}](srv.{{.GoName}}),
			},
{{- end}}
		},
	})
}

{{- define "server_unary"}}
	{{.GoName}}(ctx context.Context, req *{{.Request}}) (*{{.Response}}, error)
{{- end}}

{{- define "server_server_stream"}}
	{{.GoName}}(ctx context.Context, req *{{.Request}}, stream *triple.WriteStream[{{.Response}}]) error
{{- end}}

{{- define "server_client_stream"}}
	{{.GoName}}(ctx context.Context, stream *triple.ReadStream[{{.Request}}]) (*{{.Response}}, error)
{{- end}}

{{- define "server_bidi_stream"}}
	{{.GoName}}(ctx context.Context, stream *triple.DuplexStream[{{.Request}}, {{.Response}}]) error
{{- end}}
`))
