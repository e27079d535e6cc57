package gen

import (
	"bytes"
	"text/template"
)

// generateClient emits the client stub chunk for one service: a
// {Name}Client struct with one call per method, shaped by the method's
// streaming flags.
func generateClient(svc Service, emitPackage bool, mode ResolveMode, attrs Attributes) (string, error) {
	data, err := buildServiceData(svc, "Client", emitPackage, mode, attrs)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := clientTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var clientTemplate = template.Must(template.New("client").Parse(`
{{- range .PackageAttrs}}{{.}}
{{end -}}
{{- range .Comment}}// {{.}}
{{end -}}
// {{.StructName}} is the Triple client API for the {{.Name}} service.
{{- range .StructAttrs}}
{{.}}
{{- end}}
type {{.StructName}} struct {
	cc *triple.Conn
}

// New{{.StructName}} returns a {{.Name}} client over an established
// connection.
func New{{.StructName}}(cc *triple.Conn) *{{.StructName}} {
	return &{{.StructName}}{cc: cc}
}
{{range .Methods}}
{{- range .Comment}}
// {{.}}
{{- end}}
{{- if eq .Shape "unary"}}{{template "client_unary" .}}
{{- else if eq .Shape "server_stream"}}{{template "client_server_stream" .}}
{{- else if eq .Shape "client_stream"}}{{template "client_client_stream" .}}
{{- else}}{{template "client_bidi_stream" .}}
{{- end}}
{{end -}}

{{- define "client_unary"}}
func (c *{{.Struct}}) {{.GoName}}(ctx context.Context, req *{{.Request}}) (*{{.Response}}, error) {
	return triple.InvokeUnary[{{.Request}}, {{.Response}}](ctx, c.cc, {{.Codec}}{}, {{printf "%q" .Path}}, req)
}
{{- end}}

{{- define "client_server_stream"}}
func (c *{{.Struct}}) {{.GoName}}(ctx context.Context, req *{{.Request}}) (*triple.ReadStream[{{.Response}}], error) {
	return triple.InvokeServerStream[{{.Request}}, {{.Response}}](ctx, c.cc, {{.Codec}}{}, {{printf "%q" .Path}}, req)
}
{{- end}}

{{- define "client_client_stream"}}
func (c *{{.Struct}}) {{.GoName}}(ctx context.Context) (*triple.ClientStream[{{.Request}}, {{.Response}}], error) {
	return triple.InvokeClientStream[{{.Request}}, {{.Response}}](ctx, c.cc, {{.Codec}}{}, {{printf "%q" .Path}})
}
{{- end}}

{{- define "client_bidi_stream"}}
func (c *{{.Struct}}) {{.GoName}}(ctx context.Context) (*triple.DuplexStream[{{.Request}}, {{.Response}}], error) {
	return triple.InvokeBidiStream[{{.Request}}, {{.Response}}](ctx, c.cc, {{.Codec}}{}, {{printf "%q" .Path}})
}
{{- end}}
`))
