package descriptor

import (
	"fmt"
	"strings"

	options "google.golang.org/genproto/googleapis/api/annotations"
	"google.golang.org/grpc/grpclog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Source code info paths identifying declarations in the file AST, per the
// path numbering scheme of descriptor.proto:
//   6 => service
//   2 => method (within service)
const (
	servicePathNumber = 6
	methodPathNumber  = 2
)

// loadServices registers services and their methods from "file" to "r".
// It must be called after loadFile is called for all files so that
// loadServices can resolve names of message types used by the methods.
func (r *Registry) loadServices(file *File) error {
	if grpclog.V(1) {
		grpclog.Infof("Loading services from %s", file.GetName())
	}
	var svcs []*Service
	for i, sd := range file.GetService() {
		if grpclog.V(2) {
			grpclog.Infof("Registering %s", sd.GetName())
		}
		svc := &Service{
			File:                   file,
			ServiceDescriptorProto: sd,
			Index:                  i,
			Comment:                leadingComment(file, servicePathNumber, int32(i)),
		}
		for j, md := range sd.GetMethod() {
			if grpclog.V(2) {
				grpclog.Infof("Processing %s.%s", sd.GetName(), md.GetName())
			}
			meth, err := r.newMethod(svc, md, j)
			if err != nil {
				grpclog.Errorf("Failed to process %s.%s: %v", svc.GetName(), md.GetName(), err)
				return err
			}
			svc.Methods = append(svc.Methods, meth)
		}
		svcs = append(svcs, svc)
	}
	file.Services = svcs
	return nil
}

func (r *Registry) newMethod(svc *Service, md *descriptorpb.MethodDescriptorProto, idx int) (*Method, error) {
	requestType, err := r.LookupMsg(svc.File.GetPackage(), md.GetInputType())
	if err != nil {
		return nil, err
	}
	responseType, err := r.LookupMsg(svc.File.GetPackage(), md.GetOutputType())
	if err != nil {
		return nil, err
	}
	rule, err := extractAPIOptions(md)
	if err != nil {
		return nil, err
	}
	return &Method{
		Service:               svc,
		MethodDescriptorProto: md,
		Index:                 idx,
		RequestType:           requestType,
		ResponseType:          responseType,
		Comment:               leadingComment(svc.File, servicePathNumber, int32(svc.Index), methodPathNumber, int32(idx)),
		HTTPRule:              rule,
	}, nil
}

// extractAPIOptions retrieves the google.api.http annotation of a method if
// one is present. The annotation is not interpreted here; it rides along as
// opaque metadata.
func extractAPIOptions(meth *descriptorpb.MethodDescriptorProto) (*options.HttpRule, error) {
	if meth.Options == nil {
		return nil, nil
	}
	if !proto.HasExtension(meth.Options, options.E_Http) {
		return nil, nil
	}
	ext := proto.GetExtension(meth.Options, options.E_Http)
	opts, ok := ext.(*options.HttpRule)
	if !ok {
		return nil, fmt.Errorf("extension is %T; want an HttpRule", ext)
	}
	return opts, nil
}

// leadingComment retrieves the leading comment lines of the declaration
// identified by "path" in the source info of "file".
func leadingComment(file *File, path ...int32) []string {
	if file.SourceCodeInfo == nil {
		return nil
	}
	for _, loc := range file.GetSourceCodeInfo().GetLocation() {
		if !equalPath(loc.GetPath(), path) {
			continue
		}
		str := strings.TrimSpace(loc.GetLeadingComments())
		if str == "" {
			return nil
		}
		lines := strings.Split(str, "\n")
		for i, s := range lines {
			lines[i] = strings.TrimSpace(s)
		}
		return lines
	}
	return nil
}

// helper to compare paths
func equalPath(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
