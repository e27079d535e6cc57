package descriptor

// wellKnownGoTypes maps the fully qualified names of well known protobuf
// types to the in-language spelling the generated message code refers to
// them by when well known types are not compiled alongside the target files.
// google.protobuf.Empty maps to the unit spelling rather than a message
// reference, mirroring how the stubs collapse empty payloads.
var wellKnownGoTypes = map[string]string{
	".google.protobuf.Empty":       "struct{}",
	".google.protobuf.Any":         "anypb.Any",
	".google.protobuf.Duration":    "durationpb.Duration",
	".google.protobuf.Timestamp":   "timestamppb.Timestamp",
	".google.protobuf.Struct":      "structpb.Struct",
	".google.protobuf.Value":       "structpb.Value",
	".google.protobuf.ListValue":   "structpb.ListValue",
	".google.protobuf.FieldMask":   "fieldmaskpb.FieldMask",
	".google.protobuf.BoolValue":   "wrapperspb.BoolValue",
	".google.protobuf.BytesValue":  "wrapperspb.BytesValue",
	".google.protobuf.DoubleValue": "wrapperspb.DoubleValue",
	".google.protobuf.FloatValue":  "wrapperspb.FloatValue",
	".google.protobuf.Int32Value":  "wrapperspb.Int32Value",
	".google.protobuf.Int64Value":  "wrapperspb.Int64Value",
	".google.protobuf.StringValue": "wrapperspb.StringValue",
	".google.protobuf.UInt32Value": "wrapperspb.UInt32Value",
	".google.protobuf.UInt64Value": "wrapperspb.UInt64Value",
}

// WellKnownGoType returns the in-language spelling of a well known type
// identified by its fully qualified name, and whether the name denotes one.
func WellKnownGoType(fqmn string) (string, bool) {
	t, ok := wellKnownGoTypes[fqmn]
	return t, ok
}
