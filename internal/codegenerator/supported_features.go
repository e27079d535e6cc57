package codegenerator

import (
	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

var supportedFeatures = uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL) |
	uint64(pluginpb.CodeGeneratorResponse_FEATURE_SUPPORTS_EDITIONS)

// SetSupportedFeaturesOnPluginGen sets supported proto3 features and the
// supported editions range on a protogen plugin.
func SetSupportedFeaturesOnPluginGen(gen *protogen.Plugin) {
	gen.SupportedFeatures = supportedFeatures
	gen.SupportedEditionsMinimum = descriptorpb.Edition_EDITION_PROTO2
	gen.SupportedEditionsMaximum = descriptorpb.Edition_EDITION_2023
}
