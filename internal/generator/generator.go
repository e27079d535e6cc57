// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package generator provides an abstraction of code generators.
package generator

import (
	"github.com/go-core-stack/triple-gen/internal/descriptor"
)

// Generator is an abstraction of code generators. A generator consumes
// a set of target files loaded into the descriptor registry and produces
// output files for the protoc plugin response.
type Generator interface {
	// Generate generates output files from input .proto files.
	Generate(targets []*descriptor.File) ([]*descriptor.ResponseFile, error)
}
