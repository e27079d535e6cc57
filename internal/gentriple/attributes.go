package gentriple

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/go-core-stack/triple-gen/gen"
)

// manifest is the on-disk shape of an attributes manifest:
//
//	client:
//	  packages:
//	    "greet.v1":
//	      - "//go:generate mockgen ..."
//	  structs:
//	    "greet.v1.Greeter":
//	      - "//nolint:revive"
//	server:
//	  ...
//
// The annotation lines are spliced into the generated code verbatim and are
// not validated here.
type manifest struct {
	Client roleAttributes `yaml:"client"`
	Server roleAttributes `yaml:"server"`
}

type roleAttributes struct {
	Packages map[string][]string `yaml:"packages"`
	Structs  map[string][]string `yaml:"structs"`
}

// LoadAttributes reads an attributes manifest from path.
func LoadAttributes(path string) (client, server gen.Attributes, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client, server, fmt.Errorf("attributes manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return client, server, fmt.Errorf("attributes manifest %s: %w", path, err)
	}
	return m.Client.attributes(), m.Server.attributes(), nil
}

// attributes converts one role section into a lookup value. Patterns are
// registered in sorted order so that repeated generator runs splice
// identical output.
func (r roleAttributes) attributes() gen.Attributes {
	var a gen.Attributes
	for _, pattern := range sortedKeys(r.Packages) {
		a.PushPackage(pattern, r.Packages[pattern]...)
	}
	for _, pattern := range sortedKeys(r.Structs) {
		a.PushStruct(pattern, r.Structs[pattern]...)
	}
	return a
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
