package gen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAttributesLookup(t *testing.T) {
	var a Attributes
	a.PushPackage("greet.v1", "//go:generate mockgen -package greetv1triple")
	a.PushPackage("*", "//lint:file-ignore U1000 generated code")
	a.PushStruct("greet.v1.Greeter", "//nolint:revive")
	a.PushStruct("greet.*", "//nolint:gocritic")
	a.PushStruct("*.Health", "//nolint:unused")

	tests := []struct {
		desc string
		got  []string
		want []string
	}{
		{
			desc: "package exact and wildcard",
			got:  a.ForPackage("greet.v1"),
			want: []string{"//go:generate mockgen -package greetv1triple", "//lint:file-ignore U1000 generated code"},
		},
		{
			desc: "package wildcard only",
			got:  a.ForPackage("other.v1"),
			want: []string{"//lint:file-ignore U1000 generated code"},
		},
		{
			desc: "struct exact and subtree",
			got:  a.ForStruct("greet.v1.Greeter"),
			want: []string{"//nolint:revive", "//nolint:gocritic"},
		},
		{
			desc: "struct suffix",
			got:  a.ForStruct("other.v1.Health"),
			want: []string{"//nolint:unused"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.got); diff != "" {
				t.Errorf("lookup mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAttributesLookupAbsent(t *testing.T) {
	var a Attributes
	if got := a.ForPackage("greet.v1"); len(got) != 0 {
		t.Errorf("ForPackage on empty attributes = %v, want none", got)
	}
	if got := a.ForStruct("greet.v1.Greeter"); len(got) != 0 {
		t.Errorf("ForStruct on empty attributes = %v, want none", got)
	}

	a.PushStruct("", "//nolint")
	if got := a.ForStruct("greet.v1.Greeter"); len(got) != 0 {
		t.Errorf("empty pattern matched: %v", got)
	}
}
