package wellknown

import (
	"testing"

	"github.com/protoweave/protoweave/schema"
)

func TestLookup(t *testing.T) {
	paths := []string{
		"google/protobuf/timestamp.proto",
		"google/protobuf/duration.proto",
		"google/protobuf/any.proto",
		"google/protobuf/empty.proto",
		"google/protobuf/wrappers.proto",
		"google/protobuf/struct.proto",
		"google/protobuf/field_mask.proto",
		"google/protobuf/source_context.proto",
		"google/protobuf/type.proto",
		"google/protobuf/api.proto",
	}
	for _, path := range paths {
		f, ok := Lookup(path)
		if !ok {
			t.Errorf("Lookup(%q) missing", path)
			continue
		}
		if f.Path != path {
			t.Errorf("Lookup(%q).Path = %q", path, f.Path)
		}
		if f.Package != Package {
			t.Errorf("Lookup(%q).Package = %q, want %q", path, f.Package, Package)
		}
	}

	if _, ok := Lookup("google/protobuf/descriptor.proto"); ok {
		t.Error("Lookup(descriptor.proto) should miss, descriptor is not in the catalog")
	}
	if _, ok := Lookup("users/v1/user.proto"); ok {
		t.Error("Lookup resolved a non well-known path")
	}
}

func TestIsWellKnownImport(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "google/protobuf/timestamp.proto", want: true},
		{path: "google/protobuf/no_such_file.proto", want: true},
		{path: "google/api/annotations.proto", want: false},
		{path: "users/v1/user.proto", want: false},
		{path: "", want: false},
	}
	for _, tt := range tests {
		if got := IsWellKnownImport(tt.path); got != tt.want {
			t.Errorf("IsWellKnownImport(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsWellKnownType(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "google.protobuf.Timestamp", want: true},
		{name: "google.protobuf.StringValue", want: true},
		{name: "google.protobuf.Field.Kind", want: true},
		{name: "google.protobuf.NullValue", want: true},
		{name: "Timestamp", want: true},
		{name: "ListValue", want: true},
		{name: "google.protobuf.Nope", want: false},
		{name: "users.v1.User", want: false},
		{name: "Kind", want: false}, // nested, short form only reaches package scope
	}
	for _, tt := range tests {
		if got := IsWellKnownType(tt.name); got != tt.want {
			t.Errorf("IsWellKnownType(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTimestampShape(t *testing.T) {
	f, _ := Lookup("google/protobuf/timestamp.proto")
	if len(f.Messages) != 1 {
		t.Fatalf("timestamp.proto has %d messages, want 1", len(f.Messages))
	}
	ts := f.Messages[0]
	seconds := ts.Field("seconds")
	nanos := ts.Field("nanos")
	if seconds == nil || seconds.Number != 1 || seconds.Type.Scalar != schema.ScalarInt64 {
		t.Errorf("Timestamp.seconds = %+v, want int64 field 1", seconds)
	}
	if nanos == nil || nanos.Number != 2 || nanos.Type.Scalar != schema.ScalarInt32 {
		t.Errorf("Timestamp.nanos = %+v, want int32 field 2", nanos)
	}
}

func TestValueOneof(t *testing.T) {
	f, _ := Lookup("google/protobuf/struct.proto")
	var value *schema.Message
	for _, m := range f.Messages {
		if m.Name == "Value" {
			value = m
		}
	}
	if value == nil {
		t.Fatal("struct.proto has no Value message")
	}
	if len(value.Oneofs) != 1 || value.Oneofs[0].Name != "kind" {
		t.Fatalf("Value.Oneofs = %+v, want one group named kind", value.Oneofs)
	}
	if len(value.Oneofs[0].Fields) != 6 {
		t.Errorf("Value.kind has %d members, want 6", len(value.Oneofs[0].Fields))
	}
	for _, fl := range value.Fields {
		if fl.OneofIndex != 0 {
			t.Errorf("Value.%s.OneofIndex = %d, want 0", fl.Name, fl.OneofIndex)
		}
	}
}

// Every named reference inside the catalog must resolve to another catalog
// type, and every import must stay inside the catalog. The resolver relies
// on this closure to serve well-known imports without provider calls.
func TestCatalogIsSelfContained(t *testing.T) {
	var checkType func(where string, ty *schema.Type)
	checkType = func(where string, ty *schema.Type) {
		if ty == nil {
			t.Errorf("%s: nil type", where)
			return
		}
		switch ty.Kind {
		case schema.KindMessage, schema.KindEnum:
			if !IsWellKnownType(ty.Named) {
				t.Errorf("%s: reference %q is not in the catalog", where, ty.Named)
			}
		case schema.KindNamed:
			t.Errorf("%s: unresolved reference %q, catalog must ship resolved", where, ty.Named)
		case schema.KindMap:
			checkType(where+" key", ty.Key)
			checkType(where+" value", ty.Value)
		}
	}

	var checkMessage func(file string, m *schema.Message)
	checkMessage = func(file string, m *schema.Message) {
		for _, fl := range m.Fields {
			checkType(file+":"+m.Name+"."+fl.Name, fl.Type)
		}
		for _, nested := range m.Messages {
			checkMessage(file, nested)
		}
	}

	for path, f := range Catalog() {
		for _, m := range f.Messages {
			checkMessage(path, m)
		}
		for _, imp := range f.Imports {
			if _, ok := Lookup(imp.Path); !ok {
				t.Errorf("%s imports %q which is outside the catalog", path, imp.Path)
			}
		}
	}
}
