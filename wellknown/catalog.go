// Package wellknown carries static schemas for the google/protobuf well-known
// types. Imports of these files never touch a source provider; the resolver
// serves them from this catalog. All type references inside the catalog are
// pre-resolved to fully-qualified names.
package wellknown

import (
	"strings"

	"github.com/protoweave/protoweave/schema"
)

// Package is the proto package all well-known types live in.
const Package = "google.protobuf"

const importPrefix = "google/protobuf/"

var catalog = map[string]*schema.File{
	"google/protobuf/timestamp.proto":      timestampFile(),
	"google/protobuf/duration.proto":       durationFile(),
	"google/protobuf/any.proto":            anyFile(),
	"google/protobuf/empty.proto":          emptyFile(),
	"google/protobuf/wrappers.proto":       wrappersFile(),
	"google/protobuf/struct.proto":         structFile(),
	"google/protobuf/field_mask.proto":     fieldMaskFile(),
	"google/protobuf/source_context.proto": sourceContextFile(),
	"google/protobuf/type.proto":           typeFile(),
	"google/protobuf/api.proto":            apiFile(),
}

var typeNames = collectTypeNames()

func collectTypeNames() map[string]struct{} {
	names := make(map[string]struct{})
	var walk func(prefix string, msgs []*schema.Message)
	walk = func(prefix string, msgs []*schema.Message) {
		for _, m := range msgs {
			fqn := prefix + "." + m.Name
			names[fqn] = struct{}{}
			for _, e := range m.Enums {
				names[fqn+"."+e.Name] = struct{}{}
			}
			walk(fqn, m.Messages)
		}
	}
	for _, f := range catalog {
		walk(f.Package, f.Messages)
		for _, e := range f.Enums {
			names[f.Package+"."+e.Name] = struct{}{}
		}
	}
	return names
}

// Catalog returns the full import-path keyed catalog. Callers must not
// mutate the returned files.
func Catalog() map[string]*schema.File {
	return catalog
}

// Lookup returns the schema for a well-known import path.
func Lookup(importPath string) (*schema.File, bool) {
	f, ok := catalog[importPath]
	return f, ok
}

// IsWellKnownImport reports whether the import path claims the reserved
// google/protobuf/ namespace. A claimed path missing from the catalog is
// the resolver's ErrUnknownWellKnown case, not a provider lookup.
func IsWellKnownImport(path string) bool {
	return strings.HasPrefix(path, importPrefix)
}

// IsWellKnownType reports whether name refers to a catalog type. Both the
// fully-qualified form ("google.protobuf.Timestamp") and the short form
// used inside other catalog files ("Timestamp") are accepted.
func IsWellKnownType(name string) bool {
	if _, ok := typeNames[name]; ok {
		return true
	}
	if !strings.Contains(name, ".") {
		_, ok := typeNames[Package+"."+name]
		return ok
	}
	return false
}
