package wellknown

import (
	"github.com/protoweave/protoweave/schema"
)

// Builders for the static catalog. Field numbers follow the canonical
// definitions shipped with protoc.

func scalarField(name string, num int32, s schema.Scalar) *schema.Field {
	return &schema.Field{
		Name:       name,
		Number:     num,
		OneofIndex: -1,
		Type:       &schema.Type{Kind: schema.KindScalar, Scalar: s},
	}
}

func messageField(name string, num int32, fqn string) *schema.Field {
	return &schema.Field{
		Name:       name,
		Number:     num,
		OneofIndex: -1,
		Type:       &schema.Type{Kind: schema.KindMessage, Named: fqn},
	}
}

func enumField(name string, num int32, fqn string) *schema.Field {
	return &schema.Field{
		Name:       name,
		Number:     num,
		OneofIndex: -1,
		Type:       &schema.Type{Kind: schema.KindEnum, Named: fqn},
	}
}

func repeated(f *schema.Field) *schema.Field {
	f.Repeated = true
	return f
}

func timestampFile() *schema.File {
	return &schema.File{
		Path:    "google/protobuf/timestamp.proto",
		Package: Package,
		Messages: []*schema.Message{{
			Name: "Timestamp",
			Fields: []*schema.Field{
				scalarField("seconds", 1, schema.ScalarInt64),
				scalarField("nanos", 2, schema.ScalarInt32),
			},
		}},
	}
}

func durationFile() *schema.File {
	return &schema.File{
		Path:    "google/protobuf/duration.proto",
		Package: Package,
		Messages: []*schema.Message{{
			Name: "Duration",
			Fields: []*schema.Field{
				scalarField("seconds", 1, schema.ScalarInt64),
				scalarField("nanos", 2, schema.ScalarInt32),
			},
		}},
	}
}

func anyFile() *schema.File {
	return &schema.File{
		Path:    "google/protobuf/any.proto",
		Package: Package,
		Messages: []*schema.Message{{
			Name: "Any",
			Fields: []*schema.Field{
				scalarField("type_url", 1, schema.ScalarString),
				scalarField("value", 2, schema.ScalarBytes),
			},
		}},
	}
}

func emptyFile() *schema.File {
	return &schema.File{
		Path:     "google/protobuf/empty.proto",
		Package:  Package,
		Messages: []*schema.Message{{Name: "Empty"}},
	}
}

func wrappersFile() *schema.File {
	wrapper := func(name string, s schema.Scalar) *schema.Message {
		return &schema.Message{
			Name:   name,
			Fields: []*schema.Field{scalarField("value", 1, s)},
		}
	}
	return &schema.File{
		Path:    "google/protobuf/wrappers.proto",
		Package: Package,
		Messages: []*schema.Message{
			wrapper("DoubleValue", schema.ScalarDouble),
			wrapper("FloatValue", schema.ScalarFloat),
			wrapper("Int64Value", schema.ScalarInt64),
			wrapper("UInt64Value", schema.ScalarUint64),
			wrapper("Int32Value", schema.ScalarInt32),
			wrapper("UInt32Value", schema.ScalarUint32),
			wrapper("BoolValue", schema.ScalarBool),
			wrapper("StringValue", schema.ScalarString),
			wrapper("BytesValue", schema.ScalarBytes),
		},
	}
}

func structFile() *schema.File {
	oneofMember := func(f *schema.Field) *schema.Field {
		f.OneofIndex = 0
		return f
	}
	kind := []*schema.Field{
		oneofMember(enumField("null_value", 1, "google.protobuf.NullValue")),
		oneofMember(scalarField("number_value", 2, schema.ScalarDouble)),
		oneofMember(scalarField("string_value", 3, schema.ScalarString)),
		oneofMember(scalarField("bool_value", 4, schema.ScalarBool)),
		oneofMember(messageField("struct_value", 5, "google.protobuf.Struct")),
		oneofMember(messageField("list_value", 6, "google.protobuf.ListValue")),
	}
	return &schema.File{
		Path:    "google/protobuf/struct.proto",
		Package: Package,
		Messages: []*schema.Message{
			{
				Name: "Struct",
				Fields: []*schema.Field{{
					Name:       "fields",
					Number:     1,
					OneofIndex: -1,
					Type: &schema.Type{
						Kind:  schema.KindMap,
						Key:   &schema.Type{Kind: schema.KindScalar, Scalar: schema.ScalarString},
						Value: &schema.Type{Kind: schema.KindMessage, Named: "google.protobuf.Value"},
					},
				}},
			},
			{
				Name:   "Value",
				Fields: kind,
				Oneofs: []*schema.Oneof{{Name: "kind", Fields: kind}},
			},
			{
				Name: "ListValue",
				Fields: []*schema.Field{
					repeated(messageField("values", 1, "google.protobuf.Value")),
				},
			},
		},
		Enums: []*schema.Enum{{
			Name:   "NullValue",
			Values: []*schema.EnumValue{{Name: "NULL_VALUE", Number: 0}},
		}},
	}
}

func fieldMaskFile() *schema.File {
	return &schema.File{
		Path:    "google/protobuf/field_mask.proto",
		Package: Package,
		Messages: []*schema.Message{{
			Name: "FieldMask",
			Fields: []*schema.Field{
				repeated(scalarField("paths", 1, schema.ScalarString)),
			},
		}},
	}
}

func sourceContextFile() *schema.File {
	return &schema.File{
		Path:    "google/protobuf/source_context.proto",
		Package: Package,
		Messages: []*schema.Message{{
			Name:   "SourceContext",
			Fields: []*schema.Field{scalarField("file_name", 1, schema.ScalarString)},
		}},
	}
}

func typeFile() *schema.File {
	fieldKind := &schema.Enum{
		Name: "Kind",
		Values: []*schema.EnumValue{
			{Name: "TYPE_UNKNOWN", Number: 0},
			{Name: "TYPE_DOUBLE", Number: 1},
			{Name: "TYPE_FLOAT", Number: 2},
			{Name: "TYPE_INT64", Number: 3},
			{Name: "TYPE_UINT64", Number: 4},
			{Name: "TYPE_INT32", Number: 5},
			{Name: "TYPE_FIXED64", Number: 6},
			{Name: "TYPE_FIXED32", Number: 7},
			{Name: "TYPE_BOOL", Number: 8},
			{Name: "TYPE_STRING", Number: 9},
			{Name: "TYPE_GROUP", Number: 10},
			{Name: "TYPE_MESSAGE", Number: 11},
			{Name: "TYPE_BYTES", Number: 12},
			{Name: "TYPE_UINT32", Number: 13},
			{Name: "TYPE_ENUM", Number: 14},
			{Name: "TYPE_SFIXED32", Number: 15},
			{Name: "TYPE_SFIXED64", Number: 16},
			{Name: "TYPE_SINT32", Number: 17},
			{Name: "TYPE_SINT64", Number: 18},
		},
	}
	fieldCardinality := &schema.Enum{
		Name: "Cardinality",
		Values: []*schema.EnumValue{
			{Name: "CARDINALITY_UNKNOWN", Number: 0},
			{Name: "CARDINALITY_OPTIONAL", Number: 1},
			{Name: "CARDINALITY_REQUIRED", Number: 2},
			{Name: "CARDINALITY_REPEATED", Number: 3},
		},
	}

	return &schema.File{
		Path:    "google/protobuf/type.proto",
		Package: Package,
		Imports: []*schema.Import{
			{Path: "google/protobuf/any.proto"},
			{Path: "google/protobuf/source_context.proto"},
		},
		Messages: []*schema.Message{
			{
				Name: "Type",
				Fields: []*schema.Field{
					scalarField("name", 1, schema.ScalarString),
					repeated(messageField("fields", 2, "google.protobuf.Field")),
					repeated(scalarField("oneofs", 3, schema.ScalarString)),
					repeated(messageField("options", 4, "google.protobuf.Option")),
					messageField("source_context", 5, "google.protobuf.SourceContext"),
					enumField("syntax", 6, "google.protobuf.Syntax"),
				},
			},
			{
				Name:  "Field",
				Enums: []*schema.Enum{fieldKind, fieldCardinality},
				Fields: []*schema.Field{
					enumField("kind", 1, "google.protobuf.Field.Kind"),
					enumField("cardinality", 2, "google.protobuf.Field.Cardinality"),
					scalarField("number", 3, schema.ScalarInt32),
					scalarField("name", 4, schema.ScalarString),
					scalarField("type_url", 6, schema.ScalarString),
					scalarField("oneof_index", 7, schema.ScalarInt32),
					scalarField("packed", 8, schema.ScalarBool),
					repeated(messageField("options", 9, "google.protobuf.Option")),
					scalarField("json_name", 10, schema.ScalarString),
					scalarField("default_value", 11, schema.ScalarString),
				},
			},
			{
				Name: "Enum",
				Fields: []*schema.Field{
					scalarField("name", 1, schema.ScalarString),
					repeated(messageField("enumvalue", 2, "google.protobuf.EnumValue")),
					repeated(messageField("options", 3, "google.protobuf.Option")),
					messageField("source_context", 4, "google.protobuf.SourceContext"),
					enumField("syntax", 5, "google.protobuf.Syntax"),
				},
			},
			{
				Name: "EnumValue",
				Fields: []*schema.Field{
					scalarField("name", 1, schema.ScalarString),
					scalarField("number", 2, schema.ScalarInt32),
					repeated(messageField("options", 3, "google.protobuf.Option")),
				},
			},
			{
				Name: "Option",
				Fields: []*schema.Field{
					scalarField("name", 1, schema.ScalarString),
					messageField("value", 2, "google.protobuf.Any"),
				},
			},
		},
		Enums: []*schema.Enum{{
			Name: "Syntax",
			Values: []*schema.EnumValue{
				{Name: "SYNTAX_PROTO2", Number: 0},
				{Name: "SYNTAX_PROTO3", Number: 1},
			},
		}},
	}
}

func apiFile() *schema.File {
	return &schema.File{
		Path:    "google/protobuf/api.proto",
		Package: Package,
		Imports: []*schema.Import{
			{Path: "google/protobuf/source_context.proto"},
			{Path: "google/protobuf/type.proto"},
		},
		Messages: []*schema.Message{
			{
				Name: "Api",
				Fields: []*schema.Field{
					scalarField("name", 1, schema.ScalarString),
					repeated(messageField("methods", 2, "google.protobuf.Method")),
					repeated(messageField("options", 3, "google.protobuf.Option")),
					scalarField("version", 4, schema.ScalarString),
					messageField("source_context", 5, "google.protobuf.SourceContext"),
					repeated(messageField("mixins", 6, "google.protobuf.Mixin")),
					enumField("syntax", 7, "google.protobuf.Syntax"),
				},
			},
			{
				Name: "Method",
				Fields: []*schema.Field{
					scalarField("name", 1, schema.ScalarString),
					scalarField("request_type_url", 2, schema.ScalarString),
					scalarField("request_streaming", 3, schema.ScalarBool),
					scalarField("response_type_url", 4, schema.ScalarString),
					scalarField("response_streaming", 5, schema.ScalarBool),
					repeated(messageField("options", 6, "google.protobuf.Option")),
					enumField("syntax", 7, "google.protobuf.Syntax"),
				},
			},
			{
				Name: "Mixin",
				Fields: []*schema.Field{
					scalarField("name", 1, schema.ScalarString),
					scalarField("root", 2, schema.ScalarString),
				},
			},
		},
	}
}
