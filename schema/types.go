package schema

// File represents a single parsed .proto file.
type File struct {
	Path     string     `json:"path"`     // "users/v1/user.proto"
	Package  string     `json:"package"`  // package name
	Imports  []*Import  `json:"imports"`  // imported files
	Messages []*Message `json:"messages"` // message definitions
	Enums    []*Enum    `json:"enums"`    // enum definitions
	Services []*Service `json:"services"` // service definitions
}

// Import represents an import statement.
type Import struct {
	Path   string `json:"path"`   // "google/protobuf/timestamp.proto"
	Public bool   `json:"public"` // public import
}

// Message represents a protobuf message definition.
type Message struct {
	Name     string     `json:"name"`      // "User"
	Fields   []*Field   `json:"fields"`    // all fields, oneof members included
	Oneofs   []*Oneof   `json:"oneofs"`    // oneof groups
	Messages []*Message `json:"messages"`  // nested messages
	Enums    []*Enum    `json:"enums"`     // nested enums
	MapEntry bool       `json:"map_entry"` // synthetic map entry message
}

// Field represents a message field.
type Field struct {
	Name       string `json:"name"`        // "user_name"
	Number     int32  `json:"number"`      // 1
	Repeated   bool   `json:"repeated"`    // repeated label
	Type       *Type  `json:"type"`        // declared type
	OneofIndex int32  `json:"oneof_index"` // index into Oneofs, -1 if not in a oneof
}

// Oneof represents a oneof group. Its fields also appear in the owning
// message's Fields slice with OneofIndex set.
type Oneof struct {
	Name   string   `json:"name"`   // "contact"
	Fields []*Field `json:"fields"` // fields in this oneof
}

// Type describes the declared type of a field. For KindNamed the reference
// is as written in source; linking rewrites it to KindMessage or KindEnum
// with Named holding the fully-qualified name.
type Type struct {
	Kind   Kind   `json:"kind"`
	Scalar Scalar `json:"scalar,omitempty"` // for KindScalar
	Named  string `json:"named,omitempty"`  // for KindNamed, KindMessage, KindEnum
	Key    *Type  `json:"key,omitempty"`    // for KindMap
	Value  *Type  `json:"value,omitempty"`  // for KindMap
}

// Kind represents the kind of a field type.
type Kind string

const (
	KindScalar  Kind = "scalar"
	KindNamed   Kind = "named" // unresolved type reference
	KindMessage Kind = "message"
	KindEnum    Kind = "enum"
	KindMap     Kind = "map"
)

// Scalar represents the proto3 scalar types.
type Scalar string

const (
	ScalarDouble   Scalar = "double"
	ScalarFloat    Scalar = "float"
	ScalarInt32    Scalar = "int32"
	ScalarInt64    Scalar = "int64"
	ScalarUint32   Scalar = "uint32"
	ScalarUint64   Scalar = "uint64"
	ScalarSint32   Scalar = "sint32"
	ScalarSint64   Scalar = "sint64"
	ScalarFixed32  Scalar = "fixed32"
	ScalarFixed64  Scalar = "fixed64"
	ScalarSfixed32 Scalar = "sfixed32"
	ScalarSfixed64 Scalar = "sfixed64"
	ScalarBool     Scalar = "bool"
	ScalarString   Scalar = "string"
	ScalarBytes    Scalar = "bytes"
)

var packedEligible = map[Scalar]struct{}{
	ScalarDouble:   {},
	ScalarFloat:    {},
	ScalarInt32:    {},
	ScalarInt64:    {},
	ScalarUint32:   {},
	ScalarUint64:   {},
	ScalarSint32:   {},
	ScalarSint64:   {},
	ScalarFixed32:  {},
	ScalarFixed64:  {},
	ScalarSfixed32: {},
	ScalarSfixed64: {},
	ScalarBool:     {},
}

// Packable reports whether a repeated field of this scalar type may use
// packed encoding. Everything except string and bytes is packable.
func (s Scalar) Packable() bool {
	_, ok := packedEligible[s]
	return ok
}

// Field returns the field with the given name, or nil. Oneof members are
// included.
func (m *Message) Field(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FieldByNumber returns the field with the given number, or nil.
func (m *Message) FieldByNumber(n int32) *Field {
	for _, f := range m.Fields {
		if f.Number == n {
			return f
		}
	}
	return nil
}

// Enum represents an enum definition.
type Enum struct {
	Name   string       `json:"name"`   // "Status"
	Values []*EnumValue `json:"values"` // enum values
}

// EnumValue represents an enum value.
type EnumValue struct {
	Name   string `json:"name"`   // "ACTIVE"
	Number int32  `json:"number"` // 1
}

// ValueName returns the name registered for the given number, or "" when
// the number is unknown. The first declared name wins for aliased numbers.
func (e *Enum) ValueName(n int32) string {
	for _, v := range e.Values {
		if v.Number == n {
			return v.Name
		}
	}
	return ""
}

// ValueNumber returns the number registered for the given name.
func (e *Enum) ValueNumber(name string) (int32, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Number, true
		}
	}
	return 0, false
}

// Service represents a service definition.
type Service struct {
	Name    string    `json:"name"`    // "UserService"
	Methods []*Method `json:"methods"` // service methods
}

// Method represents a service method.
type Method struct {
	Name            string `json:"name"`             // "GetUser"
	Input           string `json:"input"`            // "GetUserRequest"
	Output          string `json:"output"`           // "GetUserResponse"
	ClientStreaming bool   `json:"client_streaming"` // stream input
	ServerStreaming bool   `json:"server_streaming"` // stream output
}
