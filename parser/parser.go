// Package parser converts .proto source text into the schema model.
package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/protoweave/protoweave/schema"
	"github.com/protoweave/protoweave/wire"
)

// Field numbers 19000 through 19999 are reserved for the protobuf
// implementation itself.
const (
	reservedRangeStart = 19000
	reservedRangeEnd   = 19999
)

var scalars = map[string]schema.Scalar{
	"double":   schema.ScalarDouble,
	"float":    schema.ScalarFloat,
	"int32":    schema.ScalarInt32,
	"int64":    schema.ScalarInt64,
	"uint32":   schema.ScalarUint32,
	"uint64":   schema.ScalarUint64,
	"sint32":   schema.ScalarSint32,
	"sint64":   schema.ScalarSint64,
	"fixed32":  schema.ScalarFixed32,
	"fixed64":  schema.ScalarFixed64,
	"sfixed32": schema.ScalarSfixed32,
	"sfixed64": schema.ScalarSfixed64,
	"bool":     schema.ScalarBool,
	"string":   schema.ScalarString,
	"bytes":    schema.ScalarBytes,
}

// Parse reads a single .proto source and converts it into the schema model.
// The path is recorded on the returned file and used in error messages; it is
// not opened. Type references are left as KindNamed exactly as written in the
// source, to be resolved at link time.
func Parse(r io.Reader, path string) (*schema.File, error) {
	proto, err := protoparser.Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if proto.Syntax == nil || proto.Syntax.ProtobufVersion != "proto3" {
		return nil, errors.Errorf("%s: only proto3 files are supported", path)
	}

	file := &schema.File{Path: path}
	for _, v := range proto.ProtoBody {
		switch b := v.(type) {
		case *protoparserparser.Package:
			file.Package = b.Name
		case *protoparserparser.Import:
			imp, err := convertImport(b)
			if err != nil {
				return nil, errors.Wrap(err, path)
			}
			file.Imports = append(file.Imports, imp)
		case *protoparserparser.Message:
			msg, err := convertMessage(b)
			if err != nil {
				return nil, errors.Wrap(err, path)
			}
			file.Messages = append(file.Messages, msg)
		case *protoparserparser.Enum:
			enum, err := convertEnum(b)
			if err != nil {
				return nil, errors.Wrap(err, path)
			}
			file.Enums = append(file.Enums, enum)
		case *protoparserparser.Service:
			file.Services = append(file.Services, convertService(b))
		}
	}
	return file, nil
}

func convertImport(imp *protoparserparser.Import) (*schema.Import, error) {
	location := strings.Trim(imp.Location, `"`)
	switch imp.Modifier {
	case protoparserparser.ImportModifierWeak:
		return nil, errors.Errorf("weak import %q is not supported", location)
	case protoparserparser.ImportModifierPublic:
		return &schema.Import{Path: location, Public: true}, nil
	default:
		return &schema.Import{Path: location}, nil
	}
}

func convertMessage(m *protoparserparser.Message) (*schema.Message, error) {
	msg := &schema.Message{Name: m.MessageName}
	for _, v := range m.MessageBody {
		switch b := v.(type) {
		case *protoparserparser.Field:
			f, err := convertField(b)
			if err != nil {
				return nil, errors.Wrapf(err, "message %s", m.MessageName)
			}
			msg.Fields = append(msg.Fields, f)
		case *protoparserparser.MapField:
			f, err := convertMapField(b)
			if err != nil {
				return nil, errors.Wrapf(err, "message %s", m.MessageName)
			}
			msg.Fields = append(msg.Fields, f)
		case *protoparserparser.Oneof:
			if err := convertOneof(msg, b); err != nil {
				return nil, errors.Wrapf(err, "message %s", m.MessageName)
			}
		case *protoparserparser.GroupField:
			return nil, errors.Errorf("message %s: group field %s is proto2 only", m.MessageName, b.GroupName)
		case *protoparserparser.Message:
			nested, err := convertMessage(b)
			if err != nil {
				return nil, err
			}
			msg.Messages = append(msg.Messages, nested)
		case *protoparserparser.Enum:
			nested, err := convertEnum(b)
			if err != nil {
				return nil, err
			}
			msg.Enums = append(msg.Enums, nested)
		}
	}
	return msg, nil
}

func convertField(f *protoparserparser.Field) (*schema.Field, error) {
	if f.IsRequired {
		return nil, errors.Errorf("field %s: required label is proto2 only", f.FieldName)
	}
	num, err := fieldNumber(f.FieldNumber)
	if err != nil {
		return nil, errors.Wrapf(err, "field %s", f.FieldName)
	}
	return &schema.Field{
		Name:       f.FieldName,
		Number:     num,
		Repeated:   f.IsRepeated,
		Type:       fieldType(f.Type),
		OneofIndex: -1,
	}, nil
}

func convertMapField(f *protoparserparser.MapField) (*schema.Field, error) {
	num, err := fieldNumber(f.FieldNumber)
	if err != nil {
		return nil, errors.Wrapf(err, "map field %s", f.MapName)
	}
	return &schema.Field{
		Name:   f.MapName,
		Number: num,
		Type: &schema.Type{
			Kind:  schema.KindMap,
			Key:   fieldType(f.KeyType),
			Value: fieldType(f.Type),
		},
		OneofIndex: -1,
	}, nil
}

// convertOneof appends the oneof group and its member fields. Members appear
// both in the oneof and in the message's field list with OneofIndex set.
func convertOneof(msg *schema.Message, o *protoparserparser.Oneof) error {
	idx := int32(len(msg.Oneofs))
	oneof := &schema.Oneof{Name: o.OneofName}
	for _, f := range o.OneofFields {
		num, err := fieldNumber(f.FieldNumber)
		if err != nil {
			return errors.Wrapf(err, "oneof %s field %s", o.OneofName, f.FieldName)
		}
		field := &schema.Field{
			Name:       f.FieldName,
			Number:     num,
			Type:       fieldType(f.Type),
			OneofIndex: idx,
		}
		oneof.Fields = append(oneof.Fields, field)
		msg.Fields = append(msg.Fields, field)
	}
	msg.Oneofs = append(msg.Oneofs, oneof)
	return nil
}

func convertEnum(e *protoparserparser.Enum) (*schema.Enum, error) {
	enum := &schema.Enum{Name: e.EnumName}
	for _, v := range e.EnumBody {
		f, ok := v.(*protoparserparser.EnumField)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(f.Number, 0, 32)
		if err != nil {
			return nil, errors.Errorf("enum %s: invalid value number %q", e.EnumName, f.Number)
		}
		enum.Values = append(enum.Values, &schema.EnumValue{Name: f.Ident, Number: int32(n)})
	}
	return enum, nil
}

func convertService(s *protoparserparser.Service) *schema.Service {
	svc := &schema.Service{Name: s.ServiceName}
	for _, v := range s.ServiceBody {
		rpc, ok := v.(*protoparserparser.RPC)
		if !ok {
			continue
		}
		m := &schema.Method{Name: rpc.RPCName}
		if rpc.RPCRequest != nil {
			m.Input = rpc.RPCRequest.MessageType
			m.ClientStreaming = rpc.RPCRequest.IsStream
		}
		if rpc.RPCResponse != nil {
			m.Output = rpc.RPCResponse.MessageType
			m.ServerStreaming = rpc.RPCResponse.IsStream
		}
		svc.Methods = append(svc.Methods, m)
	}
	return svc
}

func fieldType(name string) *schema.Type {
	if s, ok := scalars[name]; ok {
		return &schema.Type{Kind: schema.KindScalar, Scalar: s}
	}
	return &schema.Type{Kind: schema.KindNamed, Named: name}
}

func fieldNumber(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, errors.Errorf("invalid field number %q", s)
	}
	if n < 1 || n > int64(wire.MaxFieldNumber) {
		return 0, errors.Errorf("field number %d out of range", n)
	}
	if n >= reservedRangeStart && n <= reservedRangeEnd {
		return 0, errors.Errorf("field number %d is in the reserved range", n)
	}
	return int32(n), nil
}
