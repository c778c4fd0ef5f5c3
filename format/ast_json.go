package format

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/dhamidi/parsecore/parser"
)

var (
	nodeType      = reflect.TypeOf((*parser.Node)(nil)).Elem()
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textType      = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// nodeToJSON turns a syntax tree into maps and slices that encoding/json
// renders with a "type" member naming each node, which plain struct
// encoding loses behind interface fields. Embedded structs are flattened.
func nodeToJSON(v any) any {
	if v == nil {
		return nil
	}
	return valueToJSON(reflect.ValueOf(v))
}

func valueToJSON(v reflect.Value) any {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Pointer && v.Type().Implements(nodeType) {
			return nodeFields(v.Elem(), v.Elem().Type().Name())
		}
		v = v.Elem()
	}
	if v.Type().Implements(marshalerType) || v.Type().Implements(textType) {
		return v.Interface()
	}
	switch v.Kind() {
	case reflect.Struct:
		return nodeFields(v, "")
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return []any{}
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = valueToJSON(v.Index(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[toString(iter.Key())] = valueToJSON(iter.Value())
		}
		return out
	default:
		return v.Interface()
	}
}

func nodeFields(v reflect.Value, typeName string) map[string]any {
	out := make(map[string]any)
	if typeName != "" {
		out["type"] = typeName
	}
	addFields(out, v)
	return out
}

func addFields(out map[string]any, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			addFields(out, v.Field(i))
			continue
		}
		name, omitEmpty := jsonName(field)
		if name == "-" {
			continue
		}
		if omitEmpty && v.Field(i).IsZero() {
			continue
		}
		out[name] = valueToJSON(v.Field(i))
	}
}

func jsonName(field reflect.StructField) (string, bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return strings.ToLower(field.Name[:1]) + field.Name[1:], false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strings.ToLower(field.Name[:1]) + field.Name[1:]
	}
	return name, strings.Contains(opts, "omitempty")
}

func toString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}
