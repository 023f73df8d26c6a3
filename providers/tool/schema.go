package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/leofalp/reago/internal/jsonschema"
)

// Type is a parameter type tag.
type Type string

const (
	TypeString  Type = jsonschema.TypeString
	TypeNumber  Type = jsonschema.TypeNumber
	TypeInteger Type = jsonschema.TypeInteger
	TypeBoolean Type = jsonschema.TypeBoolean
	TypeObject  Type = jsonschema.TypeObject
	TypeArray   Type = jsonschema.TypeArray
	TypeAny     Type = jsonschema.TypeAny
)

func (t Type) valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeObject, TypeArray, TypeAny:
		return true
	}
	return false
}

// Param is one named tool parameter.
type Param struct {
	Name        string
	Type        Type
	Required    bool
	Description string
	Enum        []any
}

// Schema is the ordered parameter list of a tool.
type Schema []Param

// SchemaFor derives a Schema from the fields of struct I.
func SchemaFor[I any]() (Schema, error) {
	fields, err := jsonschema.Fields[I]()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	schema := make(Schema, len(fields))
	for i, f := range fields {
		schema[i] = Param{
			Name:        f.Name,
			Type:        Type(f.Type),
			Required:    f.Required,
			Description: f.Description,
			Enum:        f.Enum,
		}
	}
	return schema, nil
}

// Validate checks for empty or duplicate names and unknown type tags.
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))
	for i, p := range s {
		if p.Name == "" {
			return fmt.Errorf("%w: parameter %d has no name", ErrInvalidSchema, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter '%s'", ErrInvalidSchema, p.Name)
		}
		seen[p.Name] = true
		if !p.Type.valid() {
			return fmt.Errorf("%w: parameter '%s' has unknown type '%s'", ErrInvalidSchema, p.Name, p.Type)
		}
	}
	return nil
}

// Lookup returns the parameter called name.
func (s Schema) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// JSONSchema renders s as a JSON Schema object for prompts and docs.
func (s Schema) JSONSchema() *jsonschema.Schema {
	fields := make([]jsonschema.Field, len(s))
	for i, p := range s {
		fields[i] = jsonschema.Field{
			Name:        p.Name,
			Type:        string(p.Type),
			Required:    p.Required,
			Description: p.Description,
			Enum:        p.Enum,
		}
	}
	return jsonschema.FromFields(fields)
}

// Check validates args and returns an *InvalidArgumentsError naming every
// missing, unexpected and mistyped field, or nil. A required field whose
// value is JSON null counts as missing.
func (s Schema) Check(toolName string, args Arguments) error {
	e := &InvalidArgumentsError{Tool: toolName}

	for _, p := range s {
		v, ok := args[p.Name]
		if !ok || v == nil {
			if p.Required {
				e.Missing = append(e.Missing, p.Name)
			}
			continue
		}
		if !matchesType(p.Type, v) {
			e.Mistyped = append(e.Mistyped, FieldError{Name: p.Name, Want: string(p.Type), Got: jsonTypeName(v)})
			continue
		}
		if len(p.Enum) > 0 && !inEnum(p.Enum, v) {
			e.Mistyped = append(e.Mistyped, FieldError{Name: p.Name, Want: fmt.Sprintf("one of %v", p.Enum), Got: fmt.Sprintf("%v", v)})
		}
	}

	for name := range args {
		if _, ok := s.Lookup(name); !ok {
			e.Extra = append(e.Extra, name)
		}
	}
	slices.Sort(e.Extra)

	if e.empty() {
		return nil
	}
	return e
}

func matchesType(t Type, v any) bool {
	switch t {
	case TypeAny:
		return true
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNumber:
		_, ok := toFloat(v)
		return ok
	case TypeInteger:
		f, ok := toFloat(v)
		return ok && f == math.Trunc(f) && !math.IsInf(f, 0)
	case TypeObject:
		_, ok := v.(map[string]any)
		if ok {
			return true
		}
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
	case TypeArray:
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func inEnum(enum []any, v any) bool {
	vf, vNum := toFloat(v)
	for _, e := range enum {
		if ef, ok := toFloat(e); ok && vNum {
			if ef == vf {
				return true
			}
			continue
		}
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if f, ok := toFloat(v); ok {
		if f == math.Trunc(f) {
			return "integer"
		}
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
