package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrNotStruct is returned by [Fields] when the type argument is not a struct
// (or pointer to struct).
var ErrNotStruct = errors.New("jsonschema: type is not a struct")

// Type tags shared with the tool registry.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeAny     = "any"
)

// Field describes one top-level parameter derived from a struct field.
type Field struct {
	Name        string
	Type        string
	Required    bool
	Description string
	Enum        []any
}

// Schema is the subset of JSON Schema used to advertise tool parameters.
type Schema struct {
	//  Type Specifies the data type (e.g., "object", "array", "string", "number")
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	// AdditionalProperties: Controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
}

// Fields returns the ordered parameter list for struct type T.
//
// A field is required when it is a non-pointer without `omitempty`, or when
// its jsonschema tag says "required". Fields tagged `json:"-"` and unexported
// fields are skipped.
func Fields[T any]() ([]Field, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, t)
	}

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		structField := t.Field(i)
		if !structField.IsExported() {
			continue
		}

		jsonTag := structField.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := structField.Name
		isOmitEmpty := false
		if jsonTag != "" {
			if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
				if commaIdx > 0 {
					fieldName = jsonTag[:commaIdx]
				}
				isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
			} else {
				fieldName = jsonTag
			}
		}

		field := Field{
			Name: fieldName,
			Type: TypeOf(structField.Type),
		}

		isRequiredByTag, err := parseJSONSchemaTag(structField.Type, structField.Tag, &field)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fieldName, err)
		}

		field.Required = isRequiredByTag || (structField.Type.Kind() != reflect.Ptr && !isOmitEmpty)
		fields = append(fields, field)
	}

	return fields, nil
}

// TypeOf maps a Go type to its parameter type tag.
func TypeOf(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	default:
		return TypeAny
	}
}

// parseJSONSchemaTag parses the jsonschema struct tag into field.
// Supported tag items:
// 1. description=xxx
// 2. enum=xxx (repeatable), converted to the field's Go kind
// 3. required
func parseJSONSchemaTag(fieldType reflect.Type, tag reflect.StructTag, field *Field) (bool, error) {
	jsonSchemaTag := tag.Get("jsonschema")
	if len(jsonSchemaTag) == 0 {
		return false, nil
	}

	isRequiredByTag := false
	for _, tagItem := range strings.Split(jsonSchemaTag, ",") {
		key, value, hasValue := strings.Cut(tagItem, "=")
		if !hasValue {
			if strings.TrimSpace(key) == "required" {
				isRequiredByTag = true
			}
			continue
		}

		switch key {
		case "description":
			field.Description = value
		case "enum":
			enumValue, err := parseEnumValue(fieldType, value)
			if err != nil {
				return false, err
			}
			field.Enum = append(field.Enum, enumValue)
		}
	}

	return isRequiredByTag, nil
}

func parseEnumValue(fieldType reflect.Type, value string) (any, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to int64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to float64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to bool failed: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type: %v", fieldType)
	}
}

// FromFields builds an object schema from an ordered field list. The "any"
// type tag is rendered without a type constraint.
func FromFields(fields []Field) *Schema {
	schema := &Schema{
		Type:                 TypeObject,
		Properties:           make(map[string]*Schema, len(fields)),
		AdditionalProperties: false,
	}

	for _, field := range fields {
		property := &Schema{
			Description: field.Description,
			Enum:        field.Enum,
		}
		if field.Type != TypeAny {
			property.Type = field.Type
		}
		schema.Properties[field.Name] = property

		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}

	return schema
}

// JsonString converts the Schema to its JSON representation
// indent: optional bool parameter. If true, formats JSON with indentation. If false or omitted, returns compact JSON.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	shouldIndent := len(indent) > 0 && indent[0]

	var jsonBytes []byte
	var err error

	if shouldIndent {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema.
// Returns an error message if marshalling fails
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
