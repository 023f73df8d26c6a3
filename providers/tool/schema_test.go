package tool

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestSchema_Check(t *testing.T) {
	schema := Schema{
		{Name: "x", Type: TypeInteger, Required: true},
		{Name: "ratio", Type: TypeNumber},
		{Name: "mode", Type: TypeString, Enum: []any{"fast", "safe"}},
		{Name: "level", Type: TypeInteger, Enum: []any{1, 2}},
		{Name: "flags", Type: TypeArray},
		{Name: "meta", Type: TypeObject},
		{Name: "on", Type: TypeBoolean},
		{Name: "blob", Type: TypeAny},
	}

	tests := []struct {
		name     string
		args     Arguments
		missing  []string
		extra    []string
		mistyped []string
	}{
		{name: "minimal valid", args: Arguments{"x": 1.0}},
		{
			name: "all valid",
			args: Arguments{
				"x": float64(3), "ratio": 0.5, "mode": "safe", "level": 2.0,
				"flags": []any{"a"}, "meta": map[string]any{"k": "v"}, "on": true, "blob": nil,
			},
		},
		{name: "go ints count as integers", args: Arguments{"x": 4, "level": int64(1)}},
		{name: "json.Number counts as integer", args: Arguments{"x": json.Number("7")}},
		{name: "null required is missing", args: Arguments{"x": nil}, missing: []string{"x"}},
		{name: "fractional integer", args: Arguments{"x": 1.5}, mistyped: []string{"x"}},
		{name: "enum violation", args: Arguments{"x": 1.0, "mode": "reckless"}, mistyped: []string{"mode"}},
		{name: "numeric enum violation", args: Arguments{"x": 1.0, "level": 3.0}, mistyped: []string{"level"}},
		{name: "bool as string", args: Arguments{"x": 1.0, "on": "true"}, mistyped: []string{"on"}},
		{name: "array as object", args: Arguments{"x": 1.0, "meta": []any{}}, mistyped: []string{"meta"}},
		{
			name:    "everything wrong",
			args:    Arguments{"zeta": 1, "alpha": 2},
			missing: []string{"x"},
			extra:   []string{"alpha", "zeta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Check("probe", tt.args)
			if tt.missing == nil && tt.extra == nil && tt.mistyped == nil {
				if err != nil {
					t.Fatalf("Check() unexpected error: %v", err)
				}
				return
			}

			var invalid *InvalidArgumentsError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidArgumentsError, got %v", err)
			}
			if invalid.Tool != "probe" {
				t.Errorf("Tool = %q", invalid.Tool)
			}
			if !reflect.DeepEqual(invalid.Missing, tt.missing) {
				t.Errorf("Missing = %v, want %v", invalid.Missing, tt.missing)
			}
			if !reflect.DeepEqual(invalid.Extra, tt.extra) {
				t.Errorf("Extra = %v, want %v", invalid.Extra, tt.extra)
			}
			var names []string
			for _, f := range invalid.Mistyped {
				names = append(names, f.Name)
			}
			if !reflect.DeepEqual(names, tt.mistyped) {
				t.Errorf("Mistyped = %v, want %v", names, tt.mistyped)
			}
		})
	}
}

func TestSchema_JSONSchema(t *testing.T) {
	schema := Schema{
		{Name: "x", Type: TypeInteger, Required: true, Description: "column"},
		{Name: "payload", Type: TypeAny},
	}

	js := schema.JSONSchema()
	if js.Type != "object" || !reflect.DeepEqual(js.Required, []string{"x"}) {
		t.Errorf("unexpected schema: %s", js)
	}
	if js.Properties["x"].Type != "integer" || js.Properties["x"].Description != "column" {
		t.Errorf("unexpected x property: %+v", js.Properties["x"])
	}
	if js.Properties["payload"].Type != "" {
		t.Errorf("any should carry no type constraint, got %q", js.Properties["payload"].Type)
	}
}

func TestSchemaFor(t *testing.T) {
	type input struct {
		Query string  `json:"query" jsonschema:"description=What to look for"`
		Limit *int    `json:"limit,omitempty"`
		Score float64 `json:"score,omitempty"`
	}

	schema, err := SchemaFor[input]()
	if err != nil {
		t.Fatal(err)
	}
	want := Schema{
		{Name: "query", Type: TypeString, Required: true, Description: "What to look for"},
		{Name: "limit", Type: TypeInteger},
		{Name: "score", Type: TypeNumber},
	}
	if !reflect.DeepEqual(schema, want) {
		t.Errorf("SchemaFor() = %+v, want %+v", schema, want)
	}

	if _, err := SchemaFor[string](); !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("non-struct input should fail with ErrInvalidSchema, got %v", err)
	}
}
