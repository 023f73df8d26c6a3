package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type greetInput struct {
	Name  string `json:"name" jsonschema:"description=Who to greet"`
	Times int    `json:"times,omitempty" jsonschema:"enum=1,enum=2"`
}

type greetOutput struct {
	Message string `json:"message"`
}

func greet(_ context.Context, in greetInput) (greetOutput, error) {
	if in.Name == "error" {
		return greetOutput{}, errors.New("refusing to greet")
	}
	times := in.Times
	if times == 0 {
		times = 1
	}
	return greetOutput{Message: strings.Repeat("hi "+in.Name+" ", times)}, nil
}

func TestNewTool_DerivesSchema(t *testing.T) {
	tl, err := NewTool("greet", greet, WithDescription("Say hello"))
	if err != nil {
		t.Fatal(err)
	}
	if tl.Description != "Say hello" {
		t.Errorf("Description = %q", tl.Description)
	}
	if len(tl.Schema) != 2 || tl.Schema[0].Name != "name" || !tl.Schema[0].Required {
		t.Fatalf("unexpected schema %+v", tl.Schema)
	}
	if tl.Schema[1].Required || len(tl.Schema[1].Enum) != 2 {
		t.Errorf("times should be optional with an enum: %+v", tl.Schema[1])
	}
}

func TestNewTool_InvokeThroughRegistry(t *testing.T) {
	r, err := NewRegistryWithTools(MustNewTool("greet", greet))
	if err != nil {
		t.Fatal(err)
	}

	res, err := r.Invoke(context.Background(), "greet", Arguments{"name": "Ada", "times": 2.0})
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if res.Text != `{"message":"hi Ada hi Ada "}` {
		t.Errorf("Text = %s", res.Text)
	}
	if out, ok := res.Value.(greetOutput); !ok || out.Message == "" {
		t.Errorf("Value = %#v", res.Value)
	}

	_, err = r.Invoke(context.Background(), "greet", Arguments{"name": "Ada", "times": 3.0})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("enum violation should be invalid arguments, got %v", err)
	}

	_, err = r.Invoke(context.Background(), "greet", Arguments{"name": "error"})
	var exec *ToolExecutionError
	if !errors.As(err, &exec) || !strings.Contains(exec.Cause.Error(), "refusing") {
		t.Errorf("handler error should be wrapped, got %v", err)
	}
}

func TestNewTool_NonStructInput(t *testing.T) {
	_, err := NewTool("bad", func(context.Context, string) (string, error) { return "", nil })
	if !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustNewTool should panic on invalid input type")
		}
	}()
	MustNewTool("bad", func(context.Context, string) (string, error) { return "", nil })
}

func TestNewTool_DecodeFailureIsInvalidArguments(t *testing.T) {
	type small struct {
		N int8 `json:"n"`
	}
	tl := MustNewTool("small", func(_ context.Context, in small) (int8, error) { return in.N, nil })
	r, _ := NewRegistryWithTools(tl)

	_, err := r.Invoke(context.Background(), "small", Arguments{"n": 1000.0})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("overflowing int8 should be invalid arguments, got %v", err)
	}
}
