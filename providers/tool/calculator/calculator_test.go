package calculator

import (
	"context"
	"errors"
	"testing"

	"github.com/leofalp/reago/providers/tool"
)

func TestCalc(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want float64
	}{
		{"add", Input{A: 3, B: 4, Op: "add"}, 7},
		{"plus symbol", Input{A: 1.5, B: 2.5, Op: "+"}, 4},
		{"sub", Input{A: 3, B: 4, Op: "sub"}, -1},
		{"mul", Input{A: -2, B: 4, Op: "mul"}, -8},
		{"div", Input{A: 10, B: 4, Op: "div"}, 2.5},
		{"pow", Input{A: 2, B: 10, Op: "pow"}, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Calc(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Result != tt.want {
				t.Errorf("Result = %v, want %v", out.Result, tt.want)
			}
		})
	}
}

func TestCalc_Errors(t *testing.T) {
	if _, err := Calc(context.Background(), Input{A: 1, B: 0, Op: "div"}); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
	if _, err := Calc(context.Background(), Input{A: 1, B: 1, Op: "mod"}); err == nil {
		t.Error("expected error for unsupported op")
	}
}

func TestNew_ThroughRegistry(t *testing.T) {
	r, err := tool.NewRegistryWithTools(New())
	if err != nil {
		t.Fatal(err)
	}

	res, err := r.Invoke(context.Background(), Name, tool.Arguments{"a": 6.0, "b": 7.0, "op": "mul"})
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if res.Text != `{"result":42}` {
		t.Errorf("Text = %s", res.Text)
	}

	_, err = r.Invoke(context.Background(), Name, tool.Arguments{"a": 1.0, "b": 0.0, "op": "div"})
	if !errors.Is(err, tool.ErrToolExecution) || !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("division by zero should surface as execution error, got %v", err)
	}

	_, err = r.Invoke(context.Background(), Name, tool.Arguments{"a": 1.0, "b": 2.0, "op": "mod"})
	if !errors.Is(err, tool.ErrInvalidArguments) {
		t.Errorf("op outside enum should be invalid arguments, got %v", err)
	}
}
