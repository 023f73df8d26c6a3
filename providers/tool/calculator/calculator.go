package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/leofalp/reago/providers/tool"
)

// Name is the registry key of the calculator tool.
const Name = "calculator"

// ErrDivisionByZero is returned for "div" with b == 0.
var ErrDivisionByZero = errors.New("division by zero")

// Input holds the two operands and the operation to be applied by [Calc].
type Input struct {
	A  float64 `json:"a"  jsonschema:"description=First operand"`
	B  float64 `json:"b"  jsonschema:"description=Second operand"`
	Op string  `json:"op" jsonschema:"description=Operation,enum=add,enum=sub,enum=mul,enum=div,enum=pow"`
}

// Output carries the result of [Calc].
type Output struct {
	Result float64 `json:"result"`
}

// New returns the calculator tool.
func New() *tool.Tool {
	return tool.MustNewTool(Name, Calc,
		tool.WithDescription("Basic arithmetic on two numbers: add, sub, mul, div or pow."))
}

// Calc applies in.Op to in.A and in.B. Division by zero and unknown
// operations are errors, so the agent sees them as failed observations.
func Calc(_ context.Context, in Input) (Output, error) {
	var result float64
	switch in.Op {
	case "add", "+":
		result = in.A + in.B
	case "sub", "-":
		result = in.A - in.B
	case "mul", "*":
		result = in.A * in.B
	case "div", "/":
		if in.B == 0 {
			return Output{}, ErrDivisionByZero
		}
		result = in.A / in.B
	case "pow", "^":
		result = math.Pow(in.A, in.B)
	default:
		return Output{}, fmt.Errorf("unsupported operation %q", in.Op)
	}
	return Output{Result: result}, nil
}
