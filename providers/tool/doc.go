// Package tool provides the tool registry consumed by the ReAct controller.
//
// A [Registry] maps case-sensitive names to tools. Each tool has an ordered
// parameter [Schema] and a [Handler]. [Registry.Invoke] validates arguments
// against the schema before calling the handler and converts every failure
// into one of the typed errors in this package, so the caller can turn it
// into an observation without inspecting handler internals. Handler panics
// are recovered.
//
// [NewTool] builds a tool from a typed Go function, deriving the schema from
// the input struct's `json` and `jsonschema` tags:
//
//	type Input struct {
//	    X int `json:"x" jsonschema:"description=Column"`
//	    Y int `json:"y" jsonschema:"description=Row"`
//	}
//	scan := tool.MustNewTool("scan", func(ctx context.Context, in Input) (Report, error) { ... },
//	    tool.WithDescription("Scan a sector for hazards"))
//
// Registries are typically filled at startup and then sealed with
// [Registry.Seal], after which they are read-only and shared across episodes.
package tool
