// Package jsonschema derives tool parameter lists from Go struct types using
// reflection, and renders them as JSON Schema documents for prompts.
//
// [Fields] walks the exported top-level fields of a struct in declaration
// order, honouring `json` names and the `jsonschema` tag
// (description=..., enum=..., required). [FromFields] turns such a list back
// into a [Schema] object suitable for serialising into a tool description.
package jsonschema
