// Package parse recovers structured data from free-form model output.
//
// Model text often wraps JSON in prose or markdown code fences, uses
// single quotes or trailing commas, or echoes schema envelopes. The helpers
// here look for balanced JSON candidates first, then fall back to
// jsonrepair, then to schema unwrapping, before giving up.
//
// [ParseObject] is what the action parser uses for tool arguments;
// [ParseStringAs] is the generic form for callers that know their target type.
package parse
