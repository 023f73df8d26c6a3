package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var (
	// ErrNoJSON is returned when the content holds nothing that decodes as JSON,
	// even after repair.
	ErrNoJSON = errors.New("no JSON value found")

	// ErrNotObject is returned by ParseObject when the content decodes to a
	// JSON value that is not an object.
	ErrNotObject = errors.New("JSON value is not an object")
)

// ParseStringAs parses content into T.
//
// Primitive kinds (string, bool, integers, floats) are converted directly,
// falling back to a schema-style {"type": ..., "value": ...} envelope.
// Every other kind goes through JSON decoding with these fallbacks, in order:
// the whole content, each balanced JSON candidate found in the text, the
// jsonrepair output of the content, and finally the repaired content with
// schema envelopes unwrapped.
//
//	person, err := ParseStringAs[Person](`{name: 'John', age: 30}`)
//	num, err := ParseStringAs[int]("42")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		err := setPrimitive(target, content)
		if err == nil {
			return result, nil
		}
		if unwrapped, unwrapErr := tryUnwrapPrimitive(content); unwrapErr == nil {
			if setPrimitive(target, unwrapped) == nil {
				return result, nil
			}
		}
		return result, fmt.Errorf("failed to parse content as %s: %w", target.Kind(), err)

	default:
		if err := decodeTolerant(content, &result); err != nil {
			return result, fmt.Errorf("failed to unmarshal content as %T: %w", result, err)
		}
		return result, nil
	}
}

// ParseObject decodes the first JSON object found in content. Markdown code
// fences and surrounding prose are tolerated, and malformed objects are
// repaired before decoding. Schema-style {"type", "value"} envelopes are left
// untouched: arguments are passed through as written.
func ParseObject(content string) (map[string]any, error) {
	content = strings.TrimSpace(StripCodeFence(content))
	if content == "" {
		return nil, ErrNoJSON
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil && obj != nil {
		return obj, nil
	}

	for _, candidate := range extractJSONCandidates(content) {
		if candidate[0] != '{' {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(candidate), &m); err == nil {
			return m, nil
		}
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	var value any
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, jsonKind(value))
	}
	return m, nil
}

// StripCodeFence removes a surrounding markdown code fence (``` or ```json)
// from s. Text outside a fence is returned unchanged.
func StripCodeFence(s string) string {
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	rest := s[start+3:]
	// Skip the language tag on the opening fence line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if !strings.ContainsAny(tag, "{[") {
			rest = rest[nl+1:]
		}
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func decodeTolerant(content string, out any) error {
	err := json.Unmarshal([]byte(content), out)
	if err == nil {
		return nil
	}

	for _, candidate := range extractJSONCandidates(content) {
		if json.Unmarshal([]byte(candidate), out) == nil {
			return nil
		}
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return fmt.Errorf("%w: unmarshal error: %v, repair error: %v", ErrNoJSON, err, repairErr)
	}
	if err = json.Unmarshal([]byte(repaired), out); err == nil {
		return nil
	}

	// Models sometimes echo the schema and fill in "value" fields.
	if unwrapped, unwrapErr := unwrapSchemaValues(repaired); unwrapErr == nil {
		if json.Unmarshal([]byte(unwrapped), out) == nil {
			return nil
		}
	}
	return fmt.Errorf("%w (repaired: %s)", err, repaired)
}

func setPrimitive(v reflect.Value, s string) error {
	s = strings.TrimSpace(s)
	switch v.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}

// extractJSONCandidates returns every balanced {...} or [...] substring of s
// ordered by start offset, nested ones included. Brackets inside JSON strings
// are ignored and unterminated candidates are dropped.
func extractJSONCandidates(s string) []string {
	candidates := []string{}
	for start := 0; start < len(s); start++ {
		if s[start] != '{' && s[start] != '[' {
			continue
		}
		if end := matchBracket(s, start); end > start {
			candidates = append(candidates, s[start:end+1])
		}
	}
	return candidates
}

// matchBracket returns the index of the bracket closing the one at start, or
// -1 when it is never closed or closed by the wrong kind.
func matchBracket(s string, start int) int {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// tryUnwrapPrimitive returns the string form of the "value" in a
// {"type": ..., "value": ...} envelope.
func tryUnwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}
	_, hasType := data["type"]
	value, hasValue := data["value"]
	if !hasType || !hasValue || len(data) != 2 {
		return "", errors.New("not a schema-wrapped value")
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// unwrapSchemaValues rewrites
//
//	{"name": {"type": "string", "value": "John"}}
//
// into
//
//	{"name": "John"}
//
// at any depth.
func unwrapSchemaValues(jsonStr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}
	out, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return recursiveUnwrap(value)
			}
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result
	default:
		return data
	}
}
