package utils

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength is the truncation length used for log attributes.
const DefaultMaxStringLength = 500

// JSONToString encodes object as compact JSON, or indented JSON when indent
// is true. Marshal failures come back as a JSON error object so the result
// can always go into a log record.
func JSONToString(object any, indent ...bool) string {
	var (
		encoded []byte
		err     error
	)
	if len(indent) > 0 && indent[0] {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return JSONToString(map[string]string{"error": "failed to marshal to JSON: " + err.Error()})
	}
	return string(encoded)
}

// Stringify renders a tool result as observation text: text-like values
// verbatim, nil as "", anything else as compact JSON.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.RawMessage:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return JSONToString(v)
	}
}

// TruncateString keeps the first maxLen runes of s and notes the original
// rune count. maxLen <= 0 means DefaultMaxStringLength.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	total := utf8.RuneCountInString(s)
	if total <= maxLen {
		return s
	}
	cut, n := 0, 0
	for i := range s {
		if n == maxLen {
			cut = i
			break
		}
		n++
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], total)
}

// TruncateStringDefault is TruncateString(s, DefaultMaxStringLength).
func TruncateStringDefault(s string) string {
	return TruncateString(s, DefaultMaxStringLength)
}
