package slogobs

import (
	"os"
	"strings"
)

// Environment variables read by the default configuration.
const (
	EnvLogLevel  = "REAGO_LOG_LEVEL"
	EnvLogFormat = "REAGO_LOG_FORMAT"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is one line per record with attributes as a JSON object:
	//   2026-10-17 10:40:35  INFO episode finished | {"episode.outcome":"success"}
	FormatCompact Format = "compact"

	// FormatPretty prints the message line followed by one indented
	// "key = value" line per attribute, keys sorted.
	FormatPretty Format = "pretty"

	// FormatJSON is one JSON object per record, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat parses a format string. Unknown values give FormatCompact.
func ParseFormat(s string) Format {
	switch Format(strings.TrimSpace(strings.ToLower(s))) {
	case FormatPretty:
		return FormatPretty
	case FormatJSON:
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads REAGO_LOG_FORMAT, then LOG_FORMAT, defaulting to
// FormatCompact.
func GetFormatFromEnv() Format {
	if format := os.Getenv(EnvLogFormat); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
