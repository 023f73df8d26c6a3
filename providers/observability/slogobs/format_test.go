package slogobs

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"compact", FormatCompact},
		{"PRETTY", FormatPretty},
		{" json ", FormatJSON},
		{"unknown", FormatCompact},
		{"", FormatCompact},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.expected {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestGetFormatFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		reago    string
		generic  string
		expected Format
	}{
		{"REAGO_LOG_FORMAT takes precedence", "pretty", "json", FormatPretty},
		{"fallback to LOG_FORMAT", "", "json", FormatJSON},
		{"default to compact", "", "", FormatCompact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogFormat, tt.reago)
			t.Setenv("LOG_FORMAT", tt.generic)

			if got := GetFormatFromEnv(); got != tt.expected {
				t.Errorf("GetFormatFromEnv() = %v, want %v", got, tt.expected)
			}
		})
	}
}
