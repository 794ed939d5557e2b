package output

import "strings"

// Format specifies a report output format.
type Format string

const (
	// FormatTable outputs a styled table.
	FormatTable Format = "table"

	// FormatJSON outputs indented JSON.
	FormatJSON Format = "json"

	// FormatYAML outputs YAML.
	FormatYAML Format = "yaml"
)

// String returns the string representation of the output format.
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the output format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseFormat parses a string into a Format.
// Unknown values are returned as-is so callers can reject them with IsValid.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	default:
		return Format(s)
	}
}

// ValidFormats returns a slice of valid output format strings.
func ValidFormats() []string {
	return []string{"table", "json", "yaml"}
}
