package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatTable},
		{"table", FormatTable},
		{"JSON", FormatJSON},
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
		{"xml", Format("xml")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.in))
		})
	}
}

func TestFormatIsValid(t *testing.T) {
	for _, f := range ValidFormats() {
		assert.True(t, Format(f).IsValid(), f)
	}
	assert.False(t, Format("xml").IsValid())
}
