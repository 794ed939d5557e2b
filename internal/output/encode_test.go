package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encodeSample struct {
	Name  string `json:"name"`
	Bytes int64  `json:"bytes,omitempty"`
}

func TestWriteStructured_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStructured(&buf, FormatJSON, []encodeSample{{Name: "a", Bytes: 3}}))

	var got []encodeSample
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a", got[0].Name)
}

func TestWriteStructured_YAMLUsesJSONTags(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStructured(&buf, FormatYAML, encodeSample{Name: "a"}))

	assert.Contains(t, buf.String(), "name: a")
	assert.NotContains(t, buf.String(), "bytes", "omitempty should be honoured")
}

func TestWriteStructured_RejectsTable(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteStructured(&buf, FormatTable, encodeSample{}))
}
