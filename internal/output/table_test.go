package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableString(t *testing.T) {
	tbl := NewTable("BUNDLE", "STATE").
		Row("characters", "loaded").
		Row("levels", "failed")

	out := tbl.String()
	assert.Len(t, tbl.rows, 2)
	assert.Contains(t, out, "BUNDLE")
	assert.Contains(t, out, "characters")
	assert.Contains(t, out, "failed")
}
