package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTypes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTypes(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 15)
	assert.Equal(t, []string{"TYPE", "SIZE", "RECORD", "COLUMN", "IMAGE", "BITPIX"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"int16", "2", "21", "1I", "21", "16"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"string", "1", "16", "1A", "-", "-"}, strings.Fields(lines[14]))
}
