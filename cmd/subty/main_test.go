package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPiped(t *testing.T) {
	t.Parallel()
	rd, wr, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = wr.Close() }()
	assert.True(t, piped(rd))
	require.NoError(t, rd.Close())
	assert.False(t, piped(rd), "a closed file cannot be inspected")

	file, err := os.Create(filepath.Join(t.TempDir(), "script.subty"))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()
	assert.True(t, piped(file))
}
