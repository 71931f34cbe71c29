package utils_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vonpupp/ord-plan/pkg/utils"
)

func TestDeferredWriter_Flush(t *testing.T) {
	var w utils.DeferredWriter

	n, err := w.Write([]byte("hello "))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)
	assert.Equal(t, 11, w.Len())

	var out bytes.Buffer
	require.NoError(t, w.Flush(&out))
	assert.Equal(t, "hello world", out.String())
	assert.Equal(t, 0, w.Len())
}

func TestDeferredWriter_FlushEmpty(t *testing.T) {
	var w utils.DeferredWriter
	var out bytes.Buffer
	require.NoError(t, w.Flush(&out))
	assert.Zero(t, out.Len())
}

func TestDeferredWriter_FlushFile(t *testing.T) {
	var w utils.DeferredWriter
	_, err := w.Write([]byte("document body"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "dir", "out.org")
	require.NoError(t, w.FlushFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "document body", string(data))
	assert.Equal(t, 0, w.Len())
}

func TestDeferredWriter_FlushFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.org")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer"), 0o644))

	var w utils.DeferredWriter
	_, err := w.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, w.FlushFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
