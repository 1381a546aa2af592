package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUnderBaseDir(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base)

	path, err := w.Write("report.html", []byte("<!DOCTYPE html>"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "report.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html>", string(data))
}

func TestWriteCreatesIntermediateDirs(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base)

	path, err := w.Write(filepath.Join("nested", "deep", "report.html"), []byte("x"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriteAbsolutePathBypassesBase(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()
	w := NewWriter(base)

	target := filepath.Join(other, "report.html")
	path, err := w.Write(target, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, target, path)
}

func TestWriteOverwritesExisting(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base)

	_, err := w.Write("report.html", []byte("first"))
	require.NoError(t, err)
	path, err := w.Write("report.html", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriteFailure(t *testing.T) {
	base := t.TempDir()
	// Make the base directory read-only so the write fails.
	blocked := filepath.Join(base, "blocked")
	require.NoError(t, os.MkdirAll(blocked, 0555))

	w := NewWriter(blocked)
	_, err := w.Write("report.html", []byte("x"))
	if os.Getuid() == 0 {
		t.Skip("running as root, permissions not enforced")
	}
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	w := NewWriter("reports")
	assert.Equal(t, filepath.Join("reports", "a.html"), w.Resolve("a.html"))
	assert.Equal(t, "/tmp/a.html", w.Resolve("/tmp/a.html"))

	empty := NewWriter("")
	assert.Equal(t, "a.html", empty.Resolve("a.html"))
}
