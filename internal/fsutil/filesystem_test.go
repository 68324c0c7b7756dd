package fsutil

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fsys FileSystem, name string, data []byte) {
	t.Helper()
	w, err := fsys.Create(name)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestFileSystems(t *testing.T) {
	for name, fsys := range map[string]FileSystem{
		"os":     OSFileSystem{},
		"memory": NewMemoryFileSystem(),
	} {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "plots", "2026")
			path := filepath.Join(dir, "heat.png")

			assert.False(t, fsys.Exists(path))
			require.NoError(t, fsys.MkdirAll(dir, 0o755))
			assert.True(t, fsys.Exists(dir))

			writeFile(t, fsys, path, []byte("first"))
			writeFile(t, fsys, path, []byte("second"))

			got, err := fsys.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "second", string(got))
			assert.True(t, fsys.Exists(path))

			_, err = fsys.ReadFile(filepath.Join(dir, "missing.png"))
			assert.ErrorIs(t, err, fs.ErrNotExist)
		})
	}
}

func TestMemoryFileSystem_VisibleOnClose(t *testing.T) {
	m := NewMemoryFileSystem()

	w, err := m.Create("a/b.png")
	require.NoError(t, err)
	_, err = w.Write([]byte("png"))
	require.NoError(t, err)

	got, err := m.ReadFile("a/b.png")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, w.Close())
	got, err = m.ReadFile("a/./b.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))
	assert.Equal(t, []string{"a/b.png"}, m.Files())
}

func TestMemoryFileSystem_ReadReturnsCopy(t *testing.T) {
	m := NewMemoryFileSystem()
	writeFile(t, m, "x", []byte("abc"))

	got, err := m.ReadFile("x")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := m.ReadFile("x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
