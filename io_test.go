// FILE: lixenwraith/libconfig/io_test.go
package libconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		d := New()
		_, err := d.Root().AddInt32("kept", 1)
		require.NoError(t, err)

		err = d.ParseFile(filepath.Join(dir, "missing.cfg"))
		assert.ErrorIs(t, err, ErrFileNotFound)
		assert.NotErrorIs(t, err, ErrParse)
		assert.Equal(t, int32(1), d.Value("kept").AsInt32Or(0), "document untouched")
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(dir, "bad.cfg")
		writeFile(t, path, "a = 1;\nb = [1, \"two\"];\n")

		d := New()
		err := d.ParseFile(path)
		require.ErrorIs(t, err, ErrParse)
		assert.NotErrorIs(t, err, ErrFileNotFound)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, path, pe.File)
		assert.Equal(t, 2, pe.Line)
		assert.Contains(t, pe.Error(), path)
		assert.Empty(t, d.File())
	})

	t.Run("IncludeRelativeToFile", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "conf", "main.cfg"), "@include \"parts/db.cfg\"\nname = \"app\";\n")
		writeFile(t, filepath.Join(dir, "conf", "parts", "db.cfg"), "db = { host = \"localhost\"; port = 5432; };\n")

		d, err := Load(filepath.Join(dir, "conf", "main.cfg"))
		require.NoError(t, err)
		assert.Equal(t, int32(5432), d.Value("db.port").AsInt32Or(0))
		assert.Equal(t, filepath.Join(dir, "conf", "parts", "db.cfg"), d.Value("db.port").SourceFile())
		assert.Equal(t, 2, d.Value("name").SourceLine())
	})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	d, err := FromString(`a = 1;`)
	require.NoError(t, err)

	t.Run("Atomic", func(t *testing.T) {
		path := filepath.Join(dir, "out.cfg")
		require.NoError(t, d.WriteFile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a = 1;\n", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temp files left behind")
	})

	t.Run("Unwritable", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		writeFile(t, blocker, "")
		err := d.WriteFile(filepath.Join(blocker, "out.cfg"))
		assert.ErrorIs(t, err, ErrWrite)
	})

	t.Run("UnsetRootWritesEmpty", func(t *testing.T) {
		broken := New()
		require.Error(t, broken.Parse("a ="))
		path := filepath.Join(dir, "empty.cfg")
		require.NoError(t, broken.WriteFile(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}
