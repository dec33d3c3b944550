package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := CleanPath("")
		assert.ErrorIs(t, err, ErrUnsafePath)
	})

	t.Run("rejects shell metacharacters", func(t *testing.T) {
		for _, char := range forbiddenChars {
			_, err := CleanPath("/tmp/schedly" + string(char) + ".db")
			assert.ErrorIs(t, err, ErrUnsafePath, "character %q", char)
		}
	})

	t.Run("makes relative paths absolute", func(t *testing.T) {
		result, err := CleanPath("data/schedly.db")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(result))
		assert.True(t, filepath.Base(result) == "schedly.db")
	})

	t.Run("removes traversal segments", func(t *testing.T) {
		dir := t.TempDir()
		result, err := CleanPath(filepath.Join(dir, "sub", "..", "schedly.db"))
		require.NoError(t, err)
		assert.NotContains(t, result, "..")
	})

	t.Run("resolves symlinks of existing files", func(t *testing.T) {
		dir := t.TempDir()
		real := filepath.Join(dir, "real.db")
		require.NoError(t, os.WriteFile(real, nil, 0o600))
		link := filepath.Join(dir, "link.db")
		require.NoError(t, os.Symlink(real, link))

		result, err := CleanPath(link)
		require.NoError(t, err)
		expected, _ := filepath.EvalSymlinks(real)
		assert.Equal(t, expected, result)
	})
}

func TestCleanPathInDir(t *testing.T) {
	dir := t.TempDir()

	inside, err := CleanPathInDir(filepath.Join(dir, "schedly.db"), dir)
	require.NoError(t, err)
	assert.Equal(t, "schedly.db", filepath.Base(inside))

	_, err = CleanPathInDir(filepath.Join(dir, "..", "escape.db"), dir)
	assert.ErrorIs(t, err, ErrUnsafePath)

	// A sibling sharing the prefix is outside.
	_, err = CleanPathInDir(dir+"-other/schedly.db", dir)
	assert.ErrorIs(t, err, ErrUnsafePath)

	_, err = CleanPathInDir("schedly.db", "")
	assert.ErrorIs(t, err, ErrUnsafePath)
}
