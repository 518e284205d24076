// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.hcl", "a.hcl", "notes.txt", filepath.Join("nested", "c.hcl")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# test"), 0o644))
	}

	t.Run("directory is walked and sorted", func(t *testing.T) {
		files, err := FindFilesByExtension(dir, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.hcl"),
			filepath.Join(dir, "b.hcl"),
			filepath.Join(dir, "nested", "c.hcl"),
		}, files)
	})

	t.Run("single file", func(t *testing.T) {
		files, err := FindFilesByExtension(filepath.Join(dir, "a.hcl"), ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.hcl")}, files)
	})

	t.Run("single file with another extension", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(dir, "notes.txt"), ".hcl")
		require.Error(t, err)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(dir, "missing"), ".hcl")
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFilesByExtension(dir, "") })
	})
}
