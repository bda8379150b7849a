package fileops

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOps_WriteReadRemove(t *testing.T) {
	ctx := context.Background()
	fo := NewFileOps()
	path := filepath.Join(t.TempDir(), "nested", "out", "LoggerDecorator.php")

	require.NoError(t, fo.WriteFile(ctx, path, []byte("<?php\n")))
	assert.True(t, fo.Exists(ctx, path))

	content, err := fo.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "<?php\n", string(content))

	require.NoError(t, fo.RemoveFile(ctx, path))
	assert.False(t, fo.Exists(ctx, path))
}

func TestFileOps_ReadMissing(t *testing.T) {
	_, err := NewFileOps().ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.php"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
}

func TestPathValidator(t *testing.T) {
	pv := NewPathValidator()

	_, err := pv.ValidateAndCleanOptional("")
	assert.Error(t, err)

	clean, err := pv.ValidateAndCleanOptional("out/./gen//")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("out/gen"), clean)

	clean, err = pv.ValidateAndCleanOptional("../shared")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("../shared"), clean)
}

func TestFileOps_WalkFiles(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"src/Logger.php":            "<?php",
		"src/Mail/Mailer.PHP":       "<?php",
		"src/readme.md":             "# docs",
		"vendor/psr/log/Logger.php": "<?php",
		".git/hooks/pre-commit.php": "<?php",
		"tests/LoggerTest.php":      "<?php",
		"src/cache/Store.php":       "<?php",
		"src/var/Dumper.php":        "<?php",
		"node_modules/x/y.php":      "<?php",
		".svn/pristine/a.php":       "<?php",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	got, err := NewFileOps().WalkFiles(context.Background(), root, WalkOptions{
		FileFilter:      PHPFileFilter(),
		DirectoryFilter: DefaultDirectoryFilter(),
	})
	require.NoError(t, err)

	for i := range got {
		rel, err := filepath.Rel(root, got[i])
		require.NoError(t, err)
		got[i] = filepath.ToSlash(rel)
	}
	sort.Strings(got)

	assert.Equal(t, []string{
		"src/Logger.php",
		"src/Mail/Mailer.PHP",
		"src/cache/Store.php",
		"src/var/Dumper.php",
		"tests/LoggerTest.php",
	}, got)
}
