package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/toyz/decorgen/internal/templates"
	"github.com/toyz/decorgen/internal/utils/fileops"
)

// markerWindow is how far into a file the generated marker is looked for
const markerWindow = 512

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileOps *fileops.FileOps
	logger  *zerolog.Logger
}

// NewCleaner creates a new cleaner. A nil logger discards output.
func NewCleaner(fileOps *fileops.FileOps, logger *zerolog.Logger) *Cleaner {
	if fileOps == nil {
		fileOps = fileops.NewFileOps()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Cleaner{fileOps: fileOps, logger: logger}
}

// CleanGeneratedFiles removes every PHP file carrying the generated marker
// from the given directories and returns the removed paths. A directory
// ending in "/..." is cleaned recursively; missing directories are skipped.
func (c *Cleaner) CleanGeneratedFiles(ctx context.Context, directories []string) ([]string, error) {
	var removed []string

	for _, dir := range directories {
		files, err := c.candidates(ctx, dir)
		if err != nil {
			return removed, err
		}
		for _, file := range files {
			generated, err := c.isGenerated(ctx, file)
			if err != nil {
				return removed, err
			}
			if !generated {
				continue
			}
			if err := c.fileOps.RemoveFile(ctx, file); err != nil {
				return removed, err
			}
			c.logger.Debug().Str("file", file).Msg("removed generated file")
			removed = append(removed, file)
		}
	}

	return removed, nil
}

// candidates lists the PHP files of dir, recursing only for "dir/..."
func (c *Cleaner) candidates(ctx context.Context, dir string) ([]string, error) {
	recursive := strings.HasSuffix(dir, "/...")
	if recursive {
		dir = strings.TrimSuffix(dir, "/...")
	}
	if dir == "" {
		dir = "."
	}
	if !c.fileOps.Exists(ctx, dir) {
		c.logger.Debug().Str("dir", dir).Msg("skipping missing directory")
		return nil, nil
	}

	root := filepath.Clean(dir)
	dirFilter := fileops.DefaultDirectoryFilter()
	return c.fileOps.WalkFiles(ctx, dir, fileops.WalkOptions{
		FileFilter: fileops.PHPFileFilter(),
		DirectoryFilter: func(path string, info os.FileInfo) bool {
			if filepath.Clean(path) == root {
				return true
			}
			return recursive && dirFilter(path, info)
		},
	})
}

func (c *Cleaner) isGenerated(ctx context.Context, file string) (bool, error) {
	content, err := c.fileOps.ReadFile(ctx, file)
	if err != nil {
		return false, err
	}
	if len(content) > markerWindow {
		content = content[:markerWindow]
	}
	return bytes.Contains(content, []byte(templates.GeneratedMarker)), nil
}
