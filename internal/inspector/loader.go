package inspector

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/utils/fileops"
)

// LoadOptions controls source scanning
type LoadOptions struct {
	IncludeVendor bool // descend into vendor/ directories
}

// LoadStats summarizes a load
type LoadStats struct {
	Files   int // files parsed
	Skipped int // files skipped because they failed to parse
	Types   int // types added to the index
}

// Loader fills an Index from PHP source roots and descriptor files
type Loader struct {
	fileOps *fileops.FileOps
	php     *PHPInspector
	logger  *zerolog.Logger
}

// NewLoader creates a loader; a nil logger discards output
func NewLoader(fileOps *fileops.FileOps, logger *zerolog.Logger) *Loader {
	if fileOps == nil {
		fileOps = fileops.NewFileOps()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Loader{
		fileOps: fileOps,
		php:     NewPHPInspector(fileOps, logger),
		logger:  logger,
	}
}

// PHP returns the underlying source inspector
func (l *Loader) PHP() *PHPInspector {
	return l.php
}

// LoadSources parses every PHP file under the given roots (a root may also be
// a single file). Files that fail to parse are logged and skipped.
func (l *Loader) LoadSources(ctx context.Context, index *Index, roots []string, options LoadOptions) (LoadStats, error) {
	var stats LoadStats

	dirFilter := fileops.DefaultDirectoryFilter()
	if options.IncludeVendor {
		base := dirFilter
		dirFilter = func(path string, info os.FileInfo) bool {
			return info.Name() == "vendor" || base(path, info)
		}
	}

	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}

		files := []string{root}
		if l.fileOps.PathValidator().IsDir(root) {
			var err error
			files, err = l.fileOps.WalkFiles(ctx, root, fileops.WalkOptions{
				FileFilter:      fileops.PHPFileFilter(),
				DirectoryFilter: dirFilter,
			})
			if err != nil {
				return stats, err
			}
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			types, err := l.php.InspectFile(ctx, file)
			if err != nil {
				if errors.CodeOf(err) == errors.SyntaxErrorCode {
					stats.Skipped++
					l.logger.Warn().Err(err).Str("file", file).Msg("skipping unparsable file")
					continue
				}
				return stats, err
			}
			stats.Files++
			stats.Types += len(types)
			index.Add(types...)
		}
	}

	l.logger.Debug().
		Int("files", stats.Files).
		Int("skipped", stats.Skipped).
		Int("types", stats.Types).
		Msg("sources loaded")
	return stats, nil
}

// LoadDescriptors reads YAML or JSON descriptor files into the index
func (l *Loader) LoadDescriptors(ctx context.Context, index *Index, files []string) (LoadStats, error) {
	var stats LoadStats
	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		data, err := l.fileOps.ReadFile(ctx, file)
		if err != nil {
			return stats, err
		}
		doc, err := ParseDescriptor(filepath.Base(file), data)
		if err != nil {
			return stats, err
		}
		types, err := doc.SourceTypes(file)
		if err != nil {
			return stats, err
		}
		stats.Files++
		stats.Types += len(types)
		index.Add(types...)
	}
	return stats, nil
}
