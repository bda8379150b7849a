package fileops

import (
	"context"
	"path/filepath"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/utils"
)

// StoreResult describes what Store did with one file
type StoreResult struct {
	Path     string
	Checksum uint64
	Written  bool // content was written
	Stale    bool // the file on disk was missing or differed
}

// Store persists generated files, skipping writes whose content is unchanged
type Store struct {
	fileOps *FileOps
}

// NewStore creates a store on top of fo
func NewStore(fo *FileOps) *Store {
	if fo == nil {
		fo = NewFileOps()
	}
	return &Store{fileOps: fo}
}

// Store writes content to <dir>/<fileName>. With checkOnly set nothing is
// written and the result only reports whether the file is stale.
func (s *Store) Store(ctx context.Context, dir, fileName, content string, checkOnly bool) (StoreResult, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fileName)

	sum, err := utils.Checksum([]byte(content))
	if err != nil {
		return StoreResult{}, errors.WrapFileSystemError("checksum", path, err)
	}
	result := StoreResult{Path: path, Checksum: sum, Stale: true}

	if s.fileOps.Exists(ctx, path) {
		existing, err := s.fileOps.ReadFile(ctx, path)
		if err != nil {
			return result, err
		}
		current, err := utils.Checksum(existing)
		if err != nil {
			return result, errors.WrapFileSystemError("checksum", path, err)
		}
		result.Stale = current != sum || len(existing) != len(content)
	}

	if checkOnly || !result.Stale {
		return result, nil
	}

	if err := s.fileOps.WriteFile(ctx, path, []byte(content)); err != nil {
		return result, err
	}
	result.Written = true
	return result, nil
}
