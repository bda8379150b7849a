package fileops

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/toyz/decorgen/internal/errors"
)

const (
	// FileMode is used for every generated file
	FileMode os.FileMode = 0o644
	// DirMode is used for every created output directory
	DirMode os.FileMode = 0o755
)

// FileOps provides a unified interface for file operations combining
// path validation, error handling and an afs storage service
type FileOps struct {
	fs            afs.Service
	pathValidator *PathValidator
}

// NewFileOps creates a FileOps instance backed by the default afs service
func NewFileOps() *FileOps {
	return NewFileOpsWithService(afs.New())
}

// NewFileOpsWithService creates a FileOps instance backed by the given service
func NewFileOpsWithService(fs afs.Service) *FileOps {
	return &FileOps{
		fs:            fs,
		pathValidator: NewPathValidator(),
	}
}

// PathValidator returns the path validator instance
func (fo *FileOps) PathValidator() *PathValidator {
	return fo.pathValidator
}

// ReadFile reads a file with path validation and error handling
func (fo *FileOps) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	cleanPath, err := fo.pathValidator.ValidateAndClean(filePath)
	if err != nil {
		return nil, err
	}

	content, err := fo.fs.DownloadWithURL(ctx, cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}
	return content, nil
}

// WriteFile writes content to a file, creating the parent directory when missing
func (fo *FileOps) WriteFile(ctx context.Context, filePath string, content []byte) error {
	cleanPath, err := fo.pathValidator.ValidateAndCleanOptional(filePath)
	if err != nil {
		return err
	}

	if err := fo.EnsureDir(ctx, filepath.Dir(cleanPath)); err != nil {
		return err
	}

	if err := fo.fs.Upload(ctx, cleanPath, FileMode, bytes.NewReader(content)); err != nil {
		return errors.WrapFileSystemError("write", cleanPath, err)
	}
	return nil
}

// EnsureDir creates a directory when it does not exist yet
func (fo *FileOps) EnsureDir(ctx context.Context, dirPath string) error {
	cleanPath, err := fo.pathValidator.ValidateAndCleanOptional(dirPath)
	if err != nil {
		return err
	}

	exists, err := fo.fs.Exists(ctx, cleanPath)
	if err != nil {
		return errors.WrapFileSystemError("check", cleanPath, err)
	}
	if exists {
		return nil
	}

	if err := fo.fs.Create(ctx, cleanPath, DirMode|os.ModeDir, true); err != nil {
		return errors.WrapFileSystemError("create directory", cleanPath, err)
	}
	return nil
}

// RemoveFile removes a file with path validation and error handling
func (fo *FileOps) RemoveFile(ctx context.Context, filePath string) error {
	cleanPath, err := fo.pathValidator.ValidateAndClean(filePath)
	if err != nil {
		return err
	}

	if err := fo.fs.Delete(ctx, cleanPath); err != nil {
		return errors.WrapFileSystemError("remove", cleanPath, err)
	}
	return nil
}

// Exists checks if a path exists
func (fo *FileOps) Exists(ctx context.Context, path string) bool {
	cleanPath, err := fo.pathValidator.ValidateAndCleanOptional(path)
	if err != nil {
		return false
	}
	exists, err := fo.fs.Exists(ctx, cleanPath)
	return err == nil && exists
}

// FileFilter decides whether a visited file is collected
type FileFilter func(path string, info os.FileInfo) bool

// DirectoryFilter decides whether a directory is descended into
type DirectoryFilter func(path string, info os.FileInfo) bool

// WalkOptions configures WalkFiles
type WalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
}

// WalkFiles walks a directory tree and returns the paths of every file the filters accept
func (fo *FileOps) WalkFiles(ctx context.Context, rootDir string, options WalkOptions) ([]string, error) {
	cleanRoot, err := fo.pathValidator.ValidateAndClean(rootDir)
	if err != nil {
		return nil, err
	}

	var matched []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		path := filepath.Join(cleanRoot, filepath.FromSlash(parent), info.Name())
		if info.IsDir() {
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, info) {
				return false, nil
			}
			return true, nil
		}
		if options.FileFilter == nil || options.FileFilter(path, info) {
			matched = append(matched, path)
		}
		return true, nil
	}

	if err := fo.fs.Walk(ctx, cleanRoot, visitor); err != nil {
		return nil, errors.WrapFileSystemError("read directory", cleanRoot, err)
	}
	return matched, nil
}

// PHPFileFilter accepts PHP source files
func PHPFileFilter() FileFilter {
	return func(path string, info os.FileInfo) bool {
		return strings.EqualFold(filepath.Ext(info.Name()), ".php")
	}
}

// DefaultDirectoryFilter skips dependency and hidden directories. Hidden
// directories cover VCS metadata such as .git and .svn.
func DefaultDirectoryFilter() DirectoryFilter {
	skip := map[string]bool{
		"vendor":       true,
		"node_modules": true,
	}
	return func(path string, info os.FileInfo) bool {
		name := info.Name()
		if name != "." && name != ".." && strings.HasPrefix(name, ".") {
			return false
		}
		return !skip[name]
	}
}
