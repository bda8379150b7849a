package fileops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/decorgen/internal/errors"
)

// PathValidator cleans and checks paths before they reach the file store
type PathValidator struct{}

// NewPathValidator creates a new PathValidator instance
func NewPathValidator() *PathValidator {
	return &PathValidator{}
}

// ValidateAndClean validates and cleans a path that must already exist
func (pv *PathValidator) ValidateAndClean(filePath string) (string, error) {
	cleanPath, err := pv.ValidateAndCleanOptional(filePath)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", errors.New(errors.FileSystemErrorCode, "file does not exist: "+cleanPath).
			WithContext("path", cleanPath)
	}

	return cleanPath, nil
}

// ValidateAndCleanOptional validates and cleans a path but doesn't require it to exist
func (pv *PathValidator) ValidateAndCleanOptional(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.New(errors.ValidationErrorCode, "file path cannot be empty")
	}

	cleanPath := filepath.Clean(filePath)

	// .. is only allowed as a leading relative segment
	for i, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." && i > 0 {
			return "", errors.New(errors.ValidationErrorCode, "path traversal not allowed in file path: "+filePath)
		}
	}

	return cleanPath, nil
}

// IsDir checks if a path exists and is a directory
func (pv *PathValidator) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// AbsolutePath resolves a path to its absolute form
func (pv *PathValidator) AbsolutePath(path string) (string, error) {
	cleanPath, err := pv.ValidateAndCleanOptional(path)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve path", cleanPath, err)
	}

	return absPath, nil
}
