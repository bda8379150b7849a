package generator

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/toyz/decorgen/internal/errors"
)

// languageLevel gates syntax the target PHP version cannot parse.
// The zero value accepts everything.
type languageLevel struct {
	version string // semver form, e.g. v7.4
}

func parseLanguageLevel(version string) (languageLevel, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return languageLevel{}, nil
	}
	v := "v" + strings.TrimPrefix(version, "v")
	if !semver.IsValid(v) {
		return languageLevel{}, errors.ValidationError("php_version", "a version such as 7.4 or 8.1", version).
			WithSuggestions("Leave php_version empty to emit the newest syntax")
	}
	return languageLevel{version: v}, nil
}

// atLeast reports whether the target supports syntax introduced in version
func (l languageLevel) atLeast(version string) bool {
	if l.version == "" {
		return true
	}
	return semver.Compare(l.version, "v"+version) >= 0
}

func (l languageLevel) String() string {
	if l.version == "" {
		return "latest"
	}
	return strings.TrimPrefix(l.version, "v")
}
