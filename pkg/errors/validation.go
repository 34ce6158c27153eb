package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// maxNodeNameLength bounds node names read from scene files and flags.
const maxNodeNameLength = 256

// ValidateNodeName rejects empty, overlong and comma-bearing names and
// names with control characters. Commas separate names in rig selections.
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	if len(name) > maxNodeNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", maxNodeNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}

	if strings.Contains(name, ",") {
		return New(ErrCodeInvalidInput, "node name cannot contain commas: %q", name)
	}

	return nil
}

// sceneExtensions lists the file extensions recognized as scene documents.
var sceneExtensions = map[string]bool{
	".json": true,
	".toml": true,
	".yaml": true,
	".yml":  true,
}

// ValidateScenePath validates the path of a scene document.
// The extension selects the encoding, so it must be one of
// .json, .toml, .yaml or .yml.
func ValidateScenePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "scene path cannot be empty")
	}

	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "scene path contains a NUL byte")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !sceneExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported scene extension %q (want .json, .toml, .yaml)", ext)
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values for the named parameter.
func ValidateFinite(param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", param, v)
	}
	return nil
}
