package utils

import (
	"path/filepath"
	"slices"
	"strings"
)

func IsSupportedFile(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// DefaultOutputDir returns outputDir, or the directory holding inputPath when unset.
func DefaultOutputDir(inputPath, outputDir string) (string, error) {
	if outputDir == "" {
		return filepath.Dir(inputPath), nil
	}
	return filepath.Abs(outputDir)
}
