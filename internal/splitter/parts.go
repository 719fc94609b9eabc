package splitter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/nxsplit/internal/utils"
)

type indexedPart struct {
	index int
	path  string
}

// ExistingParts lists files named <input basename>.<NN> in the output
// directory (inputPath's directory when outputDir is empty), ordered by index.
func ExistingParts(inputPath, outputDir string) ([]string, error) {
	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, err
	}
	dir, err := utils.DefaultOutputDir(absPath, outputDir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(absPath)
	var found []indexedPart
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, base) {
			continue
		}
		matches := utils.PartIDRegex.FindStringSubmatch(name[len(base):])
		if len(matches) < 2 {
			continue
		}
		index, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		found = append(found, indexedPart{index: index, path: filepath.Join(dir, name)})
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].index < found[j].index
	})
	paths := make([]string, len(found))
	for i, part := range found {
		paths[i] = part.path
	}
	return paths, nil
}

// RemoveParts deletes the parts ExistingParts finds. The input file itself is
// never touched.
func RemoveParts(inputPath, outputDir string) (int, error) {
	parts, err := ExistingParts(inputPath, outputDir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, part := range parts {
		if err := os.Remove(part); err != nil {
			return removed, fmt.Errorf("error removing %s: %v", part, err)
		}
		removed++
		log.Debug().Str("op", "splitter/parts").Msgf("removed %s", filepath.Base(part))
	}
	return removed, nil
}
