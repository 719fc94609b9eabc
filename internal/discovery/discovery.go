// Package discovery turns command line paths into the list of files to split.
package discovery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/nxsplit/internal/utils"
)

var ErrNoTargets = errors.New("no input paths provided")

// Targets resolves paths into absolute file paths, preserving order and
// dropping duplicates. Directories contribute their supported files (walked
// when recursive is set). Files and missing paths pass through untouched so
// the splitter can report them individually.
func Targets(paths []string, recursive bool) ([]string, error) {
	if len(paths) == 0 {
		return nil, ErrNoTargets
	}
	var targets []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			targets = append(targets, path)
		}
	}
	for _, raw := range paths {
		path, err := filepath.Abs(expandHome(raw))
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			add(path)
			continue
		}
		found, err := scanDir(path, recursive)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("op", "discovery/targets").Msgf("found %d files in %s", len(found), path)
		for _, file := range found {
			add(file)
		}
	}
	return targets, nil
}

// expandHome resolves a leading ~ the way a shell would, for paths read from
// batch files or prompts.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func scanDir(root string, recursive bool) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && utils.IsSupportedFile(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}
