package splitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/nxsplit/internal/size"
	"github.com/tanq16/nxsplit/internal/utils"
)

// PartCount returns ceil(total/chunk). An empty input still gets one part so
// the naming convention holds.
func PartCount(total, chunk int64) int {
	if total <= 0 {
		return 1
	}
	count := total / chunk
	if total%chunk != 0 {
		count++
	}
	return int(count)
}

// IndexWidth is the zero-padded index width for count parts, never below two.
func IndexWidth(count int) int {
	return max(2, len(strconv.Itoa(count-1)))
}

func PartName(base string, index, width int) string {
	return fmt.Sprintf("%s.%0*d", base, width, index)
}

// Plan validates inputPath and lays out its parts without reading the input.
// Outside dry-run the output directory is created.
func Plan(inputPath string, cfg Config) (*Job, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", size.ErrNonPositiveSize, cfg.ChunkSize)
	}
	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	if !utils.IsSupportedFile(absPath) {
		return nil, fmt.Errorf("%w: %s is not an nsp, nsz or xci file", ErrUnsupportedFile, filepath.Base(absPath))
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrUnsupportedFile, absPath)
	}

	outputDir, err := utils.DefaultOutputDir(absPath, cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDirNotWritable, err)
	}
	if !cfg.DryRun {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOutputDirNotWritable, err)
		}
	}

	total := info.Size()
	count := PartCount(total, cfg.ChunkSize)
	base := filepath.Base(absPath)
	if count > utils.MaxParts {
		return nil, fmt.Errorf("%w: %s would need %d parts of %s, limit is %d", ErrTooManyParts, base, count, size.Format(cfg.ChunkSize), utils.MaxParts)
	}
	id := uuid.NewString()
	logger := log.With().Str("op", "splitter/plan").Str("job", id).Logger()
	width := IndexWidth(count)
	if width > 2 {
		logger.Warn().Msgf("%s needs %d parts; indexes past .99 may not be read by every installer", base, count)
	}
	job := &Job{
		ID:        id,
		InputPath: absPath,
		TotalSize: total,
		ChunkSize: cfg.ChunkSize,
		OutputDir: outputDir,
		Parts:     make([]Part, count),
	}
	for i := range count {
		partPath := filepath.Join(outputDir, PartName(base, i, width))
		job.Parts[i] = Part{
			Index: i,
			Path:  partPath,
			Size:  min(cfg.ChunkSize, total-int64(i)*cfg.ChunkSize),
		}
		if _, err := os.Lstat(partPath); err == nil {
			job.Existing = append(job.Existing, partPath)
		}
	}
	job.Stale = staleParts(job)
	if len(job.Stale) > 0 {
		logger.Warn().Msgf("%s has %d parts from an earlier split that are not part of this layout", base, len(job.Stale))
	}
	logger.Debug().Msgf("planned %d parts of %s for %s (%s)", count, size.Format(cfg.ChunkSize), base, size.Format(total))
	return job, nil
}

// staleParts finds <base>.NN files in the output directory that the plan
// does not produce. Left in place they would be appended on reassembly.
func staleParts(job *Job) []string {
	found, err := ExistingParts(job.InputPath, job.OutputDir)
	if err != nil {
		return nil
	}
	planned := make(map[string]bool, len(job.Parts))
	for _, part := range job.Parts {
		planned[part.Path] = true
	}
	var stale []string
	for _, path := range found {
		if !planned[path] {
			stale = append(stale, path)
		}
	}
	return stale
}

// Collisions lists every file a write would replace or remove.
func (j *Job) Collisions() []string {
	return append(append([]string{}, j.Existing...), j.Stale...)
}

// PartPaths lists the planned output paths in index order.
func (j *Job) PartPaths() []string {
	paths := make([]string, len(j.Parts))
	for i, part := range j.Parts {
		paths[i] = part.Path
	}
	return paths
}

func (j *Job) CompletedParts() int {
	count := 0
	for _, part := range j.Parts {
		if part.Completed {
			count++
		}
	}
	return count
}
