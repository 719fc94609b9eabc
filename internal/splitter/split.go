package splitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/nxsplit/internal/size"
	"github.com/tanq16/nxsplit/internal/utils"
)

// Splitter runs one split job at a time. Confirmer is consulted when planned
// parts already exist and Overwrite is off; a nil Confirmer declines.
type Splitter struct {
	Config       Config
	Confirmer    Confirmer
	ProgressFunc ProgressFunc
}

func New(cfg Config, confirmer Confirmer) *Splitter {
	return &Splitter{Config: cfg, Confirmer: confirmer}
}

// Split plans and, unless in dry-run, writes the parts of inputPath.
// Failures are reported in the Result; partial parts are left in place.
func (s *Splitter) Split(ctx context.Context, inputPath string) Result {
	result := Result{InputPath: inputPath, DryRun: s.Config.DryRun}
	if err := ctx.Err(); err != nil {
		return result.fail(err)
	}
	job, err := Plan(inputPath, s.Config)
	if err != nil {
		return result.fail(err)
	}
	result.Job = job
	result.InputPath = job.InputPath
	name := filepath.Base(job.InputPath)
	logger := jobLogger(job)

	collisions := job.Collisions()
	if len(collisions) > 0 && !s.Config.Overwrite && !s.Config.DryRun {
		if err := ctx.Err(); err != nil {
			return result.fail(err)
		}
		if !s.confirmOverwrite(job, collisions) {
			logger.Info().Msgf("skipping %s, existing parts kept", name)
			result.Status = StatusSkipped
			result.Reason = ReasonUserDeclined
			return result
		}
	}

	if s.Config.DryRun {
		logger.Info().Msgf("dry run: %s would be split into %d parts", name, len(job.Parts))
		result.Status = StatusCompleted
		return result
	}
	if err := ctx.Err(); err != nil {
		return result.fail(err)
	}

	logger.Info().Msgf("splitting %s (%s) into %d parts of %s", name, size.Format(job.TotalSize), len(job.Parts), size.Format(job.ChunkSize))
	err = s.execute(ctx, job)
	result.PartsWritten = job.CompletedParts()
	result.BytesWritten = job.BytesWritten
	if err != nil {
		return result.fail(err)
	}
	result.StaleRemoved = removeStale(job)
	logger.Info().Msgf("finished %s, %d parts written", name, result.PartsWritten)
	result.Status = StatusCompleted
	return result
}

// Cancelled is the result of a job that never started because ctx was done.
func Cancelled(inputPath string, err error) Result {
	return Result{InputPath: inputPath}.fail(err)
}

func jobLogger(job *Job) zerolog.Logger {
	return log.With().Str("op", "splitter/split").Str("job", job.ID).Logger()
}

func (s *Splitter) confirmOverwrite(job *Job, collisions []string) bool {
	if s.Confirmer == nil {
		return false
	}
	ok, err := s.Confirmer.Confirm(job, collisions)
	if err != nil {
		logger := jobLogger(job)
		logger.Warn().Msgf("confirmation failed, treating as declined: %v", err)
		return false
	}
	return ok
}

// removeStale deletes parts left by an earlier layout once the new parts are
// complete. Failures are logged and do not fail the job.
func removeStale(job *Job) int {
	logger := jobLogger(job)
	removed := 0
	for _, path := range job.Stale {
		if err := os.Remove(path); err != nil {
			logger.Warn().Msgf("could not remove stale part %s: %v", filepath.Base(path), err)
			continue
		}
		removed++
		logger.Debug().Msgf("removed stale part %s", filepath.Base(path))
	}
	return removed
}

func (s *Splitter) execute(ctx context.Context, job *Job) error {
	source, err := os.Open(job.InputPath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrRead, job.InputPath, err)
	}
	defer source.Close()

	bufferSize := int64(s.Config.BufferSize)
	if bufferSize <= 0 {
		bufferSize = utils.DefaultBufferSize
	}
	buffer := make([]byte, max(1, min(bufferSize, job.ChunkSize)))
	for i := range job.Parts {
		if err := s.writePart(ctx, source, job, &job.Parts[i], buffer); err != nil {
			return err
		}
	}
	return nil
}

// writePart copies exactly part.Size bytes from source into a fresh file,
// closing it before returning.
func (s *Splitter) writePart(ctx context.Context, source io.Reader, job *Job, part *Part, buffer []byte) error {
	target, err := os.OpenFile(part.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrWrite, part.Path, err)
	}
	for part.Written < part.Size {
		if err := ctx.Err(); err != nil {
			target.Close()
			return err
		}
		toRead := min(int64(len(buffer)), part.Size-part.Written)
		bytesRead, readErr := source.Read(buffer[:toRead])
		if bytesRead > 0 {
			if _, err := target.Write(buffer[:bytesRead]); err != nil {
				target.Close()
				return fmt.Errorf("%w: writing %s: %v", ErrWrite, part.Path, err)
			}
			part.Written += int64(bytesRead)
			job.BytesWritten += int64(bytesRead)
			if s.ProgressFunc != nil {
				s.ProgressFunc(job.BytesWritten, job.TotalSize)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				if part.Written < part.Size {
					target.Close()
					return fmt.Errorf("%w: unexpected end of input after %d bytes", ErrRead, job.BytesWritten)
				}
				break
			}
			target.Close()
			return fmt.Errorf("%w: %v", ErrRead, readErr)
		}
	}
	if err := target.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrWrite, part.Path, err)
	}
	part.Completed = true
	logger := jobLogger(job)
	logger.Debug().Msgf("wrote %s (%s)", filepath.Base(part.Path), size.Format(part.Written))
	return nil
}

func (r Result) fail(err error) Result {
	r.Status = StatusFailed
	r.Kind = KindOf(err)
	r.Err = err
	event := log.Error().Str("op", "splitter/split")
	if r.Job != nil {
		event = event.Str("job", r.Job.ID)
	}
	event.Err(err).Msgf("failed to split %s", filepath.Base(r.InputPath))
	return r
}

// Message is a one-line description of the outcome.
func (r Result) Message() string {
	name := filepath.Base(r.InputPath)
	switch r.Status {
	case StatusCompleted:
		if r.DryRun {
			return fmt.Sprintf("Dry run: %s → %d parts", name, len(r.Job.Parts))
		}
		if r.StaleRemoved > 0 {
			return fmt.Sprintf("Split %s → %d parts (%s), %d stale removed", name, r.PartsWritten, size.Format(r.BytesWritten), r.StaleRemoved)
		}
		return fmt.Sprintf("Split %s → %d parts (%s)", name, r.PartsWritten, size.Format(r.BytesWritten))
	case StatusSkipped:
		return fmt.Sprintf("Skipped %s (%s)", name, r.Reason)
	case StatusFailed:
		return fmt.Sprintf("Failed %s [%s]: %v", name, r.Kind, r.Err)
	}
	return name
}
