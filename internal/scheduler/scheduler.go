package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/nxsplit/internal/output"
	"github.com/tanq16/nxsplit/internal/size"
	"github.com/tanq16/nxsplit/internal/splitter"
)

var ErrJobsFailed = errors.New("one or more files failed to split")

type Options struct {
	Workers int
	Input   io.Reader // prompt answers, os.Stdin when nil; share one *bufio.Reader across prompts
	Output  io.Writer // live display and prompts, os.Stdout when nil
}

type Summary struct {
	Results   []splitter.Result
	Completed int
	Skipped   int
	Failed    int
}

// Err is non-nil when any job failed. Skipped jobs are not failures.
func (s Summary) Err() error {
	if s.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrJobsFailed, s.Failed, len(s.Results))
	}
	return nil
}

type target struct {
	index int
	path  string
}

// Run splits every target with cfg on a pool of workers and returns the
// per-file outcomes in target order. A failing file never stops the others.
func Run(ctx context.Context, targets []string, cfg splitter.Config, opts Options) Summary {
	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	outputMgr := output.NewManager()
	outputMgr.SetOutput(out)
	outputMgr.StartDisplay()
	confirmer := newTerminalConfirmer(outputMgr, in, out)

	jobCh := make(chan target, len(targets))
	for i, path := range targets {
		jobCh <- target{index: i, path: path}
	}
	close(jobCh)

	results := make([]splitter.Result, len(targets))
	numWorkers := max(1, min(opts.Workers, len(targets)))
	log.Debug().Str("op", "scheduler/run").Msgf("starting %d workers for %d files", numWorkers, len(targets))
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processJobs(ctx, jobCh, cfg, confirmer, outputMgr, results)
		}()
	}
	wg.Wait()
	outputMgr.StopDisplay()

	summary := Summary{Results: results}
	for _, result := range results {
		switch result.Status {
		case splitter.StatusCompleted:
			summary.Completed++
		case splitter.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	return summary
}

func processJobs(ctx context.Context, jobCh <-chan target, cfg splitter.Config, confirmer splitter.Confirmer, outputMgr *output.Manager, results []splitter.Result) {
	for t := range jobCh {
		name := filepath.Base(t.path)
		id := outputMgr.Register(name)
		if err := ctx.Err(); err != nil {
			// queued targets are reported, never planned
			result := splitter.Cancelled(t.path, err)
			report(outputMgr, id, result)
			results[t.index] = result
			continue
		}
		if cfg.DryRun {
			outputMgr.SetMessage(id, fmt.Sprintf("Planning %s", name))
		} else {
			outputMgr.SetMessage(id, fmt.Sprintf("Splitting %s", name))
		}
		s := splitter.New(cfg, confirmer)
		s.ProgressFunc = func(written, total int64) {
			outputMgr.SetProgress(id, written, total, fmt.Sprintf("%s / %s", size.Format(written), size.Format(total)))
		}
		result := s.Split(ctx, t.path)
		report(outputMgr, id, result)
		results[t.index] = result
	}
}

func report(outputMgr *output.Manager, id int, result splitter.Result) {
	outputMgr.ClearFunction(id)
	switch result.Status {
	case splitter.StatusCompleted:
		outputMgr.Complete(id, result.Message())
	case splitter.StatusSkipped:
		outputMgr.ReportWarning(id, result.Message())
	default:
		outputMgr.ReportError(id, result.Message(), result.Err)
	}
}

// Merge folds another run's outcomes into s.
func (s *Summary) Merge(other Summary) {
	s.Results = append(s.Results, other.Results...)
	s.Completed += other.Completed
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}
