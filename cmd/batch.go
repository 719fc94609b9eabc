package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/nxsplit/internal/discovery"
	"github.com/tanq16/nxsplit/internal/output"
	"github.com/tanq16/nxsplit/internal/scheduler"
	"gopkg.in/yaml.v3"
)

type BatchEntry struct {
	Path   string `yaml:"path"`
	Output string `yaml:"output,omitempty"`
}

type BatchFile struct {
	ChunkSize string       `yaml:"chunk-size,omitempty"`
	Output    string       `yaml:"output,omitempty"`
	Recursive bool         `yaml:"recursive,omitempty"`
	Overwrite bool         `yaml:"overwrite,omitempty"`
	DryRun    bool         `yaml:"dry-run,omitempty"`
	Workers   int          `yaml:"workers,omitempty"`
	Targets   []BatchEntry `yaml:"targets"`
}

// batchGroup is a set of paths sharing one output directory.
type batchGroup struct {
	Output string
	Paths  []string
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Split every target listed in a YAML file",
		Long: `Split every target listed in a YAML file. Settings in the file apply to the
whole run; flags given on the command line take precedence.

Example file:
  chunk-size: 4GB
  output: /mnt/sd/split
  recursive: true
  targets:
    - path: ~/dumps/game.nsp
    - path: ~/dumps/updates
      output: /mnt/sd/updates`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			batch, err := loadBatchFile(args[0])
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			applyBatchSettings(cmd, batch)
			cfg, err := buildConfig(chunkSize)
			if err != nil {
				output.PrintError(fmt.Sprintf("Invalid chunk size: %v", err))
				os.Exit(1)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			var summary scheduler.Summary
			for _, group := range buildBatchGroups(batch, outputDir) {
				targets, err := discovery.Targets(group.Paths, recursive)
				if err != nil {
					output.PrintError(fmt.Sprintf("Error resolving input paths: %v", err))
					os.Exit(1)
				}
				groupCfg := cfg
				groupCfg.OutputDir = group.Output
				log.Debug().Str("op", "cmd/batch").Msgf("running %d files into %q", len(targets), group.Output)
				summary.Merge(scheduler.Run(ctx, targets, groupCfg, scheduler.Options{Workers: workers, Input: stdin}))
			}
			finish(summary, cfg.DryRun)
		},
	}
	return cmd
}

func loadBatchFile(path string) (BatchFile, error) {
	var batch BatchFile
	data, err := os.ReadFile(path)
	if err != nil {
		return batch, fmt.Errorf("error reading YAML file: %v", err)
	}
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return batch, fmt.Errorf("error parsing YAML file: %v", err)
	}
	var valid []BatchEntry
	for _, entry := range batch.Targets {
		if entry.Path == "" {
			output.PrintWarning("Warning: empty path found in batch file, skipping...")
			continue
		}
		valid = append(valid, entry)
	}
	if len(valid) == 0 {
		return batch, errors.New("no valid targets found in the batch file")
	}
	batch.Targets = valid
	return batch, nil
}

// applyBatchSettings copies file settings into the flag variables unless the
// flag was set explicitly.
func applyBatchSettings(cmd *cobra.Command, batch BatchFile) {
	flags := cmd.Flags()
	if batch.ChunkSize != "" && !flags.Changed("chunk-size") {
		chunkSize = batch.ChunkSize
	}
	if batch.Output != "" && !flags.Changed("output") {
		outputDir = batch.Output
	}
	if batch.Workers > 0 && !flags.Changed("workers") {
		workers = batch.Workers
	}
	recursive = recursive || batch.Recursive
	overwrite = overwrite || batch.Overwrite
	dryRun = dryRun || batch.DryRun
}

// buildBatchGroups groups entries by output directory in first-seen order.
func buildBatchGroups(batch BatchFile, defaultOutput string) []batchGroup {
	var groups []batchGroup
	index := make(map[string]int)
	for _, entry := range batch.Targets {
		out := entry.Output
		if out == "" {
			out = defaultOutput
		}
		i, ok := index[out]
		if !ok {
			i = len(groups)
			index[out] = i
			groups = append(groups, batchGroup{Output: out})
		}
		groups[i].Paths = append(groups[i].Paths, entry.Path)
	}
	return groups
}
