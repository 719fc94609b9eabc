package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/nxsplit/internal/discovery"
	"github.com/tanq16/nxsplit/internal/output"
	"github.com/tanq16/nxsplit/internal/scheduler"
	"github.com/tanq16/nxsplit/internal/size"
	"github.com/tanq16/nxsplit/internal/splitter"
	"github.com/tanq16/nxsplit/internal/utils"
)

var (
	outputDir string
	chunkSize string
	recursive bool
	overwrite bool
	dryRun    bool
	workers   int
	debug     bool
	logFile   string
)

var NxsplitVersion = "dev"

var rootCmd = &cobra.Command{
	Use:   "nxsplit [PATH...]",
	Short: "Split NSP/NSZ/XCI files into FAT32-friendly parts",
	Long: `Split NSP/NSZ/XCI files into sequential parts named <file>.00, <file>.01, ...
so homebrew installers can read them from FAT32 storage.

Examples:
  nxsplit game.nsp
  nxsplit ~/dumps --recursive --output /mnt/sd/split
  nxsplit game.xci --chunk-size 2GiB --dry-run`,
	Version: NxsplitVersion,
	Args:    cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := buildConfig(chunkSize)
		if err != nil {
			output.PrintError(fmt.Sprintf("Invalid chunk size: %v", err))
			os.Exit(1)
		}
		if len(args) == 0 {
			path, err := promptForPath(stdin, os.Stdout)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			args = []string{path}
		}
		targets, err := discovery.Targets(args, recursive)
		if err != nil {
			output.PrintError(fmt.Sprintf("Error resolving input paths: %v", err))
			os.Exit(1)
		}
		if len(targets) == 0 {
			output.PrintInfo("No NSP/NSZ/XCI files found; nothing to do.")
			return
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		summary := scheduler.Run(ctx, targets, cfg, scheduler.Options{Workers: workers, Input: stdin})
		finish(summary, cfg.DryRun)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Directory for output parts (defaults to each file's directory)")
	rootCmd.PersistentFlags().StringVarP(&chunkSize, "chunk-size", "s", size.Default, "Part size (e.g. 4GB, 4GiB, 512MB or a byte count)")
	rootCmd.PersistentFlags().BoolVarP(&recursive, "recursive", "r", false, "Recursively traverse provided directories")
	rootCmd.PersistentFlags().BoolVar(&overwrite, "overwrite", false, "Overwrite parts if they already exist")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without writing files")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "Number of files to split in parallel")

	// flags without shorthand
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a file instead of stderr")
	rootCmd.PersistentFlags().Lookup("log-file").NoOptDefVal = utils.LogFile

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}

func setupLogging() {
	utils.InitLogger(debug)
	if logFile == "" {
		return
	}
	f, err := utils.OpenLogFile(logFile)
	if err != nil {
		output.PrintWarning(fmt.Sprintf("Cannot open log file %s, logging to stderr: %v", logFile, err))
		return
	}
	utils.SetLogOutput(f, debug)
}

// buildConfig turns the run-wide flags into the immutable split config. A bad
// chunk size invalidates the whole run.
func buildConfig(chunk string) (splitter.Config, error) {
	chunkBytes, err := size.Parse(chunk)
	if err != nil {
		return splitter.Config{}, err
	}
	log.Debug().Str("op", "cmd/root").Msgf("chunk size %s (%s)", size.Format(chunkBytes), size.FormatExact(chunkBytes))
	return splitter.Config{
		ChunkSize: chunkBytes,
		OutputDir: outputDir,
		Overwrite: overwrite,
		DryRun:    dryRun,
	}, nil
}

func finish(summary scheduler.Summary, dry bool) {
	if dry {
		printPlans(summary)
	}
	if err := summary.Err(); err != nil {
		output.PrintError(fmt.Sprintf("Encountered failed operation(s): %v", err))
		os.Exit(1)
	}
	if dry {
		output.PrintInfo("Dry run completed successfully.")
	}
}

func printPlans(summary scheduler.Summary) {
	for _, result := range summary.Results {
		if result.Job == nil || !result.DryRun {
			continue
		}
		job := result.Job
		output.PrintHeader(fmt.Sprintf("%s (%s, %d parts)", filepath.Base(job.InputPath), size.FormatExact(job.TotalSize), len(job.Parts)))
		existing := make(map[string]bool)
		for _, path := range job.Existing {
			existing[path] = true
		}
		for _, part := range job.Parts {
			line := fmt.Sprintf("  %s %s %s", part.Path, output.StyleSymbols["arrow"], size.Format(part.Size))
			if existing[part.Path] {
				fmt.Println(output.FWarning(line + " (exists)"))
			} else {
				fmt.Println(output.FStream(line))
			}
		}
		for _, path := range job.Stale {
			fmt.Println(output.FWarning(fmt.Sprintf("  %s (stale, removed after split)", path)))
		}
	}
	output.PrintInfo("Dry run: no files were written.")
}
