package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tanq16/nxsplit/internal/discovery"
	"github.com/tanq16/nxsplit/internal/output"
	"github.com/tanq16/nxsplit/internal/splitter"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [PATH...]",
		Short: "Remove parts previously produced for the given files",
		Long: `Remove <file>.00, <file>.01, ... produced for the given files. Original files are
never touched. Use --output when the parts were written elsewhere and --dry-run
to only list them.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			targets, err := discovery.Targets(args, recursive)
			if err != nil {
				output.PrintError(fmt.Sprintf("Error resolving input paths: %v", err))
				os.Exit(1)
			}
			failed := 0
			for _, target := range targets {
				name := filepath.Base(target)
				if dryRun {
					parts, err := splitter.ExistingParts(target, outputDir)
					if err != nil {
						output.PrintError(fmt.Sprintf("Error listing parts of %s: %v", name, err))
						failed++
						continue
					}
					output.PrintInfo(fmt.Sprintf("%s: %d parts would be removed", name, len(parts)))
					for _, part := range parts {
						fmt.Println(output.FStream("  " + part))
					}
					continue
				}
				removed, err := splitter.RemoveParts(target, outputDir)
				if err != nil {
					output.PrintError(fmt.Sprintf("Error cleaning up parts of %s: %v", name, err))
					failed++
					continue
				}
				output.PrintSuccess(fmt.Sprintf("Removed %d parts of %s", removed, name))
			}
			if failed > 0 {
				os.Exit(1)
			}
		},
	}
}
