package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/chainspawn/chainspawn/internal/config"
	"github.com/chainspawn/chainspawn/internal/provision"
	"github.com/chainspawn/chainspawn/internal/runtime"
)

// NewSpawnCmd creates the spawn command
func NewSpawnCmd() *cobra.Command {
	var (
		startIndex    int
		count         int
		portStart     int
		prefix        string
		image         string
		execute       bool
		overwrite     bool
		dryRun        bool
		ignoreRuntime bool
	)

	cmd := &cobra.Command{
		Use:   "spawn",
		Short: "Plan and launch test node containers",
		Long: `Plans node workspaces and port assignments, checks the ports against
the local socket table and running containers, and either prints the
launch commands (default) or executes them with --execute.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if prefix == "" {
				prefix = cfg.Node.Prefix
			}
			if portStart == 0 {
				portStart = cfg.Ports.Min
			}

			rt, err := runtime.NewDocker()
			var provRuntime runtime.Runtime = rt
			if err != nil {
				provRuntime = runtime.Unavailable(err)
			}

			p := provision.New(cfg, afero.NewOsFs(), provRuntime, os.Stdout)
			results, err := p.Run(cmd.Context(), provision.Request{
				StartIndex:          startIndex,
				NodeCount:           count,
				PortStart:           portStart,
				Prefix:              prefix,
				Image:               image,
				Execute:             execute,
				Overwrite:           overwrite,
				DryRun:              dryRun,
				IgnoreRuntimeChecks: ignoreRuntime,
			})
			printSummary(results)

			return err
		},
	}

	cmd.Flags().IntVar(&startIndex, "start-index", 1, "Numeric suffix of the first node")
	cmd.Flags().IntVar(&count, "count", 1, "Number of nodes to plan")
	cmd.Flags().IntVar(&portStart, "port-start", 0, "First candidate primary port (default: window minimum)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Node name prefix (default from config)")
	cmd.Flags().StringVar(&image, "image", "", "Container image reference (default from config)")
	cmd.Flags().BoolVar(&execute, "execute", false, "Run the container commands instead of printing them")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing node directories")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intents only, no filesystem or runtime mutation")
	cmd.Flags().BoolVar(&ignoreRuntime, "ignore-runtime-checks", false, "Tolerate runtime detection failures and proceed")

	return cmd
}

func printSummary(results []provision.NodeResult) {
	if len(results) == 0 {
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	var launched, skipped int
	for _, r := range results {
		if r.Launched {
			launched++
		}
		if r.Skipped {
			skipped++
		}
	}

	fmt.Println()
	fmt.Printf("Planned %d node(s)", len(results))
	if launched > 0 {
		fmt.Printf(", %s", green(fmt.Sprintf("%d launched", launched)))
	}
	if skipped > 0 {
		fmt.Printf(", %s", yellow(fmt.Sprintf("%d skipped", skipped)))
	}
	fmt.Println()

	for _, r := range results {
		if r.Skipped {
			fmt.Printf("  - %s: skipped (%s)\n", r.Plan.Name, r.Reason)
		}
	}
}
