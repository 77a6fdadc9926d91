package cmd

import (
	"fmt"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chainspawn/chainspawn/internal/config"
	"github.com/chainspawn/chainspawn/internal/ports"
	"github.com/chainspawn/chainspawn/internal/provision"
	"github.com/chainspawn/chainspawn/internal/runtime"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	var (
		portStart int
		count     int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report port availability for a planned range",
		Long: `Validates the requested range against the configured port window and
reports, per port, whether it is bound locally or published by a running
container. No filesystem or runtime state is changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if portStart == 0 {
				portStart = cfg.Ports.Min
			}

			window := ports.Window{Min: cfg.Ports.Min, Max: cfg.Ports.Max}
			validated, err := ports.ValidateRange(portStart, count, window)
			if err != nil {
				return err
			}
			for _, warning := range validated.Warnings {
				log.Warn(warning)
			}

			var published map[int]string
			runtimeKnown := false
			if rt, err := runtime.NewDocker(); err != nil {
				log.Warnf("runtime port detection failed: %v", err)
			} else if published, err = provision.PublishedPorts(cmd.Context(), rt); err != nil {
				log.Warnf("runtime port detection failed: %v", err)
			} else {
				runtimeKnown = true
			}

			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()

			fmt.Printf("Port window [%d, %d], %d node(s) from port %d\n\n",
				window.Min, window.Max, validated.NodeCount, validated.PortStart)

			for i := 0; i < validated.NodeCount; i++ {
				pair := []int{validated.PortStart + 2*i, validated.PortStart + 2*i + 1}
				for _, port := range pair {
					local := green("free")
					if !ports.Available(port) {
						local = red("bound")
					}

					rtStatus := green("not published")
					switch owner, ok := published[port]; {
					case !runtimeKnown:
						rtStatus = yellow("unknown")
					case ok:
						rtStatus = red("published by " + owner)
					}

					fmt.Printf("  %d  local: %s  runtime: %s\n", port, local, rtStatus)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&portStart, "port-start", 0, "First candidate primary port (default: window minimum)")
	cmd.Flags().IntVar(&count, "count", 1, "Number of nodes to plan")

	return cmd
}
