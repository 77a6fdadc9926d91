package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chainspawn/chainspawn/internal/cmd"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "chainspawn",
		Short: "Testnet node container provisioning tool",
		Long: `Chainspawn provisions local workspaces and launches containerized
blockchain test nodes, each bound to a unique pair of host ports drawn
from a configured port window.`,
		Version: version,
	}

	rootCmd.AddCommand(cmd.NewSpawnCmd())
	rootCmd.AddCommand(cmd.NewCheckCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
