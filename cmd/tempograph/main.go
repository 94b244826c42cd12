package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tempograph",
		Short: "Tempograph - interactive temporal network visualization",
		Long: `Tempograph renders interactive node-link diagrams for network data,
optionally animated over time. It serves a live scene over WebSocket for
embedding, drives playback from a terminal UI, and exports static images.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newRenderCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
