package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "v0.3.0" // Overwritten at build time

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forge",
		Short: "Reconstruct working front-end code from a screen recording",
		Long: `forge scans a screen recording of a user interface, extracts a structured
description of what it saw, and assembles a complete HTML document from that
description alone.`,
		SilenceUsage: true,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newReconstructCmd(),
		newVerifyCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("forge version %s\n", version)
		},
	}
}
