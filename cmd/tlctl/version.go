package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints the tlctl version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("tlctl %s\n", Version)
	},
}
