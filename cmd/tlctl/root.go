package main

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Global flag values.
var noColor bool

// rootCmd is the base command for tlctl.
var rootCmd = &cobra.Command{
	Use:   "tlctl",
	Short: "Inspect, clean and report on traffic datasets",
	Long: `tlctl works with traffic CSV datasets offline: it validates files
against the import contract, audits and cleans data-quality issues,
generates sample datasets, and renders the full analytics report
without running the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// normalizeFlags accepts underscored flag spellings (e.g. --no_color) by
// folding them onto the dashed canonical names.
func normalizeFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(normalizeFlags)
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
