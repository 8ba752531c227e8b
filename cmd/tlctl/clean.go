package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trafficlens/internal/config"
	"trafficlens/internal/records"
)

var cleanOutput string

// cleanCmd applies the standard cleaning rules to a dataset file.
var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Apply the standard cleaning rules to a traffic CSV",
	Long: `Clean drops duplicate rows and rows with zero sessions, caps
conversions at the session count, and writes the result to the output
file. The input must already pass the import contract.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "cleaned.csv", "output file path")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	recs, err := records.LoadFile(args[0], cfg.DateFormat)
	if err != nil {
		return err
	}

	cleaned := records.CleanRecords(recs)
	if err := records.WriteRecordsFile(cleanOutput, cleaned, cfg.DateFormat); err != nil {
		return err
	}

	dropped := len(recs) - len(cleaned)
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
		"wrote %s: %d records kept, %d dropped\n", cleanOutput, len(cleaned), dropped)
	return nil
}
