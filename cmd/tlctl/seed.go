package main

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trafficlens/internal/config"
	"trafficlens/internal/logging"
	"trafficlens/internal/seeder"
)

// Seed-specific flag values.
var (
	seedOutput  string
	seedRecords int
)

// seedCmd writes a deterministic sample dataset.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a sample traffic CSV",
	Long: `Seed writes a deterministic pseudo-random dataset in the import
format, useful for demos and for exercising the full import path.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedOutput, "output", "o", "web_traffic_data.csv", "output file path")
	seedCmd.Flags().IntVarP(&seedRecords, "records", "n", 1000, "number of rows to generate")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := config.GetConfig()
	logger := logging.NewLogger(cfg)

	s := seeder.NewSeeder(logger, seedRecords)
	if err := s.WriteCSV(seedOutput, cfg.DateFormat, time.Now().UTC()); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
		"wrote %s: %d records\n", seedOutput, seedRecords)
	return nil
}
