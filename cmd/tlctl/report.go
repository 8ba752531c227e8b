package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trafficlens/internal/analytics"
	"trafficlens/internal/config"
	"trafficlens/internal/database"
	"trafficlens/internal/export"
	"trafficlens/internal/logging"
	"trafficlens/internal/records"
	"trafficlens/internal/timeframe"
)

// Report-specific flag values.
var (
	reportOutput string
	reportFrom   string
	reportTo     string
)

// reportCmd renders the full analytics report for a dataset file without
// running the server.
var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Build the analytics report for a traffic CSV",
	Long: `Report imports the dataset into a throwaway in-memory store, runs
every breakdown (pages, devices, countries, daily trends, hourly
patterns, insights) and writes the result as a zip of CSV sheets.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "report.zip", "output archive path")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "start date (YYYY-MM-DD, default dataset start)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "end date (YYYY-MM-DD, default dataset end)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	logger := logging.NewLogger(cfg)

	recs, err := records.LoadFile(args[0], cfg.DateFormat)
	if err != nil {
		return err
	}

	manager := database.NewManager(cfg, logger)
	if err := manager.Init(); err != nil {
		return err
	}
	defer manager.Close()

	if err := manager.ImportRecords(recs); err != nil {
		return err
	}

	db := manager.GetConnection()
	opts, err := analytics.GetFilterOptions(db)
	if err != nil {
		return err
	}

	tf, err := timeframe.NewParser().Parse(timeframe.ParserParams{
		FromDate:     reportFrom,
		ToDate:       reportTo,
		DatasetFirst: opts.FirstDate,
		DatasetLast:  opts.LastDate,
	})
	if err != nil {
		return err
	}

	report, err := export.BuildReport(db, analytics.NewQueryParams(tf), cfg.InsightTopK)
	if err != nil {
		return err
	}

	f, err := os.Create(reportOutput)
	if err != nil {
		return fmt.Errorf("error creating report archive: %w", err)
	}
	defer f.Close()

	if err := export.WriteZip(f, report); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
		"wrote %s: %d sheets over %d records\n", reportOutput, len(report.Sheets), len(recs))
	return nil
}
