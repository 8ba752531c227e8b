package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trafficlens/internal/config"
	"trafficlens/internal/records"
)

// validateCmd checks a dataset file against the import contract and audits
// it for data-quality issues.
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a traffic CSV against the import contract",
	Long: `Validate parses the file with the strict import rules (required
columns, parseable dates, non-negative counts, bounce rate within [0,1])
and then audits the parsed rows for softer data-quality issues such as
duplicates, zero-session rows and future dates.

Hard violations fail the command; audit findings are reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	recs, err := records.LoadFile(args[0], cfg.DateFormat)
	if err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "invalid: %v\n", err)
		return fmt.Errorf("validation failed")
	}

	report := records.Audit(recs, time.Now().UTC())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "records:             %d\n", report.TotalRecords)
	if report.TotalRecords > 0 {
		fmt.Fprintf(out, "date range:          %s to %s\n",
			report.From.Format("2006-01-02"), report.To.Format("2006-01-02"))
	}
	fmt.Fprintf(out, "total sessions:      %d\n", report.TotalSessions)
	fmt.Fprintf(out, "total conversions:   %d\n", report.TotalConversions)
	fmt.Fprintf(out, "conversion rate:     %.2f%%\n", report.OverallConversionRate*100)
	fmt.Fprintf(out, "avg bounce rate:     %.1f%%\n", report.AvgBounceRate*100)
	fmt.Fprintf(out, "avg session length:  %.0fs\n", report.AvgSessionDuration)

	if report.Clean() {
		color.New(color.FgGreen).Fprintln(out, "valid: no data-quality issues found")
		return nil
	}

	warn := color.New(color.FgYellow)
	for _, issue := range report.Issues {
		warn.Fprintf(out, "warning: %s\n", issue)
	}
	warn.Fprintln(out, "valid with warnings: run 'tlctl clean' to apply the standard cleaning rules")
	return nil
}
