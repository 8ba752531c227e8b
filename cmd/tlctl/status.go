package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusURL string

// statusCmd probes a running server's health endpoint.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether a running server is healthy",
	Long: `Status calls the health endpoint of a running trafficlens server and
reports whether the database responds and how many records are loaded.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusURL, "url", "http://localhost:3000", "base URL of the server")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(statusURL + "/_health")
	if err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "unreachable: %v\n", err)
		return fmt.Errorf("server unreachable")
	}
	defer resp.Body.Close()

	var body struct {
		Status  string `json:"status"`
		Records int64  `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "unhealthy: bad response: %v\n", err)
		return fmt.Errorf("health check failed")
	}

	out := cmd.OutOrStdout()
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "unhealthy: status %d\n", resp.StatusCode)
		return fmt.Errorf("health check failed")
	}

	color.New(color.FgGreen).Fprintln(out, "healthy")
	fmt.Fprintf(out, "records loaded: %d\n", body.Records)
	return nil
}
