package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	rvapp "github.com/stacklok/release-version-api/internal/app"
	"github.com/stacklok/release-version-api/internal/service"
	"github.com/stacklok/release-version-api/internal/versions"
)

// Output formats of the check command
const (
	FormatJSON      = "json"
	FormatTable     = "table"
	FormatDiscovery = "discovery"
)

// Update states reported when installed versions are given
const (
	StatusUpToDate        = "up to date"
	StatusUpdateAvailable = "update available"
	StatusUnknown         = "unknown"
)

var supportedFormats = []string{FormatJSON, FormatTable, FormatDiscovery}

// SoftwareStatus compares the latest release of a software with an installed version
type SoftwareStatus struct {
	SoftwareName string  `json:"software_name"`
	Latest       *string `json:"latest"`
	Installed    string  `json:"installed,omitempty"`
	Status       string  `json:"status,omitempty"`
}

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run one aggregation and print the most recent versions",
		Long: `Run every enabled extractor once and print the result.

Formats:
  json       the same document GET /v1/most_recent returns (default)
  table      a human readable table
  discovery  a low-level discovery document for monitoring systems

With --installed name=version the output marks software with an available update.`,
		Example: `  release-version-api check
  release-version-api check --format table --installed wordpress=6.1 --installed nextcloud=27.0.1`,
		RunE: runCheck,
	}

	checkCmd.Flags().String("format", FormatJSON, "Output format (json, table, discovery)")
	checkCmd.Flags().StringToString("installed", nil, "Installed version of a software as name=version (repeatable)")
	checkCmd.Flags().Duration("timeout", 2*time.Minute, "Maximum duration of the aggregation run")

	return checkCmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if !slices.Contains(supportedFormats, format) {
		return fmt.Errorf("unsupported format %q (expected one of %v)", format, supportedFormats)
	}
	installed, err := cmd.Flags().GetStringToString("installed")
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := rvapp.NewService(ctx, rvapp.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}

	result, err := svc.MostRecent(ctx)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), format, result, installed)
}

// writeResult renders result in the given format
func writeResult(w io.Writer, format string, result service.AggregateResult, installed map[string]string) error {
	switch format {
	case FormatTable:
		return writeTable(w, result, installed)
	case FormatDiscovery:
		return writeJSON(w, service.NewDiscoveryDocument(result.Names()))
	default:
		if len(installed) > 0 {
			return writeJSON(w, compareInstalled(result, installed))
		}
		return writeJSON(w, result)
	}
}

// compareInstalled builds one status per software, sorted by name
func compareInstalled(result service.AggregateResult, installed map[string]string) []SoftwareStatus {
	statuses := make([]SoftwareStatus, 0, len(result))
	for _, name := range result.Names() {
		status := SoftwareStatus{SoftwareName: name, Latest: result[name]}
		if current, ok := installed[name]; ok {
			status.Installed = current
			status.Status = updateStatus(result[name], current)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// updateStatus compares numerically; versions that do not parse are unknown
func updateStatus(latest *string, installed string) string {
	if latest == nil {
		return StatusUnknown
	}
	latestVersion, err := versions.Parse(*latest)
	if err != nil {
		return StatusUnknown
	}
	installedVersion, err := versions.Parse(installed)
	if err != nil {
		return StatusUnknown
	}
	if latestVersion.GreaterThan(installedVersion) {
		return StatusUpdateAvailable
	}
	return StatusUpToDate
}

func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func writeTable(w io.Writer, result service.AggregateResult, installed map[string]string) error {
	if len(result) == 0 {
		_, err := fmt.Fprintln(w, "No software configured.")
		return err
	}

	headers := []string{"Software", "Latest"}
	if len(installed) > 0 {
		headers = append(headers, "Installed", "Status")
	}

	table := tablewriter.NewWriter(w)
	table.Options(
		tablewriter.WithHeader(headers),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(len(headers), tw.AlignLeft)),
	)

	for _, status := range compareInstalled(result, installed) {
		latest := "-"
		if status.Latest != nil {
			latest = *status.Latest
		}
		row := []string{status.SoftwareName, latest}
		if len(installed) > 0 {
			row = append(row, status.Installed, status.Status)
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
