package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/FranksOps/canvass/internal/report"
	"github.com/FranksOps/canvass/internal/storage"
	"github.com/spf13/cobra"
)

var (
	reportStore   string
	reportDSN     string
	reportFormat  string
	reportCompany string
	reportSource  string
	reportSince   time.Duration
	reportOut     string
	reportList    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize previously stored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd.Context(), reportStore, reportDSN)
		if err != nil {
			return err
		}
		defer b.Close()

		filter := storage.Filter{
			Company: reportCompany,
			Source:  reportSource,
		}
		if reportSince > 0 {
			since := time.Now().Add(-reportSince)
			filter.Since = &since
		}

		leads, err := b.Query(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to query leads: %w", err)
		}

		var out io.Writer = os.Stdout
		if reportOut != "" {
			f, err := os.Create(reportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", reportOut, err)
			}
			defer f.Close()
			out = f
		}

		if reportList {
			report.PrintLeads(out, leads)
			return nil
		}

		summary := report.GenerateSummary(leads)
		switch reportFormat {
		case "text":
			return report.WriteText(out, summary)
		case "json":
			return report.WriteJSON(out, summary)
		case "html":
			return report.WriteHTML(out, summary)
		default:
			return fmt.Errorf("unknown format %q (want text, json or html)", reportFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportStore, "store", "csv", "backend to read from (csv, ndjson, sqlite, postgres)")
	reportCmd.Flags().StringVar(&reportDSN, "dsn", "", "path or connection string for --store")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format (text, json, html)")
	reportCmd.Flags().StringVar(&reportCompany, "company", "", "only include leads for this company")
	reportCmd.Flags().StringVar(&reportSource, "source", "", "only include leads from this source")
	reportCmd.Flags().DurationVar(&reportSince, "since", 0, "only include leads newer than this age (e.g. 24h)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write the report to a file instead of stdout")
	reportCmd.Flags().BoolVar(&reportList, "list", false, "list the matching leads instead of a summary")
}
