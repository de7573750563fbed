package main

import (
	"fmt"
	"os"

	"github.com/FranksOps/canvass/internal/fingerprint"
	"github.com/FranksOps/canvass/internal/report"
	"github.com/FranksOps/canvass/internal/webscrape"
	"github.com/spf13/cobra"
)

var (
	scrapeDomain      string
	scrapePages       []string
	scrapeFingerprint string
	scrapeRate        float64
	scrapeCSVOut      string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Harvest contact emails from a company's public pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scrapeDomain == "" {
			return fmt.Errorf("--domain is required")
		}

		h, err := webscrape.New(webscrape.Config{
			Pages:             scrapePages,
			RequestsPerSecond: scrapeRate,
			Fingerprint:       fingerprint.Profile(scrapeFingerprint),
			Logger:            logger,
		})
		if err != nil {
			return err
		}

		leads, err := h.Harvest(cmd.Context(), scrapeDomain)
		if err != nil {
			return err
		}

		report.PrintLeads(os.Stdout, leadPtrs(leads))

		if scrapeCSVOut != "" {
			if err := exportCSV(cmd.Context(), scrapeCSVOut, leads); err != nil {
				return fmt.Errorf("failed to export CSV: %w", err)
			}
			fmt.Printf("Saved %d leads to %s\n", len(leads), scrapeCSVOut)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeDomain, "domain", "", "company domain or URL to harvest")
	scrapeCmd.Flags().StringSliceVar(&scrapePages, "pages", nil, "page paths to check (defaults to common contact pages)")
	scrapeCmd.Flags().StringVar(&scrapeFingerprint, "fingerprint", "chrome", "TLS fingerprint profile (chrome, firefox, safari, go)")
	scrapeCmd.Flags().Float64Var(&scrapeRate, "rate", 2, "maximum requests per second")
	scrapeCmd.Flags().StringVar(&scrapeCSVOut, "csv", "", "export results to a CSV file")
}
