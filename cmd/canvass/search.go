package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/FranksOps/canvass/internal/enrich"
	"github.com/FranksOps/canvass/internal/metrics"
	"github.com/FranksOps/canvass/internal/pipeline"
	"github.com/FranksOps/canvass/internal/provider/apollo"
	"github.com/FranksOps/canvass/internal/provider/hunter"
	"github.com/FranksOps/canvass/internal/report"
	"github.com/FranksOps/canvass/internal/storage"
	"github.com/spf13/cobra"
)

var (
	searchCSVOut   string
	searchJSONOut  string
	searchStore    string
	searchDSN      string
	searchNoEnrich bool
	metricsPort    int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a lead search for a free-text query, or start an interactive session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apis := cfg.AvailableAPIs()
		if len(apis) == 0 {
			return fmt.Errorf("no search API keys configured (set APOLLO_API_KEY and/or HUNTER_API_KEY)")
		}
		fmt.Printf("Available search APIs: %s\n", strings.Join(apis, ", "))

		if metricsPort > 0 {
			srv := metrics.Start(metricsPort)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Stop(ctx)
			}()
		}

		p := buildPipeline()

		if len(args) == 1 {
			return runSearch(cmd.Context(), p, args[0])
		}
		return runInteractive(cmd.Context(), p)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchCSVOut, "csv", "", "export results to a CSV file")
	searchCmd.Flags().StringVar(&searchJSONOut, "json", "", "export results to a JSON file")
	searchCmd.Flags().StringVar(&searchStore, "store", "", "persist results to a backend (csv, ndjson, sqlite, postgres)")
	searchCmd.Flags().StringVar(&searchDSN, "dsn", "", "path or connection string for --store")
	searchCmd.Flags().BoolVar(&searchNoEnrich, "no-enrich", false, "skip contact enrichment")
	searchCmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "expose Prometheus metrics on this port")
}

func buildPipeline() *pipeline.Pipeline {
	p := &pipeline.Pipeline{Logger: logger}

	if cfg.ApolloAPIKey != "" {
		p.Apollo = apollo.New(apollo.Config{
			APIKey:  cfg.ApolloAPIKey,
			BaseURL: cfg.ApolloBaseURL,
		})
	}
	if cfg.HunterAPIKey != "" {
		p.Hunter = hunter.New(hunter.Config{
			APIKey:  cfg.HunterAPIKey,
			BaseURL: cfg.HunterBaseURL,
		})
	}
	if !searchNoEnrich && cfg.EnrichEnabled() {
		p.Enricher = enrich.New(enrich.Config{
			APIKey:  cfg.CladoAPIKey,
			BaseURL: cfg.CladoBaseURL,
			Pacing:  cfg.EnrichPacing,
			Logger:  logger,
		})
	}

	return p
}

// runSearch executes one query and handles printing, export and persistence.
func runSearch(ctx context.Context, p *pipeline.Pipeline, query string) error {
	leads, err := p.Run(ctx, query)
	if err != nil {
		return err
	}

	report.PrintLeads(os.Stdout, leadPtrs(leads))

	if searchCSVOut != "" {
		if err := exportCSV(ctx, searchCSVOut, leads); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		fmt.Printf("Saved %d leads to %s\n", len(leads), searchCSVOut)
	}
	if searchJSONOut != "" {
		if err := exportJSON(searchJSONOut, leads); err != nil {
			return fmt.Errorf("failed to export JSON: %w", err)
		}
		fmt.Printf("Saved %d leads to %s\n", len(leads), searchJSONOut)
	}
	if searchStore != "" {
		b, err := openBackend(ctx, searchStore, searchDSN)
		if err != nil {
			return err
		}
		defer b.Close()
		if err := storage.SaveAll(ctx, b, leads); err != nil {
			return fmt.Errorf("failed to persist leads: %w", err)
		}
		logger.Info("persisted leads", "store", searchStore, "count", len(leads))
	}

	return nil
}

// runInteractive reads queries from stdin until the user quits. After each
// search with results the user may save them to a CSV file of their choosing.
func runInteractive(ctx context.Context, p *pipeline.Pipeline) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nEnter search query (or 'quit' to exit): ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		switch strings.ToLower(query) {
		case "quit", "exit", "q":
			return scanner.Err()
		}

		leads, err := p.Run(ctx, query)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Search failed:", err)
			continue
		}

		report.PrintLeads(os.Stdout, leadPtrs(leads))
		if len(leads) == 0 {
			continue
		}

		fmt.Print("Save results to CSV? (y/n): ")
		if !scanner.Scan() {
			break
		}
		if strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
			continue
		}

		fmt.Print("Filename [leads.csv]: ")
		if !scanner.Scan() {
			break
		}
		filename := strings.TrimSpace(scanner.Text())
		if filename == "" {
			filename = "leads.csv"
		}
		if err := exportCSV(ctx, filename, leads); err != nil {
			fmt.Fprintln(os.Stderr, "Export failed:", err)
			continue
		}
		fmt.Printf("Saved %d leads to %s\n", len(leads), filename)
	}

	return scanner.Err()
}
