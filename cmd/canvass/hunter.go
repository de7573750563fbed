package main

import (
	"fmt"
	"os"

	"github.com/FranksOps/canvass/internal/nlparse"
	"github.com/FranksOps/canvass/internal/provider"
	"github.com/FranksOps/canvass/internal/provider/hunter"
	"github.com/FranksOps/canvass/internal/report"
	"github.com/spf13/cobra"
)

var (
	hunterDomain string
	hunterTitle  string
	hunterLimit  int
	hunterParse  bool
)

var hunterCmd = &cobra.Command{
	Use:   "hunter [query]",
	Short: "Search people at a company domain on Hunter",
	Long: `Search people at a company domain on Hunter.

The domain is given with --domain, or extracted from a free-text query
argument with --parse (requires OPENAI_API_KEY).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.HunterAPIKey == "" {
			return fmt.Errorf("HUNTER_API_KEY is not set")
		}

		domain := hunterDomain
		title := hunterTitle

		if hunterParse {
			if len(args) != 1 {
				return fmt.Errorf("--parse requires a free-text query argument")
			}
			if cfg.OpenAIAPIKey == "" {
				return fmt.Errorf("--parse requires OPENAI_API_KEY")
			}
			extractor := nlparse.New(nlparse.Config{
				APIKey:  cfg.OpenAIAPIKey,
				BaseURL: cfg.OpenAIBaseURL,
			})
			var err error
			domain, title, err = extractor.Extract(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to parse query: %w", err)
			}
			logger.Debug("extracted search filters", "domain", domain, "title", title)
		}

		if domain == "" {
			return fmt.Errorf("a domain is required (use --domain or --parse)")
		}

		client := hunter.New(hunter.Config{
			APIKey:  cfg.HunterAPIKey,
			BaseURL: cfg.HunterBaseURL,
		})

		crit := provider.Criteria{Domain: domain, Limit: hunterLimit}
		if title != "" {
			crit.JobTitles = []string{title}
		}

		leads, err := client.Search(cmd.Context(), crit)
		if err != nil {
			return err
		}

		report.PrintLeads(os.Stdout, leadPtrs(leads))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hunterCmd)

	hunterCmd.Flags().StringVar(&hunterDomain, "domain", "", "company domain to search")
	hunterCmd.Flags().StringVar(&hunterTitle, "title", "", "filter by job title")
	hunterCmd.Flags().IntVar(&hunterLimit, "limit", 25, "maximum number of results")
	hunterCmd.Flags().BoolVar(&hunterParse, "parse", false, "extract domain and title from a free-text query")
}
