package main

import (
	"fmt"
	"os"

	"github.com/FranksOps/canvass/internal/provider"
	"github.com/FranksOps/canvass/internal/provider/apollo"
	"github.com/FranksOps/canvass/internal/report"
	"github.com/spf13/cobra"
)

var (
	apolloTitles        []string
	apolloCompanies     []string
	apolloLocations     []string
	apolloKeywords      []string
	apolloSeniorities   []string
	apolloOrgDomains    []string
	apolloEmailStatus   []string
	apolloEmployeeRange []string
	apolloSimilar       bool
	apolloPage          int
	apolloLimit         int
)

var apolloCmd = &cobra.Command{
	Use:   "apollo",
	Short: "Search people on Apollo with explicit filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.ApolloAPIKey == "" {
			return fmt.Errorf("APOLLO_API_KEY is not set")
		}

		client := apollo.New(apollo.Config{
			APIKey:  cfg.ApolloAPIKey,
			BaseURL: cfg.ApolloBaseURL,
		})

		crit := provider.Criteria{
			JobTitles:    apolloTitles,
			CompanyNames: apolloCompanies,
			Locations:    apolloLocations,
			Keywords:     apolloKeywords,
			Limit:        apolloLimit,
		}
		opts := apollo.Options{
			Page:                 apolloPage,
			Seniorities:          apolloSeniorities,
			OrganizationDomains:  apolloOrgDomains,
			ContactEmailStatus:   apolloEmailStatus,
			EmployeeRanges:       apolloEmployeeRange,
			IncludeSimilarTitles: apolloSimilar,
		}

		leads, err := client.SearchWithOptions(cmd.Context(), crit, opts)
		if err != nil {
			return err
		}

		report.PrintLeads(os.Stdout, leadPtrs(leads))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(apolloCmd)

	apolloCmd.Flags().StringSliceVar(&apolloTitles, "titles", nil, "job titles to match")
	apolloCmd.Flags().StringSliceVar(&apolloCompanies, "companies", nil, "organization names to match")
	apolloCmd.Flags().StringSliceVar(&apolloLocations, "locations", nil, "person locations to match")
	apolloCmd.Flags().StringSliceVar(&apolloKeywords, "keywords", nil, "free-text keywords")
	apolloCmd.Flags().StringSliceVar(&apolloSeniorities, "seniorities", nil, "seniority levels (e.g. senior, director, vp)")
	apolloCmd.Flags().StringSliceVar(&apolloOrgDomains, "org-domains", nil, "organization domains to match")
	apolloCmd.Flags().StringSliceVar(&apolloEmailStatus, "email-status", nil, "contact email statuses (e.g. verified)")
	apolloCmd.Flags().StringSliceVar(&apolloEmployeeRange, "employee-ranges", nil, "organization size ranges (e.g. 1,10)")
	apolloCmd.Flags().BoolVar(&apolloSimilar, "similar-titles", false, "include people with similar job titles")
	apolloCmd.Flags().IntVar(&apolloPage, "page", 1, "result page to request")
	apolloCmd.Flags().IntVar(&apolloLimit, "per-page", 25, "results per page")
}
