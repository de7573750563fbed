// Package classify maps a free-text query onto a fixed set of search criteria.
// It is a closed, ordered keyword table, not a language-understanding layer:
// adding a rule means adding a row, nothing is inferred.
package classify

import (
	"strings"

	"github.com/FranksOps/canvass/internal/provider"
)

// Result is the outcome of classifying a query. When Matched is false no
// search should be performed. Domains is set only by the FAANG rule and
// drives per-domain lookups in addition to the company-name criteria.
type Result struct {
	Criteria provider.Criteria
	Domains  []string
	Matched  bool
}

const (
	faangLimit = 50
	titleLimit = 25
)

var faangCompanies = []string{"Meta", "Apple", "Amazon", "Netflix", "Google"}

var faangDomains = []string{"meta.com", "apple.com", "amazon.com", "netflix.com", "google.com"}

// titleRule pairs trigger substrings with the job-title list they select.
type titleRule struct {
	triggers []string
	titles   []string
}

// Rules are tested in order; the first match wins, so "engineering manager"
// classifies as engineer.
var titleRules = []titleRule{
	{[]string{"engineer", "developer"}, []string{"Software Engineer", "Senior Software Engineer", "Developer"}},
	{[]string{"manager"}, []string{"Engineering Manager", "Product Manager", "Manager"}},
	{[]string{"director"}, []string{"Director", "Engineering Director"}},
	{[]string{"ceo"}, []string{"CEO", "Chief Executive Officer"}},
	{[]string{"cto"}, []string{"CTO", "Chief Technology Officer"}},
}

// Classify derives search criteria from a free-text query.
func Classify(query string) Result {
	q := strings.ToLower(query)

	if strings.Contains(q, "faang") {
		return Result{
			Criteria: provider.Criteria{
				CompanyNames: append([]string(nil), faangCompanies...),
				Limit:        faangLimit,
			},
			Domains: append([]string(nil), faangDomains...),
			Matched: true,
		}
	}

	for _, rule := range titleRules {
		for _, trig := range rule.triggers {
			if strings.Contains(q, trig) {
				return Result{
					Criteria: provider.Criteria{
						JobTitles: append([]string(nil), rule.titles...),
						Limit:     titleLimit,
					},
					Matched: true,
				}
			}
		}
	}

	return Result{}
}
