package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Naveen-2402/darkai/internal/telemetry"
	"github.com/Naveen-2402/darkai/session/session_models"
	"github.com/Naveen-2402/darkai/tools/web_search"
	"github.com/Naveen-2402/darkai/tools/web_search/models"
)

// MaxSearchQueries caps how many planner queries are actually issued per
// turn. The planner may propose up to 5; consuming only the first 3 keeps
// turn latency bounded. Tunable, not a protocol constant.
var MaxSearchQueries = 3

// runSearches executes the plan's web directive against the search provider.
// A failing query is reported as a warning and skipped; search failures
// never abort the turn. The returned results carry 1-based citation order:
// query submission order first, provider rank within each query.
func (p *Pipeline) runSearches(ctx context.Context, plan WebPlan, chat *session_models.ChatSession, enabled bool) (string, []models.Result, []string) {
	if !enabled || !plan.ShouldSearch || p.searcher == nil {
		return "", nil, nil
	}
	defer telemetry.ObserveStage("search", time.Now())

	perQuery := chat.WebResultsPerQuery
	if perQuery <= 0 {
		perQuery = p.cfg.Chat.Web.ResultsPerQuery
	}
	extractChars := chat.WebExtractChars
	if extractChars <= 0 {
		extractChars = p.cfg.Chat.Web.ExtractChars
	}

	queries := plan.Queries
	if len(queries) > MaxSearchQueries {
		queries = queries[:MaxSearchQueries]
	}

	var all []models.Result
	var warnings []string
	for _, q := range queries {
		results, err := p.searcher.Discover(ctx, q, perQuery, extractChars)
		telemetry.SearchQuery(err != nil)
		if err != nil {
			p.logger.Printf("web search failed for %q: %v", q, err)
			warnings = append(warnings, fmt.Sprintf("Web search failed: %v", err))
			continue
		}
		all = append(all, results...)
	}
	if len(all) == 0 {
		return "", nil, warnings
	}
	return web_search.FormatForPrompt(all), all, warnings
}
