package web_search

import (
	"context"
	"fmt"
	"strings"

	"github.com/Naveen-2402/darkai/config"
	"github.com/Naveen-2402/darkai/tools/web_search/brave"
	"github.com/Naveen-2402/darkai/tools/web_search/models"
	"github.com/Naveen-2402/darkai/tools/web_search/serper"
)

// WebSearcher returns up to k ranked results for a query, with each extract
// clipped to extractChars. Implementations must fail cleanly on network or
// parse errors; the caller decides how to degrade.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int, extractChars int) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

func NewWebSearcher(cfg config.SearchConfig) (WebSearcher, error) {
	var s WebSearcher
	switch Provider(cfg.Provider) {
	case SerperProvider:
		s = serper.Search{ApiKey: cfg.APIKey}
	case BraveProvider:
		s = brave.Search{ApiKey: cfg.APIKey}
	default:
		return nil, fmt.Errorf("unsupported search provider: %q", cfg.Provider)
	}
	if cfg.FetchExtracts {
		s = NewExtractFetcher(s, cfg.Timeout)
	}
	return s, nil
}

// FormatForPrompt renders results as the numbered, citation-ready context
// block handed to the answer model. Numbering is 1-based across the whole
// aggregated set, in the order results were accumulated.
func FormatForPrompt(results []models.Result) string {
	var blocks []string
	for i, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "[%d] %s\nURL: %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "Snippet: %s\n", r.Snippet)
		}
		if r.Extract != "" {
			fmt.Fprintf(&b, "Extract: %s\n", r.Extract)
		}
		blocks = append(blocks, strings.TrimSpace(b.String()))
	}
	return strings.Join(blocks, "\n\n")
}
