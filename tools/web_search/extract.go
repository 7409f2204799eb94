package web_search

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/Naveen-2402/darkai/tools/web_search/models"
)

// ExtractFetcher wraps a WebSearcher and upgrades each result's extract by
// fetching the page and running readability over it, clipped to the
// per-source budget. A page that cannot be fetched or parsed keeps its
// snippet-based extract; extraction never fails a search.
type ExtractFetcher struct {
	inner WebSearcher
	http  *http.Client
}

func NewExtractFetcher(inner WebSearcher, timeout time.Duration) *ExtractFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExtractFetcher{inner: inner, http: &http.Client{Timeout: timeout}}
}

func (f *ExtractFetcher) Discover(ctx context.Context, q string, k int, extractChars int) ([]models.Result, error) {
	results, err := f.inner.Discover(ctx, q, k, extractChars)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if text, ok := f.readable(ctx, results[i].URL); ok {
			results[i].Extract = models.Clip(text, extractChars)
		}
	}
	return results, nil
}

func (f *ExtractFetcher) readable(ctx context.Context, link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := f.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	article, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return "", false
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", false
	}
	return text, true
}
