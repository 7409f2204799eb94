package web_search

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Naveen-2402/darkai/config"
	"github.com/Naveen-2402/darkai/tools/web_search/models"
)

func TestFormatForPromptNumbering(t *testing.T) {
	block := FormatForPrompt([]models.Result{
		{Title: "One", URL: "https://a.example", Snippet: "first", Extract: "first extract"},
		{Title: "Two", URL: "https://b.example"},
	})
	if !strings.Contains(block, "[1] One") || !strings.Contains(block, "[2] Two") {
		t.Fatalf("numbering missing:\n%s", block)
	}
	if !strings.Contains(block, "Snippet: first") || !strings.Contains(block, "Extract: first extract") {
		t.Fatalf("optional fields missing:\n%s", block)
	}
	// a result without snippet/extract renders only title and URL
	if strings.Count(block, "Snippet:") != 1 {
		t.Fatalf("unexpected snippet lines:\n%s", block)
	}
}

func TestFormatForPromptEmpty(t *testing.T) {
	if got := FormatForPrompt(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestNewWebSearcherRejectsUnknownProvider(t *testing.T) {
	if _, err := NewWebSearcher(config.SearchConfig{Provider: "altavista"}); err == nil {
		t.Fatal("expected error")
	}
}

type failingSearcher struct{}

func (failingSearcher) Discover(context.Context, string, int, int) ([]models.Result, error) {
	return nil, errors.New("network down")
}

func TestExtractFetcherPropagatesSearchError(t *testing.T) {
	f := NewExtractFetcher(failingSearcher{}, time.Second)
	if _, err := f.Discover(context.Background(), "q", 3, 900); err == nil {
		t.Fatal("expected error from inner searcher")
	}
}

func TestClip(t *testing.T) {
	if got := models.Clip("abcdef", 3); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := models.Clip("ab", 10); got != "ab" {
		t.Fatalf("got %q", got)
	}
	if got := models.Clip("ab", 0); got != "ab" {
		t.Fatalf("zero budget should not clip, got %q", got)
	}
}
