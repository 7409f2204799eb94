package provider

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/Naveen-2402/darkai/config"
	"github.com/Naveen-2402/darkai/provider/models"
	openai_provider "github.com/Naveen-2402/darkai/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Provider is the streaming text source all pipeline stages consume.
// Stream sends text fragments to out as they arrive and returns the terminal
// finish reason once the sequence ends. Implementations must not close out.
type Provider interface {
	Stream(ctx context.Context, msgs []models.Message, opts models.Options, out chan<- string) (finish string, err error)
}

// NewProvider creates an LLM client based on the provided configuration
func NewProvider(client Client, cfg config.LLMConfig) (Provider, error) {
	switch client {
	case OpenAI:
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("OPENAI_API_KEY not set")
		}
		return openai_provider.NewClient(apiKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}

// Collect drains one streamed completion to the end and returns the full
// trimmed text plus the finish reason. No caller ever observes partial
// output of a stage: a stage returns only after its stream has terminated.
func Collect(ctx context.Context, p Provider, msgs []models.Message, opts models.Options) (string, string, error) {
	out := make(chan string)
	done := make(chan string, 1)
	go func() {
		var sb strings.Builder
		for frag := range out {
			sb.WriteString(frag)
		}
		done <- sb.String()
	}()
	finish, err := p.Stream(ctx, msgs, opts, out)
	close(out)
	text := <-done
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(text), finish, nil
}

// Completion runs a plain (non-reasoning) completion with automatic
// continuation: when the model stops because of the output-length bound,
// the partial answer is appended to the conversation together with a
// continuation request and the call is retried, up to maxContinuations
// follow-ups. This behavior belongs to the plain chat flow only; the
// reasoning pipeline issues single bounded or unbounded calls.
func Completion(ctx context.Context, p Provider, msgs []models.Message, opts models.Options, maxContinuations int) (string, error) {
	conv := append([]models.Message(nil), msgs...)
	var full strings.Builder
	for i := 0; ; i++ {
		text, finish, err := Collect(ctx, p, conv, opts)
		if err != nil {
			return "", err
		}
		if full.Len() > 0 && text != "" {
			full.WriteString(" ")
		}
		full.WriteString(text)
		if finish != models.FinishLength || i >= maxContinuations {
			return strings.TrimSpace(full.String()), nil
		}
		conv = append(conv,
			models.Message{Role: "assistant", Content: text},
			models.Message{Role: "user", Content: "Continue exactly from where you left off."},
		)
	}
}
