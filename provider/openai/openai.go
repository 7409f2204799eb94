package openai_provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Naveen-2402/darkai/provider/models"
	openai "github.com/sashabaranov/go-openai"
)

// client implements the streaming provider interface using OpenAI's API
type client struct {
	api   *openai.Client
	model string
}

// NewClient creates a new OpenAI streaming client. baseURL may be empty for
// the public endpoint or point at an Azure/OpenAI-compatible deployment.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Stream issues one streaming chat completion, forwarding text fragments to
// out. It returns the finish reason of the final chunk ("stop", "length",
// "content_filter") or "" if the stream ended without one.
func (c *client) Stream(ctx context.Context, msgs []models.Message, opts models.Options, out chan<- string) (string, error) {
	// go-openai marshals Temperature with omitempty, so an exact 0 would
	// vanish from the request and the API would fall back to its default.
	// The smallest nonzero float keeps deterministic sampling on the wire.
	temp := float32(opts.Temperature)
	if temp == 0 {
		temp = math.SmallestNonzeroFloat32
	}
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toChatMessages(msgs),
		Temperature: temp,
		TopP:        float32(opts.TopP),
		Stream:      true,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("stream creation failed: %w", err)
	}
	defer stream.Close()

	finish := ""
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return finish, nil
		}
		if err != nil {
			return finish, fmt.Errorf("stream recv failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		choice := resp.Choices[0]
		if choice.Delta.Content != "" {
			select {
			case out <- choice.Delta.Content:
			case <-ctx.Done():
				return finish, ctx.Err()
			}
		}
		if choice.FinishReason != "" {
			finish = string(choice.FinishReason)
		}
	}
}

func toChatMessages(msgs []models.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		result[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return result
}
