package server

import (
	"time"

	"github.com/Naveen-2402/darkai/session/session_models"
	wsmodels "github.com/Naveen-2402/darkai/tools/web_search/models"
)

// HTTPError is the generic error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// TokenResponse carries a bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateChatRequest creates a new chat anchored to a role. Omitted tuning
// fields fall back to the server's configured defaults.
type CreateChatRequest struct {
	Role               string   `json:"role"`
	Temperature        *float64 `json:"temperature,omitempty"`
	TopP               *float64 `json:"top_p,omitempty"`
	ReasoningDepth     string   `json:"reasoning_depth,omitempty"`
	UseWebSearch       *bool    `json:"use_web_search,omitempty"`
	WebResultsPerQuery int      `json:"web_results_per_query,omitempty"`
	WebExtractChars    int      `json:"web_extract_chars,omitempty"`
}

// UpdateChatRequest patches chat settings. Only non-nil fields change.
type UpdateChatRequest struct {
	Title              *string  `json:"title,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
	TopP               *float64 `json:"top_p,omitempty"`
	ReasoningDepth     *string  `json:"reasoning_depth,omitempty"`
	UseWebSearch       *bool    `json:"use_web_search,omitempty"`
	WebResultsPerQuery *int     `json:"web_results_per_query,omitempty"`
	WebExtractChars    *int     `json:"web_extract_chars,omitempty"`
}

// SendMessageRequest submits one user turn to a chat.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// TurnResponse is the outcome of one processed turn.
type TurnResponse struct {
	Answer             string            `json:"answer"`
	Sources            []wsmodels.Result `json:"sources,omitempty"`
	Warnings           []string          `json:"warnings,omitempty"`
	AskedClarification bool              `json:"asked_clarification"`
}

// ChatSummary is the list view of a chat.
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func summarize(chat *session_models.ChatSession) ChatSummary {
	return ChatSummary{ID: chat.ID, Title: chat.Title, CreatedAt: chat.CreatedAt}
}

// QuoteResponse carries one generated quote.
type QuoteResponse struct {
	Quote string `json:"quote"`
}
