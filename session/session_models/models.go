package session_models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReasoningDepth selects how much of the pipeline runs per turn.
type ReasoningDepth string

const (
	DepthFast     ReasoningDepth = "Fast"     // execute only
	DepthStandard ReasoningDepth = "Standard" // plan + execute
	DepthDeep     ReasoningDepth = "Deep"     // plan + execute + judge + revise
)

// Valid reports whether d is one of the known depths.
func (d ReasoningDepth) Valid() bool {
	switch d {
	case DepthFast, DepthStandard, DepthDeep:
		return true
	}
	return false
}

// Message is one turn entry in a chat's history.
type Message struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// ClarificationState tracks an outstanding clarification request for a chat.
// When Awaiting is true Questions is non-empty; the state is cleared by the
// very next user turn.
type ClarificationState struct {
	Awaiting  bool      `json:"awaiting"`
	Questions []string  `json:"questions,omitempty"`
	AskedAt   time.Time `json:"asked_at,omitempty"`
}

// ChatSession is one conversation thread anchored to a role.
type ChatSession struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Role     string    `json:"role"` // the anchoring system instruction
	Messages []Message `json:"messages"`

	Temperature    float64        `json:"temperature"`
	TopP           float64        `json:"top_p"`
	ReasoningDepth ReasoningDepth `json:"reasoning_depth"`

	UseWebSearch       bool `json:"use_web_search"`
	WebResultsPerQuery int  `json:"web_results_per_query"`
	WebExtractChars    int  `json:"web_extract_chars"`

	Clarify   ClarificationState `json:"clarify"`
	CreatedAt time.Time          `json:"created_at"`
}

// ErrEmptyRole rejects chat creation without an anchoring role.
var ErrEmptyRole = errors.New("role text must not be empty")

// ErrNotFound is returned by stores when a chat id is unknown.
var ErrNotFound = errors.New("chat not found")

const titleMax = 40

// NewChat creates a session for the given role text. The title is derived
// from the role once at creation and is independently editable afterward.
func NewChat(roleText string) (*ChatSession, error) {
	role := strings.TrimSpace(roleText)
	if role == "" {
		return nil, ErrEmptyRole
	}
	title := role
	if r := []rune(title); len(r) > titleMax {
		title = string(r[:titleMax])
	}
	return &ChatSession{
		ID:        uuid.NewString()[:8],
		Title:     title,
		Role:      role,
		Messages:  []Message{},
		CreatedAt: time.Now(),
	}, nil
}

// SystemMessage returns the chat's anchoring system entry.
func (c *ChatSession) SystemMessage() Message {
	return Message{Role: "system", Content: c.Role}
}

// Append adds one turn entry to the history.
func (c *ChatSession) Append(role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
}

// MessagesForModel returns the system message followed by at most the last
// maxPairs user/assistant pairs, in original chronological order. Older
// turns are silently dropped. The method is pure: calling it twice without
// mutation yields identical output.
func (c *ChatSession) MessagesForModel(maxPairs int) []Message {
	nonSystem := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Role == "user" || m.Role == "assistant" {
			nonSystem = append(nonSystem, m)
		}
	}
	if n := maxPairs * 2; len(nonSystem) > n {
		nonSystem = nonSystem[len(nonSystem)-n:]
	}
	out := make([]Message, 0, 1+len(nonSystem))
	out = append(out, c.SystemMessage())
	return append(out, nonSystem...)
}
