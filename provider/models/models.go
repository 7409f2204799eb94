package models

// Finish reasons reported at the end of a stream.
const (
	FinishStop   = "stop"
	FinishLength = "length"
)

// Message is one role-tagged entry of a model conversation.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Options are per-call sampling parameters. MaxTokens == 0 means the call
// is unbounded in output length.
type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}
