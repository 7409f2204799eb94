// Package pipeline implements the multi-stage reasoning flow behind every
// user turn: clarification gate, planner, web search, answer execution and,
// at Deep depth, judge plus one-shot revision.
//
// The stages run strictly in sequence. Each stage fully drains its model
// stream before the next stage starts, and stage-local failures degrade to
// documented defaults instead of crossing stage boundaries as errors. Only
// the open-ended answer calls can fail a turn.
package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Naveen-2402/darkai/config"
	"github.com/Naveen-2402/darkai/internal/telemetry"
	"github.com/Naveen-2402/darkai/provider"
	provmodels "github.com/Naveen-2402/darkai/provider/models"
	"github.com/Naveen-2402/darkai/session/session_models"
	"github.com/Naveen-2402/darkai/tools/web_search"
)

// Pipeline orchestrates one turn at a time for a chat. It holds no per-chat
// state of its own; everything per-conversation lives on the ChatSession.
type Pipeline struct {
	cfg      *config.Config
	llm      provider.Provider
	searcher web_search.WebSearcher
	logger   *log.Logger
}

// New creates a pipeline. searcher may be nil when web search is not
// configured; plans that request a search then simply run without one.
func New(cfg *config.Config, llm provider.Provider, searcher web_search.WebSearcher) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		llm:      llm,
		searcher: searcher,
		logger:   log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags),
	}
}

func (p *Pipeline) collect(ctx context.Context, msgs []provmodels.Message, opts provmodels.Options) (string, string, error) {
	return provider.Collect(ctx, p.llm, msgs, opts)
}

// Per-turn web override prefixes. A user message starting with one of these
// disables web search for that turn only; the prefix is stripped before the
// text enters the pipeline or the history.
var offlinePrefixes = []string{"offline:", "no web:", "noweb:"}

func stripOfflinePrefix(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)
	for _, prefix := range offlinePrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):]), true
		}
	}
	return trimmed, false
}

// RunTurn processes one user message for a chat and returns the assistant
// reply. The chat's history and clarification state are mutated in place;
// the caller persists the chat afterward. Messages are appended only once
// the turn's outcome is known, so a failed turn never leaves a partial
// exchange in history.
//
// The turn state machine has two states. Idle: run the clarification gate
// first and either ask questions (and stop) or run the full pipeline.
// AwaitingClarification: clear that state as the very first action, skip
// the gate entirely and run the pipeline on the just-submitted text. The
// gate therefore runs at most once per clarification round.
func (p *Pipeline) RunTurn(ctx context.Context, chat *session_models.ChatSession, userText string) (TurnResult, error) {
	text, forcedOffline := stripOfflinePrefix(userText)
	doWeb := chat.UseWebSearch && !forcedOffline

	if chat.Clarify.Awaiting {
		// Clear before anything else so a failure below cannot re-enter
		// the gate on the next turn.
		chat.Clarify = session_models.ClarificationState{}
		return p.respond(ctx, chat, text, doWeb)
	}

	verdict := p.clarityCheck(ctx, chat.Role, text)
	if verdict.NeedInfo && len(verdict.Questions) > 0 {
		chat.Clarify = session_models.ClarificationState{
			Awaiting:  true,
			Questions: verdict.Questions,
			AskedAt:   time.Now(),
		}
		reply := formatClarification(verdict.Questions)
		chat.Append("user", text)
		chat.Append("assistant", reply)
		telemetry.Turn("clarification")
		return TurnResult{Answer: reply, AskedClarification: true}, nil
	}

	return p.respond(ctx, chat, text, doWeb)
}

// respond is the shared execution path for both entry states:
// plan, search, execute, judge, revise.
func (p *Pipeline) respond(ctx context.Context, chat *session_models.ChatSession, userText string, doWeb bool) (TurnResult, error) {
	depth := chat.ReasoningDepth
	if !depth.Valid() {
		depth = session_models.DepthStandard
	}

	var plan Plan
	if depth == session_models.DepthFast {
		// Fast depth keeps interactive latency low: no planner call,
		// searching forced off.
		plan = emptyPlan()
	} else {
		plan = p.reasonPlan(ctx, chat.Role, userText)
	}

	webBlock, results, warnings := p.runSearches(ctx, plan.WebPlan, chat, doWeb)
	usedWeb := len(results) > 0

	history := provMessages(chat.MessagesForModel(p.maxHistoryPairs())...)
	history = append(history, provmodels.Message{Role: "user", Content: userText})

	draft, err := p.executeAnswer(ctx, chat, history, plan, webBlock)
	if err != nil {
		telemetry.Turn("error")
		return TurnResult{}, err
	}

	final := draft
	if depth == session_models.DepthDeep {
		verdict := p.judgeAnswer(ctx, chat.Role, draft, usedWeb)
		if verdict.NeedsFix && len(verdict.Issues) > 0 {
			fixed, err := p.reviseAnswer(ctx, chat.Role, draft, verdict.Issues)
			if err != nil {
				telemetry.Turn("error")
				return TurnResult{}, err
			}
			final = fixed
		}
	}

	chat.Append("user", userText)
	chat.Append("assistant", final)
	telemetry.Turn("answered")
	return TurnResult{Answer: final, Sources: results, Warnings: warnings}, nil
}

func (p *Pipeline) maxHistoryPairs() int {
	if p.cfg.Chat.MaxHistoryPairs > 0 {
		return p.cfg.Chat.MaxHistoryPairs
	}
	return 40
}

func provMessages(msgs ...session_models.Message) []provmodels.Message {
	out := make([]provmodels.Message, len(msgs))
	for i, m := range msgs {
		out[i] = provmodels.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

// Greeting produces the short opener appended to a freshly created chat
// when auto-greet is on.
func (p *Pipeline) Greeting(ctx context.Context) (string, error) {
	msgs := []provmodels.Message{
		{Role: "system", Content: "You are a darkly witty AI greeter. Always return 1-2 short sentences with emojis. " +
			"Make it mischievous, fun, and slightly chaotic."},
		{Role: "user", Content: "Give me one funky dark-humor inspired greeting for a new chat."},
	}
	text, _, err := p.collect(ctx, msgs, provmodels.Options{Temperature: 0.9, TopP: 1.0, MaxTokens: 60})
	return text, err
}

// Quote produces a one-line dark-humor motivational quote.
func (p *Pipeline) Quote(ctx context.Context) (string, error) {
	msgs := []provmodels.Message{
		{Role: "system", Content: "You are a witty assistant that produces short dark humor motivational quotes. " +
			"Each should be one sentence, clever, and end with a cheeky tone, simple english."},
		{Role: "user", Content: "Give me one dark humor motivational quote, simple english."},
	}
	text, _, err := p.collect(ctx, msgs, provmodels.Options{Temperature: 0.9, TopP: 1.0, MaxTokens: 50})
	return text, err
}
