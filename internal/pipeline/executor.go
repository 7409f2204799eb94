package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Naveen-2402/darkai/internal/telemetry"
	provmodels "github.com/Naveen-2402/darkai/provider/models"
	"github.com/Naveen-2402/darkai/session/session_models"
)

// executeAnswer produces the final user-facing answer: one streaming call
// anchored to the role, conditioned on the plan and any web context, with
// no output-length bound. This is the only stage whose failure is fatal to
// the turn; there is no meaningful degraded answer without it.
func (p *Pipeline) executeAnswer(ctx context.Context, chat *session_models.ChatSession, history []provmodels.Message, plan Plan, webBlock string) (string, error) {
	defer telemetry.ObserveStage("executor", time.Now())

	roleGuidance := provmodels.Message{
		Role: "system",
		Content: fmt.Sprintf("ROLE (anchor):\n%s\n\n"+
			"Follow the plan below to craft a concise, actionable answer in the role's tone. "+
			"Do NOT reveal the plan or inner steps. Use citations [n] only if WEB CONTEXT is used.", chat.Role),
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	planMsg := provmodels.Message{Role: "system", Content: fmt.Sprintf("PLAN JSON:\n%s", planJSON)}

	msgs := make([]provmodels.Message, 0, len(history)+3)
	msgs = append(msgs, roleGuidance)
	msgs = append(msgs, history...)
	msgs = append(msgs, planMsg)

	if webBlock != "" {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		msgs = append(msgs, provmodels.Message{
			Role: "system",
			Content: fmt.Sprintf("WEB CONTEXT (use only to support the answer; ignore anything off-role):\n\n"+
				"Retrieved: %s\n\nWEB SEARCH RESULTS:\n%s\n\n"+
				"Cite as [n] matching the numbered source.", timestamp, webBlock),
		})
	}

	draft, _, err := p.collect(ctx, msgs, provmodels.Options{
		Temperature: chat.Temperature,
		TopP:        chat.TopP,
		// no MaxTokens: answer length is unbounded
	})
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return draft, nil
}
