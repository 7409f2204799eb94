package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Naveen-2402/darkai/internal/directive"
	"github.com/Naveen-2402/darkai/internal/telemetry"
	provmodels "github.com/Naveen-2402/darkai/provider/models"
)

const maxClarifyQuestions = 4

// clarityCheck decides whether more details are required for a precise,
// role-aligned answer. It fails open: any transport or parse failure means
// "no clarification needed" so a broken gate can never block the user.
func (p *Pipeline) clarityCheck(ctx context.Context, roleText, userText string) GateVerdict {
	defer telemetry.ObserveStage("gate", time.Now())

	msgs := []provmodels.Message{
		{Role: "system", Content: "You are a planner that *only* decides if more details are required for a precise, role-aligned answer.\n" +
			"Return STRICT JSON with keys: need_info (boolean), questions (array of up to 4 short questions), reason (string).\n" +
			"Ask ONLY for details that materially change the answer. If current info is enough, set need_info=false and questions=[].\n" +
			"NO extra text, NO markdown, JSON only."},
		{Role: "user", Content: fmt.Sprintf("ROLE:\n%s\n\nUSER_MESSAGE:\n%s\n\n"+
			"Decide if more information is needed to answer accurately within this role.", roleText, userText)},
	}

	fallback := GateVerdict{NeedInfo: false, Questions: []string{}, Reason: ""}

	raw, _, err := p.collect(ctx, msgs, provmodels.Options{Temperature: 0.0, TopP: 1.0, MaxTokens: 180})
	if err != nil {
		p.logger.Printf("clarity check failed, proceeding without clarification: %v", err)
		telemetry.DirectiveFallback("gate")
		return fallback
	}

	var verdict GateVerdict
	if !directive.Decode(raw, &verdict) {
		telemetry.DirectiveFallback("gate")
		return fallback
	}

	questions := make([]string, 0, maxClarifyQuestions)
	for _, q := range verdict.Questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == maxClarifyQuestions {
			break
		}
	}
	return GateVerdict{
		NeedInfo:  verdict.NeedInfo,
		Questions: questions,
		Reason:    strings.TrimSpace(verdict.Reason),
	}
}

// formatClarification renders the gate's questions as the assistant reply
// shown to the user while the chat waits for answers.
func formatClarification(questions []string) string {
	var b strings.Builder
	b.WriteString("To give you the most accurate, role-aligned answer, I need a few details:\n\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d) %s\n", i+1, q)
	}
	b.WriteString("\n_Reply with the answers (you can be brief)._")
	return b.String()
}
