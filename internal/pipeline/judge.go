package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Naveen-2402/darkai/internal/directive"
	"github.com/Naveen-2402/darkai/internal/telemetry"
	provmodels "github.com/Naveen-2402/darkai/provider/models"
)

// judgeAnswer runs the hidden quality check on a draft answer (Deep depth
// only). Missing fields default per field, not per verdict: a reply that
// parses but omits needs_fix still counts as "no fix needed".
func (p *Pipeline) judgeAnswer(ctx context.Context, roleText, draft string, usedWeb bool) JudgeVerdict {
	defer telemetry.ObserveStage("judge", time.Now())

	msgs := []provmodels.Message{
		{Role: "system", Content: "You are a strict answer judge. Return STRICT JSON only. " +
			"Check role alignment, clarity, factuality, presence of citations if web was used, and basic logical coherence."},
		{Role: "user", Content: fmt.Sprintf("ROLE:\n%s\n\nUSED_WEB: %t\n\nANSWER:\n%s\n\n"+
			`Return JSON: {"ok": boolean, "needs_fix": boolean, "issues": string[]}. Keep issues short.`, roleText, usedWeb, draft)},
	}

	fallback := JudgeVerdict{OK: true, NeedsFix: false, Issues: []string{}}

	raw, _, err := p.collect(ctx, msgs, provmodels.Options{Temperature: 0.0, TopP: 1.0, MaxTokens: 240})
	if err != nil {
		p.logger.Printf("judge failed, keeping draft: %v", err)
		telemetry.DirectiveFallback("judge")
		return fallback
	}

	var partial struct {
		OK       *bool    `json:"ok"`
		NeedsFix *bool    `json:"needs_fix"`
		Issues   []string `json:"issues"`
	}
	if !directive.Decode(raw, &partial) {
		telemetry.DirectiveFallback("judge")
		return fallback
	}

	verdict := fallback
	if partial.OK != nil {
		verdict.OK = *partial.OK
	}
	if partial.NeedsFix != nil {
		verdict.NeedsFix = *partial.NeedsFix
	}
	if partial.Issues != nil {
		verdict.Issues = partial.Issues
	}
	return verdict
}

// reviseAnswer produces the one-shot corrected answer for the judge's
// issues. Like the executor this is an open-ended call; failure is fatal
// to the turn.
func (p *Pipeline) reviseAnswer(ctx context.Context, roleText, draft string, issues []string) (string, error) {
	defer telemetry.ObserveStage("reviser", time.Now())

	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return "", fmt.Errorf("encode issues: %w", err)
	}

	msgs := []provmodels.Message{
		{Role: "system", Content: "You are a precise reviser. Produce an improved answer that addresses the listed issues. " +
			"Keep the same intent and role tone. Return ONLY the final answer text (no notes)."},
		{Role: "user", Content: fmt.Sprintf("ROLE:\n%s\n\nISSUES:\n%s\n\nCURRENT_ANSWER:\n%s", roleText, issuesJSON, draft)},
	}

	fixed, _, err := p.collect(ctx, msgs, provmodels.Options{Temperature: 0.2, TopP: 1.0})
	if err != nil {
		return "", fmt.Errorf("revision failed: %w", err)
	}
	return fixed, nil
}
