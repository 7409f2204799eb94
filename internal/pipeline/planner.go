package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Naveen-2402/darkai/internal/directive"
	"github.com/Naveen-2402/darkai/internal/telemetry"
	provmodels "github.com/Naveen-2402/darkai/provider/models"
)

// reasonPlan runs the private planning pass. The plan guides the answer
// model and the search orchestrator; it is never revealed to the user.
// Any failure yields the empty plan with searching disabled.
func (p *Pipeline) reasonPlan(ctx context.Context, roleText, userText string) Plan {
	defer telemetry.ObserveStage("planner", time.Now())

	msgs := []provmodels.Message{
		{Role: "system", Content: "You are an expert task planner. Produce a compact plan JSON ONLY. " +
			"No explanations, no markdown, strictly valid JSON."},
		{Role: "user", Content: fmt.Sprintf("Fields required:\n"+
			"{\n"+
			"  \"objective\": string,\n"+
			"  \"assumptions\": string[],\n"+
			"  \"steps\": string[],\n"+
			"  \"subproblems\": string[],\n"+
			"  \"data_to_verify\": string[],\n"+
			"  \"web_plan\": {\"should_search\": boolean, \"queries\": string[]},\n"+
			"  \"quality_checks\": string[]\n"+
			"}\n\n"+
			"ROLE:\n%s\n\nUSER_MESSAGE:\n%s\n\n"+
			"Keep lists short and high-signal (<=5 items each).", roleText, userText)},
	}

	raw, _, err := p.collect(ctx, msgs, provmodels.Options{Temperature: 0.3, TopP: 1.0, MaxTokens: 500})
	if err != nil {
		p.logger.Printf("planning failed, using empty plan: %v", err)
		telemetry.DirectiveFallback("planner")
		return emptyPlan()
	}

	plan := emptyPlan()
	if !directive.Decode(raw, &plan) {
		telemetry.DirectiveFallback("planner")
		return emptyPlan()
	}
	if plan.WebPlan.Queries == nil {
		plan.WebPlan.Queries = []string{}
	}
	return plan
}
