package pipeline

import (
	"github.com/Naveen-2402/darkai/tools/web_search/models"
)

// GateVerdict is the clarification gate's directive output.
type GateVerdict struct {
	NeedInfo  bool     `json:"need_info"`
	Questions []string `json:"questions"`
	Reason    string   `json:"reason"`
}

// WebPlan is the planner's web-search directive. ShouldSearch only states
// intent; whether a search actually runs is governed by the chat's web
// configuration and any per-turn override.
type WebPlan struct {
	ShouldSearch bool     `json:"should_search"`
	Queries      []string `json:"queries"`
}

// Plan is the planner's compact task plan for one turn. It lives for that
// turn only and is never persisted or shown to the end user.
type Plan struct {
	Objective     string   `json:"objective"`
	Assumptions   []string `json:"assumptions"`
	Steps         []string `json:"steps"`
	Subproblems   []string `json:"subproblems"`
	DataToVerify  []string `json:"data_to_verify"`
	WebPlan       WebPlan  `json:"web_plan"`
	QualityChecks []string `json:"quality_checks"`
}

func emptyPlan() Plan {
	return Plan{
		Assumptions:   []string{},
		Steps:         []string{},
		Subproblems:   []string{},
		DataToVerify:  []string{},
		WebPlan:       WebPlan{ShouldSearch: false, Queries: []string{}},
		QualityChecks: []string{},
	}
}

// JudgeVerdict is the judge's directive output. A verdict that cannot be
// parsed, fully or per field, means "no action needed".
type JudgeVerdict struct {
	OK       bool     `json:"ok"`
	NeedsFix bool     `json:"needs_fix"`
	Issues   []string `json:"issues"`
}

// TurnResult is what one completed user turn produced.
type TurnResult struct {
	Answer             string          `json:"answer"`
	Sources            []models.Result `json:"sources,omitempty"`
	Warnings           []string        `json:"warnings,omitempty"`
	AskedClarification bool            `json:"asked_clarification"`
}
