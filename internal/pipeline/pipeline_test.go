package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Naveen-2402/darkai/config"
	provmodels "github.com/Naveen-2402/darkai/provider/models"
	"github.com/Naveen-2402/darkai/session/session_models"
	wsmodels "github.com/Naveen-2402/darkai/tools/web_search/models"
)

// scriptedLLM replays one canned reply per Stream call and records every
// call's messages so tests can assert which stages ran.
type scriptedLLM struct {
	replies []scriptedReply
	calls   [][]provmodels.Message
}

type scriptedReply struct {
	text string
	err  error
}

func (s *scriptedLLM) Stream(ctx context.Context, msgs []provmodels.Message, opts provmodels.Options, out chan<- string) (string, error) {
	i := len(s.calls)
	s.calls = append(s.calls, msgs)
	if i >= len(s.replies) {
		return "", errors.New("unexpected extra model call")
	}
	r := s.replies[i]
	if r.err != nil {
		return "", r.err
	}
	out <- r.text
	return provmodels.FinishStop, nil
}

// stage identifies a recorded call by its leading system prompt.
func stage(msgs []provmodels.Message) string {
	if len(msgs) == 0 || msgs[0].Role != "system" {
		return "?"
	}
	c := msgs[0].Content
	switch {
	case strings.Contains(c, "decides if more details"):
		return "gate"
	case strings.Contains(c, "expert task planner"):
		return "planner"
	case strings.Contains(c, "ROLE (anchor)"):
		return "executor"
	case strings.Contains(c, "strict answer judge"):
		return "judge"
	case strings.Contains(c, "precise reviser"):
		return "reviser"
	}
	return "?"
}

func stages(llm *scriptedLLM) []string {
	out := make([]string, len(llm.calls))
	for i, c := range llm.calls {
		out[i] = stage(c)
	}
	return out
}

type stubSearcher struct {
	queries []string
	results map[string][]wsmodels.Result
	errFor  map[string]error
}

func (s *stubSearcher) Discover(ctx context.Context, q string, k, extractChars int) ([]wsmodels.Result, error) {
	s.queries = append(s.queries, q)
	if err := s.errFor[q]; err != nil {
		return nil, err
	}
	return s.results[q], nil
}

func newTestChat(t *testing.T, depth session_models.ReasoningDepth) *session_models.ChatSession {
	t.Helper()
	chat, err := session_models.NewChat("a terse sysadmin mentor")
	if err != nil {
		t.Fatalf("NewChat: %v", err)
	}
	chat.Temperature = 0.7
	chat.TopP = 1.0
	chat.ReasoningDepth = depth
	chat.WebResultsPerQuery = 2
	chat.WebExtractChars = 300
	return chat
}

func newTestPipeline(llm *scriptedLLM, searcher *stubSearcher) *Pipeline {
	var p *Pipeline
	if searcher == nil {
		p = New(&config.Config{}, llm, nil)
	} else {
		p = New(&config.Config{}, llm, searcher)
	}
	return p
}

const gatePass = `{"need_info": false, "questions": [], "reason": "clear"}`

func planJSON(shouldSearch bool, queries ...string) string {
	var b strings.Builder
	b.WriteString(`{"objective":"answer","assumptions":[],"steps":["answer"],"subproblems":[],"data_to_verify":[],"web_plan":{"should_search":`)
	if shouldSearch {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	b.WriteString(`,"queries":[`)
	for i, q := range queries {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"` + q + `"`)
	}
	b.WriteString(`]},"quality_checks":[]}`)
	return b.String()
}

func TestGateFiresAndStopsPipeline(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: `{"need_info": true, "questions": ["Which distro?", "Which kernel version?"], "reason": "env unknown"}`},
	}}
	p := newTestPipeline(llm, nil)
	chat := newTestChat(t, session_models.DepthStandard)

	res, err := p.RunTurn(context.Background(), chat, "my server is slow, fix it")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if !res.AskedClarification {
		t.Fatal("expected a clarification turn")
	}
	if got := stages(llm); len(got) != 1 || got[0] != "gate" {
		t.Fatalf("stages = %v, want [gate] only", got)
	}
	if !chat.Clarify.Awaiting {
		t.Fatal("clarification state not set")
	}
	if len(chat.Clarify.Questions) != 2 {
		t.Fatalf("questions = %v", chat.Clarify.Questions)
	}
	if !strings.Contains(res.Answer, "1) Which distro?") || !strings.Contains(res.Answer, "2) Which kernel version?") {
		t.Fatalf("clarification reply = %q", res.Answer)
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("history length = %d, want user + clarification reply", len(chat.Messages))
	}
	if chat.Messages[1].Content != res.Answer {
		t.Fatal("clarification reply not recorded in history")
	}
}

func TestAwaitingTurnSkipsGateAndClearsState(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: "Run iostat and check the disk queue."},
	}}
	p := newTestPipeline(llm, nil)
	chat := newTestChat(t, session_models.DepthFast)
	chat.Clarify = session_models.ClarificationState{Awaiting: true, Questions: []string{"Which distro?"}}

	res, err := p.RunTurn(context.Background(), chat, "Debian 12, kernel 6.1")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if got := stages(llm); len(got) != 1 || got[0] != "executor" {
		t.Fatalf("stages = %v, want [executor] only", got)
	}
	if chat.Clarify.Awaiting {
		t.Fatal("clarification state not cleared")
	}
	if res.AskedClarification {
		t.Fatal("answer turn flagged as clarification")
	}
	if len(chat.Messages) != 2 || chat.Messages[1].Content != "Run iostat and check the disk queue." {
		t.Fatalf("history = %+v", chat.Messages)
	}
}

func TestFastDepthSkipsPlannerAndSearch(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: "quick answer"},
	}}
	searcher := &stubSearcher{}
	p := newTestPipeline(llm, searcher)
	chat := newTestChat(t, session_models.DepthFast)
	chat.UseWebSearch = true

	res, err := p.RunTurn(context.Background(), chat, "what does SIGHUP do")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if got := stages(llm); len(got) != 2 || got[0] != "gate" || got[1] != "executor" {
		t.Fatalf("stages = %v, want [gate executor]", got)
	}
	if len(searcher.queries) != 0 {
		t.Fatalf("search ran at Fast depth: %v", searcher.queries)
	}
	if res.Answer != "quick answer" {
		t.Fatalf("answer = %q", res.Answer)
	}
}

func TestDeepDepthRevisesWhenJudgeFlags(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: planJSON(false)},
		{text: "draft answer"},
		{text: `{"ok": false, "needs_fix": true, "issues": ["too vague"]}`},
		{text: "revised answer"},
	}}
	p := newTestPipeline(llm, nil)
	chat := newTestChat(t, session_models.DepthDeep)

	res, err := p.RunTurn(context.Background(), chat, "harden my ssh config")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	want := []string{"gate", "planner", "executor", "judge", "reviser"}
	if got := stages(llm); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	if res.Answer != "revised answer" {
		t.Fatalf("answer = %q, want the revision", res.Answer)
	}
	if chat.Messages[len(chat.Messages)-1].Content != "revised answer" {
		t.Fatal("history kept the draft instead of the revision")
	}
}

func TestDeepDepthKeepsDraftWhenJudgeApproves(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: planJSON(false)},
		{text: "draft answer"},
		{text: `{"ok": true, "needs_fix": false, "issues": []}`},
	}}
	p := newTestPipeline(llm, nil)
	chat := newTestChat(t, session_models.DepthDeep)

	res, err := p.RunTurn(context.Background(), chat, "harden my ssh config")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if got := stages(llm); len(got) != 4 {
		t.Fatalf("stages = %v, want no reviser call", got)
	}
	if res.Answer != "draft answer" {
		t.Fatalf("answer = %q", res.Answer)
	}
}

func TestUnparsableJudgeVerdictKeepsDraft(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: planJSON(false)},
		{text: "draft answer"},
		{text: "Looks fine to me!"},
	}}
	p := newTestPipeline(llm, nil)
	chat := newTestChat(t, session_models.DepthDeep)

	res, err := p.RunTurn(context.Background(), chat, "harden my ssh config")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if res.Answer != "draft answer" {
		t.Fatalf("answer = %q", res.Answer)
	}
}

func TestSearchResultsAggregateInQueryOrder(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: planJSON(true, "alpha", "beta")},
		{text: "answer with sources [1][2][3]"},
	}}
	searcher := &stubSearcher{results: map[string][]wsmodels.Result{
		"alpha": {
			{Title: "A1", URL: "https://a.example/1", Snippet: "first"},
			{Title: "A2", URL: "https://a.example/2", Snippet: "second"},
		},
		"beta": {
			{Title: "B1", URL: "https://b.example/1", Snippet: "third"},
		},
	}}
	p := newTestPipeline(llm, searcher)
	chat := newTestChat(t, session_models.DepthStandard)
	chat.UseWebSearch = true

	res, err := p.RunTurn(context.Background(), chat, "latest kernel release")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if len(searcher.queries) != 2 || searcher.queries[0] != "alpha" || searcher.queries[1] != "beta" {
		t.Fatalf("queries = %v", searcher.queries)
	}
	if len(res.Sources) != 3 || res.Sources[0].Title != "A1" || res.Sources[2].Title != "B1" {
		t.Fatalf("sources = %+v", res.Sources)
	}

	// The executor must see the numbered block inside a WEB CONTEXT message.
	exec := llm.calls[2]
	var webMsg string
	for _, m := range exec {
		if strings.Contains(m.Content, "WEB SEARCH RESULTS") {
			webMsg = m.Content
		}
	}
	if webMsg == "" {
		t.Fatal("executor never saw the web context")
	}
	for _, want := range []string{"[1] A1", "[2] A2", "[3] B1"} {
		if !strings.Contains(webMsg, want) {
			t.Fatalf("web context missing %q:\n%s", want, webMsg)
		}
	}
}

func TestFailingQueryBecomesWarningNotError(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: planJSON(true, "broken", "working")},
		{text: "answer [1]"},
	}}
	searcher := &stubSearcher{
		results: map[string][]wsmodels.Result{
			"working": {{Title: "W", URL: "https://w.example", Snippet: "ok"}},
		},
		errFor: map[string]error{"broken": errors.New("upstream 500")},
	}
	p := newTestPipeline(llm, searcher)
	chat := newTestChat(t, session_models.DepthStandard)
	chat.UseWebSearch = true

	res, err := p.RunTurn(context.Background(), chat, "latest kernel release")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "Web search failed") {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	if len(res.Sources) != 1 || res.Sources[0].Title != "W" {
		t.Fatalf("sources = %+v", res.Sources)
	}
}

func TestQueryCountIsCapped(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: planJSON(true, "q1", "q2", "q3", "q4", "q5")},
		{text: "answer"},
	}}
	searcher := &stubSearcher{}
	p := newTestPipeline(llm, searcher)
	chat := newTestChat(t, session_models.DepthStandard)
	chat.UseWebSearch = true

	if _, err := p.RunTurn(context.Background(), chat, "broad question"); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if len(searcher.queries) != MaxSearchQueries {
		t.Fatalf("issued %d queries, want %d", len(searcher.queries), MaxSearchQueries)
	}
}

func TestOfflinePrefixDisablesSearchForOneTurn(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: planJSON(true, "something current")},
		{text: "answer from memory"},
	}}
	searcher := &stubSearcher{}
	p := newTestPipeline(llm, searcher)
	chat := newTestChat(t, session_models.DepthStandard)
	chat.UseWebSearch = true

	res, err := p.RunTurn(context.Background(), chat, "offline: what changed in go 1.24")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if len(searcher.queries) != 0 {
		t.Fatalf("search ran despite offline prefix: %v", searcher.queries)
	}
	if res.Answer != "answer from memory" {
		t.Fatalf("answer = %q", res.Answer)
	}
	if got := chat.Messages[0].Content; got != "what changed in go 1.24" {
		t.Fatalf("stored user message = %q, prefix should be stripped", got)
	}
	if !chat.UseWebSearch {
		t.Fatal("per-turn override must not touch the chat setting")
	}
}

func TestExecutorFailureLeavesHistoryUntouched(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: gatePass},
		{text: planJSON(false)},
		{err: errors.New("stream reset")},
	}}
	p := newTestPipeline(llm, nil)
	chat := newTestChat(t, session_models.DepthStandard)

	_, err := p.RunTurn(context.Background(), chat, "explain cgroups")
	if err == nil {
		t.Fatal("expected an error from the failed answer call")
	}
	if len(chat.Messages) != 0 {
		t.Fatalf("history = %+v, want empty after a failed turn", chat.Messages)
	}
}

func TestGateFailureFailsOpen(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		{err: errors.New("gate timeout")},
		{text: planJSON(false)},
		{text: "answer anyway"},
	}}
	p := newTestPipeline(llm, nil)
	chat := newTestChat(t, session_models.DepthStandard)

	res, err := p.RunTurn(context.Background(), chat, "explain cgroups")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if res.AskedClarification || chat.Clarify.Awaiting {
		t.Fatal("failed gate must not block with clarification")
	}
	if res.Answer != "answer anyway" {
		t.Fatalf("answer = %q", res.Answer)
	}
}

func TestStripOfflinePrefix(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		forced bool
	}{
		{"offline: hello", "hello", true},
		{"No Web: hello", "hello", true},
		{"NOWEB:hello", "hello", true},
		{"  offline:   spaced  ", "spaced", true},
		{"offline hello", "offline hello", false},
		{"tell me about offline: mode", "tell me about offline: mode", false},
	}
	for _, c := range cases {
		got, forced := stripOfflinePrefix(c.in)
		if got != c.want || forced != c.forced {
			t.Errorf("stripOfflinePrefix(%q) = (%q, %t), want (%q, %t)", c.in, got, forced, c.want, c.forced)
		}
	}
}
