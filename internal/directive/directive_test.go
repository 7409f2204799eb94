package directive

import "testing"

type verdict struct {
	NeedInfo  bool     `json:"need_info"`
	Questions []string `json:"questions"`
	Reason    string   `json:"reason"`
}

func TestDecodePlainObject(t *testing.T) {
	var v verdict
	if !Decode(`{"need_info": true, "questions": ["which language?"], "reason": "ambiguous"}`, &v) {
		t.Fatal("expected decode to succeed")
	}
	if !v.NeedInfo || len(v.Questions) != 1 || v.Questions[0] != "which language?" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestDecodeFencedObject(t *testing.T) {
	raw := "```json\n{\"need_info\": false, \"questions\": [], \"reason\": \"\"}\n```"
	var v verdict
	if !Decode(raw, &v) {
		t.Fatal("expected fenced decode to succeed")
	}
	if v.NeedInfo {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestDecodeFenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"reason\": \"ok\"}\n```"
	var v verdict
	if !Decode(raw, &v) {
		t.Fatal("expected fenced decode to succeed")
	}
	if v.Reason != "ok" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestDecodeFailuresLeaveDefaultUntouched(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"prose":             "Sure! Here is what I think about your question.",
		"prose_around_json": "Here you go: {\"need_info\": true} hope that helps",
		"fenced_invalid":    "```json\n{need_info: yes}\n```",
		"non_object":        `["a", "b"]`,
		"scalar":            `42`,
		"quoted_string":     `"need_info"`,
	}
	for name, raw := range cases {
		v := verdict{NeedInfo: false, Reason: "default"}
		if Decode(raw, &v) {
			t.Errorf("%s: expected decode to fail", name)
		}
		if v.NeedInfo || v.Reason != "default" {
			t.Errorf("%s: default mutated: %+v", name, v)
		}
	}
}

func TestStripFence(t *testing.T) {
	if got := StripFence("  {\"a\":1}  "); got != `{"a":1}` {
		t.Fatalf("got %q", got)
	}
	if got := StripFence("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Fatalf("got %q", got)
	}
}
