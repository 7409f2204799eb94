package session_models

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewChatDerivesTitle(t *testing.T) {
	chat, err := NewChat("  You are a terse math tutor.  ")
	if err != nil {
		t.Fatalf("NewChat: %v", err)
	}
	if chat.Role != "You are a terse math tutor." {
		t.Fatalf("role = %q", chat.Role)
	}
	if chat.Title != "You are a terse math tutor." {
		t.Fatalf("title = %q", chat.Title)
	}
	if len(chat.ID) != 8 {
		t.Fatalf("id = %q", chat.ID)
	}
}

func TestNewChatTruncatesLongTitle(t *testing.T) {
	role := strings.Repeat("x", 100)
	chat, err := NewChat(role)
	if err != nil {
		t.Fatalf("NewChat: %v", err)
	}
	if len(chat.Title) != 40 {
		t.Fatalf("title length = %d", len(chat.Title))
	}
	if chat.Role != role {
		t.Fatal("role must not be truncated")
	}
}

func TestNewChatRejectsEmptyRole(t *testing.T) {
	if _, err := NewChat("   "); err != ErrEmptyRole {
		t.Fatalf("err = %v", err)
	}
}

func TestMessagesForModelWindow(t *testing.T) {
	chat, _ := NewChat("role")
	for i := 0; i < 10; i++ {
		chat.Append("user", "q")
		chat.Append("assistant", "a")
	}

	got := chat.MessagesForModel(3)
	if len(got) != 7 { // system + 3 pairs
		t.Fatalf("len = %d, want 7", len(got))
	}
	if got[0].Role != "system" || got[0].Content != "role" {
		t.Fatalf("first message = %+v", got[0])
	}
	for i := 1; i < len(got); i += 2 {
		if got[i].Role != "user" || got[i+1].Role != "assistant" {
			t.Fatalf("order broken at %d: %+v", i, got[i])
		}
	}
}

func TestMessagesForModelCountFormula(t *testing.T) {
	chat, _ := NewChat("role")
	for _, turns := range []int{0, 1, 5, 40, 100} {
		chat.Messages = nil
		for i := 0; i < turns; i++ {
			chat.Append("user", "q")
		}
		got := chat.MessagesForModel(40)
		want := 1 + min(turns, 80)
		if len(got) != want {
			t.Fatalf("turns=%d: len=%d want=%d", turns, len(got), want)
		}
	}
}

func TestMessagesForModelIdempotent(t *testing.T) {
	chat, _ := NewChat("role")
	chat.Append("user", "hello")
	chat.Append("assistant", "hi")

	first := chat.MessagesForModel(40)
	second := chat.MessagesForModel(40)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated calls must yield identical output")
	}
}

func TestNewChatTruncatesTitleOnRuneBoundary(t *testing.T) {
	role := strings.Repeat("你", 50)
	chat, err := NewChat(role)
	if err != nil {
		t.Fatalf("NewChat: %v", err)
	}
	if !utf8.ValidString(chat.Title) {
		t.Fatalf("title is not valid UTF-8: %q", chat.Title)
	}
	if got := utf8.RuneCountInString(chat.Title); got != 40 {
		t.Fatalf("title rune count = %d", got)
	}
}
