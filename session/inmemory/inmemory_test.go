package inmemory

import (
	"context"
	"testing"

	"github.com/Naveen-2402/darkai/session/session_models"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewChatStore()

	chat, err := session_models.NewChat("You are a travel planner.")
	if err != nil {
		t.Fatalf("NewChat: %v", err)
	}
	if err := store.Put(ctx, chat); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, chat.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Role != chat.Role {
		t.Fatalf("role = %q", got.Role)
	}

	chats, err := store.List(ctx)
	if err != nil || len(chats) != 1 {
		t.Fatalf("List: %v, %d chats", err, len(chats))
	}

	if err := store.Delete(ctx, chat.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, chat.ID); err != session_models.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, chat.ID); err != session_models.ErrNotFound {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}
