package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/Naveen-2402/darkai/session/session_models"
)

// Store keeps chats in a process-local map. Suitable for single-node
// deployments and tests; no durability.
type Store struct {
	chats map[string]*session_models.ChatSession
	mu    sync.RWMutex
}

func NewChatStore() *Store {
	return &Store{chats: make(map[string]*session_models.ChatSession)}
}

func (s *Store) Get(ctx context.Context, id string) (*session_models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.chats[id]
	if !ok {
		return nil, session_models.ErrNotFound
	}
	return chat, nil
}

func (s *Store) Put(ctx context.Context, chat *session_models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chat.ID] = chat
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chats[id]; !ok {
		return session_models.ErrNotFound
	}
	delete(s.chats, id)
	return nil
}

func (s *Store) List(ctx context.Context) ([]*session_models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*session_models.ChatSession, 0, len(s.chats))
	for _, c := range s.chats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
