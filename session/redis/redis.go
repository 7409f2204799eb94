package redis_session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Naveen-2402/darkai/session/session_models"
)

const keyPrefix = "chat:"

// Store persists chats as JSON blobs in Redis, one key per chat, with the
// TTL refreshed on every write.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewChatStore(addr, password string, db int, ttl time.Duration) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: rdb, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, id string) (*session_models.ChatSession, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, session_models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var chat session_models.ChatSession
	if err := json.Unmarshal([]byte(val), &chat); err != nil {
		return nil, fmt.Errorf("decode chat %s: %w", id, err)
	}
	return &chat, nil
}

func (s *Store) Put(ctx context.Context, chat *session_models.ChatSession) error {
	blob, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("encode chat %s: %w", chat.ID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+chat.ID, blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return session_models.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*session_models.ChatSession, error) {
	var out []*session_models.ChatSession
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		val, err := s.client.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}
		var chat session_models.ChatSession
		if err := json.Unmarshal([]byte(val), &chat); err != nil {
			continue // skip unreadable blobs rather than failing the listing
		}
		out = append(out, &chat)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
