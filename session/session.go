package session

import (
	"context"
	"fmt"

	"github.com/Naveen-2402/darkai/config"
	"github.com/Naveen-2402/darkai/session/inmemory"
	redis_session "github.com/Naveen-2402/darkai/session/redis"
	"github.com/Naveen-2402/darkai/session/session_models"
)

// ErrNotFound is returned when a chat id is unknown to the store.
var ErrNotFound = session_models.ErrNotFound

// Store is the injected chat registry the pipeline and server depend on.
// The interface keeps the rest of the system independent of the backing:
// swapping the in-memory map for a persistent store is a construction-time
// decision that never touches pipeline logic.
type Store interface {
	Get(ctx context.Context, id string) (*session_models.ChatSession, error)
	Put(ctx context.Context, chat *session_models.ChatSession) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*session_models.ChatSession, error)
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
)

// NewStore builds a chat store from configuration.
func NewStore(cfg config.SessionConfig) (Store, error) {
	switch StoreType(cfg.Store) {
	case InMemoryStore:
		return inmemory.NewChatStore(), nil
	case RedisStore:
		return redis_session.NewChatStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Store)
	}
}
