package redis

import (
	"context"
	"sync"
	"time"

	"animation-quiz/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions stay in a local map; the engine state is per process.
//   - Redis only marks player liveness so other instances and operators can see
//     who is mid-attempt.
type SessionStore struct {
	client  *redis.Client
	ttl     time.Duration
	mu      sync.RWMutex
	players map[string]*app.Player
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:  client,
		ttl:     ttl,
		players: make(map[string]*app.Player),
	}
}

func (s *SessionStore) GetOrCreate(playerID string, create func() *app.Player) *app.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player, ok := s.players[playerID]; ok {
		return player
	}
	player := create()
	s.players[playerID] = player
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
	return player
}

func (s *SessionStore) Get(playerID string) (*app.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[playerID]
	return player, ok
}

func (s *SessionStore) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[playerID]; !ok {
		return
	}
	delete(s.players, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
}

func (s *SessionStore) key(playerID string) string {
	return "quiz:player:" + playerID
}
