package memory

import (
	"sync"

	"animation-quiz/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu      sync.RWMutex
	players map[string]*app.Player
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
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
	delete(s.players, playerID)
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
