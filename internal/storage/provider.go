package storage

import (
	"animation-quiz/internal/app"
	"github.com/rs/zerolog"
)

// Keys names the storage keys; each player gets its own suffix.
type Keys struct {
	History string
	Audio   string
}

// Provider hands out per-player history and preference stores over one backend.
type Provider struct {
	kv   KV
	keys Keys
	max  int
	log  zerolog.Logger
}

func NewProvider(kv KV, keys Keys, maxHistory int, log zerolog.Logger) *Provider {
	if keys.History == "" {
		keys.History = DefaultHistoryKey
	}
	if keys.Audio == "" {
		keys.Audio = DefaultAudioKey
	}
	return &Provider{
		kv:   kv,
		keys: keys,
		max:  maxHistory,
		log:  log.With().Str("component", "storage").Logger(),
	}
}

func (p *Provider) History(playerID string) app.HistoryStore {
	return p.HistoryStore(playerID)
}

// HistoryStore is History with the concrete type, for callers outside the engine.
func (p *Provider) HistoryStore(playerID string) *HistoryStore {
	return NewHistoryStore(p.kv, ScopedKey(p.keys.History, playerID), p.max, p.log)
}

func (p *Provider) Preferences(playerID string) app.Preferences {
	return NewPreferences(p.kv, ScopedKey(p.keys.Audio, playerID), p.log)
}

// ScopedKey returns base:playerID, or base alone for an empty player.
func ScopedKey(base, playerID string) string {
	if playerID == "" {
		return base
	}
	return base + ":" + playerID
}
