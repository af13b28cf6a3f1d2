package app

import (
	"context"
	"sync"

	"animation-quiz/internal/domain"
	"github.com/rs/zerolog"
)

// SessionRepository abstracts where player sessions live (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(playerID string, create func() *Player) *Player
	Get(playerID string) (*Player, bool)
	Delete(playerID string)
}

// PlayerStorage resolves the per-player persisted state.
type PlayerStorage interface {
	History(playerID string) HistoryStore
	Preferences(playerID string) Preferences
}

// Preferences is the read/write view of a player's audio flag.
type Preferences interface {
	PreferenceStore
	SetAudioEnabled(ctx context.Context, enabled bool) error
}

// Player pairs a session with the lock that serializes its commands. conns
// counts the joined connections; the session is dropped when it reaches zero.
type Player struct {
	id      string
	mu      sync.Mutex
	session *QuizSession
	conns   int
	closed  bool
}

func NewPlayer(id string, session *QuizSession) *Player {
	return &Player{id: id, session: session}
}

func (p *Player) ID() string { return p.id }

// QuizService hosts one quiz session per player.
type QuizService struct {
	sessions SessionRepository
	bank     Sampler
	storage  PlayerStorage
	cfg      SessionConfig
	log      zerolog.Logger
}

func NewQuizService(sessions SessionRepository, bank Sampler, storage PlayerStorage, cfg SessionConfig, log zerolog.Logger) *QuizService {
	return &QuizService{
		sessions: sessions,
		bank:     bank,
		storage:  storage,
		cfg:      cfg.withDefaults(),
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// Join registers a connection for a player. A second connection for the same
// player shares the session and becomes its cue target.
func (s *QuizService) Join(_ context.Context, playerID string, cues CueEmitter) domain.Snapshot {
	for {
		player := s.sessions.GetOrCreate(playerID, func() *Player {
			return NewPlayer(playerID, s.newSession(playerID, cues))
		})

		player.mu.Lock()
		if player.closed {
			// lost a race with the last Leave; the store no longer holds it
			player.mu.Unlock()
			continue
		}
		player.conns++
		player.session.SetCueEmitter(cues)
		snap := player.session.Snapshot()
		player.mu.Unlock()
		return snap
	}
}

func (s *QuizService) Start(ctx context.Context, playerID string) (domain.Snapshot, error) {
	var err error
	snap, lookupErr := s.with(playerID, func(q *QuizSession) {
		err = q.Start(ctx)
	})
	if lookupErr != nil {
		return domain.Snapshot{}, lookupErr
	}
	return snap, err
}

func (s *QuizService) Select(_ context.Context, playerID string, option int) (domain.Snapshot, error) {
	return s.with(playerID, func(q *QuizSession) { q.SelectOption(option) })
}

func (s *QuizService) Goto(_ context.Context, playerID string, position int) (domain.Snapshot, error) {
	return s.with(playerID, func(q *QuizSession) { q.Goto(position) })
}

func (s *QuizService) Advance(_ context.Context, playerID string) (domain.Snapshot, error) {
	return s.with(playerID, func(q *QuizSession) { q.Advance() })
}

func (s *QuizService) Retreat(_ context.Context, playerID string) (domain.Snapshot, error) {
	return s.with(playerID, func(q *QuizSession) { q.Retreat() })
}

func (s *QuizService) Submit(ctx context.Context, playerID string) (domain.Snapshot, error) {
	return s.with(playerID, func(q *QuizSession) { q.Submit(ctx) })
}

func (s *QuizService) Reset(_ context.Context, playerID string) (domain.Snapshot, error) {
	return s.with(playerID, func(q *QuizSession) { q.Reset() })
}

func (s *QuizService) Snapshot(_ context.Context, playerID string) (domain.Snapshot, error) {
	return s.with(playerID, func(*QuizSession) {})
}

// History reads a player's persisted results; it does not require a live session.
func (s *QuizService) History(ctx context.Context, playerID string) []domain.HistoryRecord {
	return s.storage.History(playerID).ReadAll(ctx)
}

// SetAudio stores the player's audio flag. It takes effect on the next Start.
func (s *QuizService) SetAudio(ctx context.Context, playerID string, enabled bool) error {
	return s.storage.Preferences(playerID).SetAudioEnabled(ctx, enabled)
}

// Leave releases one connection. The attempt is abandoned and the session
// dropped only when no other connection for the player remains.
func (s *QuizService) Leave(_ context.Context, playerID string) {
	player, ok := s.sessions.Get(playerID)
	if !ok {
		return
	}
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.closed {
		return
	}
	player.conns--
	if player.conns > 0 {
		return
	}
	player.closed = true
	s.sessions.Delete(playerID)
}

func (s *QuizService) with(playerID string, fn func(*QuizSession)) (domain.Snapshot, error) {
	player, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.Snapshot{}, domain.ErrPlayerNotFound
	}
	player.mu.Lock()
	defer player.mu.Unlock()
	fn(player.session)
	return player.session.Snapshot(), nil
}

func (s *QuizService) newSession(playerID string, cues CueEmitter) *QuizSession {
	log := s.log.With().Str("player_id", playerID).Logger()
	return NewQuizSession(s.cfg, s.bank, s.storage.History(playerID), cues,
		WithPreferences(s.storage.Preferences(playerID)),
		WithLogger(log),
	)
}
