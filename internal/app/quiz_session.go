package app

import (
	"context"
	"fmt"
	"time"

	"animation-quiz/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultQuestionsPerAttempt = 5
	DefaultSuccessPercent      = 80
	DefaultPassPercent         = 60
)

// HistoryStore persists completed attempts. ReadAll never fails; an unreadable
// store reads as empty.
type HistoryStore interface {
	Append(ctx context.Context, record domain.HistoryRecord) error
	ReadAll(ctx context.Context) []domain.HistoryRecord
}

// PreferenceStore exposes the persisted audio flag.
type PreferenceStore interface {
	AudioEnabled(ctx context.Context) bool
}

// CueEmitter forwards cues to the presentation layer without waiting on them.
type CueEmitter interface {
	Emit(cue domain.Cue)
}

// CueFunc adapts a function to CueEmitter.
type CueFunc func(cue domain.Cue)

func (f CueFunc) Emit(cue domain.Cue) { f(cue) }

type nopCues struct{}

func (nopCues) Emit(domain.Cue) {}

// SessionConfig holds the attempt size and the two independent thresholds:
// SuccessPercent picks the result cue, PassPercent only feeds Result.Passed.
type SessionConfig struct {
	QuestionsPerAttempt int
	SuccessPercent      int
	PassPercent         int
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.QuestionsPerAttempt <= 0 {
		c.QuestionsPerAttempt = DefaultQuestionsPerAttempt
	}
	if c.SuccessPercent <= 0 {
		c.SuccessPercent = DefaultSuccessPercent
	}
	if c.PassPercent <= 0 {
		c.PassPercent = DefaultPassPercent
	}
	return c
}

// SessionOption customises a QuizSession.
type SessionOption func(*QuizSession)

// WithClock is used for deterministic timestamps in tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *QuizSession) { s.now = now }
}

// WithIDGenerator overrides how history record IDs are produced.
func WithIDGenerator(newID func() string) SessionOption {
	return func(s *QuizSession) { s.newID = newID }
}

func WithLogger(log zerolog.Logger) SessionOption {
	return func(s *QuizSession) { s.log = log }
}

func WithPreferences(prefs PreferenceStore) SessionOption {
	return func(s *QuizSession) { s.prefs = prefs }
}

// QuizSession owns the lifecycle of one quiz attempt at a time. It is not safe
// for concurrent use; callers serialize commands.
type QuizSession struct {
	cfg     SessionConfig
	bank    Sampler
	history HistoryStore
	prefs   PreferenceStore
	cues    CueEmitter
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger

	phase        domain.Phase
	questions    []domain.Question
	answers      []domain.Answer
	position     int
	audioEnabled bool
	result       *domain.Result
}

func NewQuizSession(cfg SessionConfig, bank Sampler, history HistoryStore, cues CueEmitter, opts ...SessionOption) *QuizSession {
	if cues == nil {
		cues = nopCues{}
	}
	s := &QuizSession{
		cfg:     cfg.withDefaults(),
		bank:    bank,
		history: history,
		cues:    cues,
		now:     time.Now,
		newID:   newRecordID,
		log:     zerolog.Nop(),
		phase:   domain.PhaseNotStarted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCueEmitter rebinds the cue target, e.g. when a player reconnects.
func (s *QuizSession) SetCueEmitter(cues CueEmitter) {
	if cues == nil {
		cues = nopCues{}
	}
	s.cues = cues
}

// Start samples a new attempt. It is a no-op while an attempt is in progress.
func (s *QuizSession) Start(ctx context.Context) error {
	if s.phase == domain.PhaseInProgress {
		return nil
	}

	questions, err := s.bank.Sample(ctx, s.cfg.QuestionsPerAttempt)
	if err != nil {
		return fmt.Errorf("start attempt: %w", err)
	}

	s.questions = questions
	s.answers = make([]domain.Answer, len(questions))
	s.position = 0
	s.result = nil
	s.audioEnabled = true
	if s.prefs != nil {
		s.audioEnabled = s.prefs.AudioEnabled(ctx)
	}
	s.phase = domain.PhaseInProgress

	s.emit(domain.CueSessionBegin)
	return nil
}

// SelectOption records option i for the current question. Selecting the same
// option again leaves the answers unchanged but replays the cue.
func (s *QuizSession) SelectOption(i int) bool {
	if s.phase != domain.PhaseInProgress {
		return false
	}
	if i < 0 || i >= len(s.questions[s.position].Options) {
		return false
	}
	s.answers[s.position] = domain.Chosen(i)
	s.emit(domain.CueOptionSelected)
	return true
}

// Goto moves to position p. Positions outside [0, N) are ignored.
func (s *QuizSession) Goto(p int) bool {
	if s.phase != domain.PhaseInProgress {
		return false
	}
	if p < 0 || p >= len(s.questions) {
		return false
	}
	s.position = p
	return true
}

func (s *QuizSession) Advance() bool { return s.Goto(s.position + 1) }

func (s *QuizSession) Retreat() bool { return s.Goto(s.position - 1) }

// Submit scores the attempt and persists a history record. Unanswered slots
// count as incorrect. A failed history write is logged; the result stands.
func (s *QuizSession) Submit(ctx context.Context) (domain.Result, bool) {
	if s.phase != domain.PhaseInProgress {
		return domain.Result{}, false
	}

	score := 0
	for i, q := range s.questions {
		if s.answers[i].Matches(q.CorrectIndex) {
			score++
		}
	}
	total := len(s.questions)
	pct := domain.Percentage(score, total)

	result := domain.Result{
		Score:      score,
		Total:      total,
		Percentage: pct,
		Passed:     pct >= s.cfg.PassPercent,
		Success:    total > 0 && score*100 >= s.cfg.SuccessPercent*total,
		Record: domain.HistoryRecord{
			ID:             s.newID(),
			Score:          score,
			TotalQuestions: total,
			Percentage:     pct,
			CompletedAt:    s.now(),
		},
	}
	s.result = &result
	s.phase = domain.PhaseCompleted

	if s.history != nil {
		if err := s.history.Append(ctx, result.Record); err != nil {
			s.log.Warn().Err(err).Str("record_id", result.Record.ID).Msg("persist history record")
		}
	}

	if result.Success {
		s.emit(domain.CueResultSuccess)
	} else {
		s.emit(domain.CueResultRetry)
	}
	return result, true
}

// Reset discards the current attempt. Persisted history is untouched.
func (s *QuizSession) Reset() bool {
	if s.phase == domain.PhaseNotStarted {
		return false
	}
	s.phase = domain.PhaseNotStarted
	s.questions = nil
	s.answers = nil
	s.position = 0
	s.result = nil
	s.emit(domain.CueReset)
	return true
}

func (s *QuizSession) Phase() domain.Phase { return s.phase }

func (s *QuizSession) Position() int { return s.position }

// Answers returns a copy of the answer slots.
func (s *QuizSession) Answers() []domain.Answer {
	if s.answers == nil {
		return nil
	}
	out := make([]domain.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Snapshot returns a copy of the attempt state.
func (s *QuizSession) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Phase:        s.phase,
		Position:     s.position,
		Answers:      s.Answers(),
		AudioEnabled: s.audioEnabled,
	}
	if s.questions != nil {
		snap.Questions = make([]domain.Question, len(s.questions))
		copy(snap.Questions, s.questions)
	}
	for _, a := range s.answers {
		if a.IsAnswered() {
			snap.Answered++
		}
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

func (s *QuizSession) emit(cue domain.Cue) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).Str("cue", string(cue)).Msg("cue emitter failed")
		}
	}()
	s.cues.Emit(cue)
}

func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
