package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"animation-quiz/internal/domain"
	"github.com/rs/zerolog"
)

const (
	DefaultHistoryKey = "quizHistory"
	DefaultAudioKey   = "quizMusicEnabled"
	DefaultMaxHistory = 20
)

// KV is the persisted key-value backend. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// HistoryStore keeps a capped, most-recent-first list of results under one key.
type HistoryStore struct {
	kv  KV
	key string
	max int
	log zerolog.Logger
}

func NewHistoryStore(kv KV, key string, max int, log zerolog.Logger) *HistoryStore {
	if key == "" {
		key = DefaultHistoryKey
	}
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &HistoryStore{kv: kv, key: key, max: max, log: log}
}

func (h *HistoryStore) Key() string { return h.key }

// Append inserts record at the head and evicts the oldest entries beyond the cap.
// A failed read aborts the write so stored records are never replaced by a
// partial list; a missing or undecodable payload starts from empty.
func (h *HistoryStore) Append(ctx context.Context, record domain.HistoryRecord) error {
	data, ok, err := h.kv.Get(ctx, h.key)
	if err != nil {
		return fmt.Errorf("read history %q: %w", h.key, err)
	}
	current := []domain.HistoryRecord{}
	if ok {
		current = h.decode(data)
	}

	records := make([]domain.HistoryRecord, 0, len(current)+1)
	records = append(records, record)
	records = append(records, current...)
	if len(records) > h.max {
		records = records[:h.max]
	}

	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := h.kv.Set(ctx, h.key, encoded); err != nil {
		return fmt.Errorf("write history %q: %w", h.key, err)
	}
	return nil
}

// ReadAll returns the stored list, or an empty list when nothing is stored or
// the payload cannot be read.
func (h *HistoryStore) ReadAll(ctx context.Context) []domain.HistoryRecord {
	data, ok, err := h.kv.Get(ctx, h.key)
	if err != nil {
		h.log.Warn().Err(err).Str("key", h.key).Msg("read history")
		return []domain.HistoryRecord{}
	}
	if !ok {
		return []domain.HistoryRecord{}
	}
	return h.decode(data)
}

func (h *HistoryStore) decode(data []byte) []domain.HistoryRecord {
	if len(data) == 0 {
		return []domain.HistoryRecord{}
	}
	var records []domain.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		h.log.Warn().Err(err).Str("key", h.key).Msg("corrupt history payload")
		return []domain.HistoryRecord{}
	}
	if records == nil {
		return []domain.HistoryRecord{}
	}
	if len(records) > h.max {
		records = records[:h.max]
	}
	return records
}
