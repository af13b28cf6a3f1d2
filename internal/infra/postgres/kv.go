package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

type kvEntry struct {
	bun.BaseModel `bun:"table:kv_entries"`

	Key       string    `bun:"key,pk"`
	Value     []byte    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// KV persists values in the kv_entries table.
type KV struct {
	db  *bun.DB
	now func() time.Time
}

func NewKV(db *bun.DB) *KV {
	return &KV{db: db, now: time.Now}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry kvEntry
	err := k.db.NewSelect().Model(&entry).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Value, true, nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	entry := &kvEntry{Key: key, Value: value, UpdatedAt: k.now()}
	_, err := k.db.NewInsert().
		Model(entry).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
