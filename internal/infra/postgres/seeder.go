package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"animation-quiz/internal/domain"
	"github.com/uptrace/bun"
)

type questionBankRow struct {
	bun.BaseModel `bun:"table:question_banks"`

	ID   string          `bun:"id,pk"`
	Data json.RawMessage `bun:"data,type:jsonb,notnull"`
}

// SeedBank upserts a validated bank into question_banks.
func SeedBank(ctx context.Context, db *bun.DB, bank domain.Bank) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	row := &questionBankRow{ID: bank.ID, Data: data}
	if _, err := db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx); err != nil {
		return fmt.Errorf("seed bank %q: %w", bank.ID, err)
	}
	return nil
}
