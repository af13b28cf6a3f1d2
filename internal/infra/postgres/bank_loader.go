package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"animation-quiz/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads question bank JSONB from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bank{}, fmt.Errorf("load bank %q: %w", bankID, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return domain.Bank{}, err
	}
	return bank, nil
}
