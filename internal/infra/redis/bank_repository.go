package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"animation-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches a question bank from a backing store (e.g., Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches banks in Redis and falls back to a loader on cache miss.
// Banks are stored as JSON: SET quiz:bank:{bankID} {json} EX ttl
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	log    zerolog.Logger

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration, log zerolog.Logger) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log.With().Str("component", "redis_bank_repository").Logger(),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := r.cached(ctx, bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx, bankID); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		data, err := json.Marshal(bank)
		if err != nil {
			return domain.Bank{}, err
		}
		if err := r.client.Set(ctx, bankKey(bankID), data, r.ttlWithJitter()).Err(); err != nil {
			r.log.Warn().Err(err).Str("bank_id", bankID).Msg("cache bank")
		}
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) cached(ctx context.Context, bankID string) (domain.Bank, bool) {
	data, err := r.client.Get(ctx, bankKey(bankID)).Bytes()
	if err != nil {
		return domain.Bank{}, false
	}
	var bank domain.Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		r.log.Warn().Err(err).Str("bank_id", bankID).Msg("drop corrupt cached bank")
		return domain.Bank{}, false
	}
	return bank, true
}

func bankKey(bankID string) string {
	return "quiz:bank:" + bankID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
