package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"animation-quiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches a question bank from a backing store (e.g., Postgres, YAML file).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches banks with TTL to avoid repeated loader hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[bankID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.bank, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[bankID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.bank, nil
		}
		r.mu.RUnlock()

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			bank:      bank,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// StaticBankLoader serves banks from an in-memory map (built-in bank, YAML file, tests).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks ...domain.Bank) *StaticBankLoader {
	m := make(map[string]domain.Bank, len(banks))
	for _, b := range banks {
		m[b.ID] = b
	}
	return &StaticBankLoader{banks: m}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if b, ok := l.banks[bankID]; ok {
		return b, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
