package cli

import (
	"context"
	"fmt"
	"time"

	"animation-quiz/internal/app"
	"animation-quiz/internal/bank"
	"animation-quiz/internal/config"
	"animation-quiz/internal/domain"
	"animation-quiz/internal/infra/memory"
	pgstore "animation-quiz/internal/infra/postgres"
	redisstore "animation-quiz/internal/infra/redis"
	"animation-quiz/internal/logger"
	"animation-quiz/internal/storage"
	"animation-quiz/internal/telemetry"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
)

// runtime holds the infrastructure selected by config. Postgres wins over Redis
// for persistence, Redis wins over memory for caches and session liveness.
type runtime struct {
	cfg      config.Config
	log      zerolog.Logger
	redis    *redis.Client
	pool     *pgxpool.Pool
	db       *bun.DB
	kv       storage.KV
	banks    app.BankRepository
	sessions app.SessionRepository
	storage  *storage.Provider
}

func loadRuntime(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	return newRuntime(ctx, cfg, log)
}

func newRuntime(ctx context.Context, cfg config.Config, log zerolog.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: log}

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		telemetry.MonitorRedis(rt.redis, log)
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.pool = pool
		rt.db = pgstore.OpenBun(cfg.Postgres.URL)
	}

	var loader memory.BankLoader
	switch {
	case rt.pool != nil:
		loader = pgstore.NewBankLoader(rt.pool)
	default:
		b, err := rt.configuredBank()
		if err != nil {
			rt.Close()
			return nil, err
		}
		loader = memory.NewStaticBankLoader(b)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.BankTTL, 10*time.Minute)
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	if rt.redis != nil {
		rt.banks = redisstore.NewBankRepository(rt.redis, loader, bankTTL, log)
		rt.sessions = redisstore.NewSessionStore(rt.redis, redisTTL)
	} else {
		rt.banks = memory.NewBankRepository(loader, bankTTL)
		rt.sessions = memory.NewSessionStore()
	}

	switch {
	case rt.db != nil:
		rt.kv = pgstore.NewKV(rt.db)
	case rt.redis != nil:
		rt.kv = redisstore.NewKV(rt.redis, "", 0)
	default:
		rt.kv = memory.NewKV()
	}

	rt.storage = storage.NewProvider(rt.kv, storage.Keys{
		History: cfg.History.Key,
		Audio:   cfg.History.AudioKey,
	}, cfg.History.MaxEntries, log)
	return rt, nil
}

func (rt *runtime) sessionConfig() app.SessionConfig {
	return app.SessionConfig{
		QuestionsPerAttempt: rt.cfg.Quiz.QuestionsPerAttempt,
		SuccessPercent:      rt.cfg.Quiz.SuccessPercent,
		PassPercent:         rt.cfg.Quiz.PassPercent,
	}
}

func (rt *runtime) service() *app.QuizService {
	sampler := app.NewRepositoryBank(rt.banks, rt.cfg.Quiz.BankID, nil)
	return app.NewQuizService(rt.sessions, sampler, rt.storage, rt.sessionConfig(), rt.log)
}

// configuredBank returns the YAML bank file when set, otherwise the built-in
// bank. Either way it is stored under the configured bank ID.
func (rt *runtime) configuredBank() (domain.Bank, error) {
	b := bank.Default()
	if rt.cfg.Quiz.BankFile != "" {
		var err error
		if b, err = bank.LoadFile(rt.cfg.Quiz.BankFile); err != nil {
			return domain.Bank{}, fmt.Errorf("load bank file: %w", err)
		}
	}
	if rt.cfg.Quiz.BankID != "" {
		b.ID = rt.cfg.Quiz.BankID
	}
	return b, nil
}

func (rt *runtime) Close() {
	if rt.db != nil {
		_ = rt.db.Close()
	}
	if rt.pool != nil {
		rt.pool.Close()
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
}
