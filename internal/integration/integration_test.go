package integration

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"animation-quiz/internal/app"
	"animation-quiz/internal/domain"
	"animation-quiz/internal/infra/postgres"
	pgmigrations "animation-quiz/internal/infra/postgres/migrations"
	infraredis "animation-quiz/internal/infra/redis"
	"animation-quiz/internal/storage"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

func TestAttemptPersistsHistoryEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := postgres.OpenBun(pgURL)
	defer db.Close()
	migrateAndSeed(t, ctx, db, sampleBank())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	log := zerolog.Nop()
	banks := infraredis.NewBankRepository(redisClient, postgres.NewBankLoader(pool), 5*time.Minute, log)
	sampler := app.NewRepositoryBank(banks, "it", app.NewShuffler(rand.New(rand.NewSource(5))))
	provider := storage.NewProvider(postgres.NewKV(db), storage.Keys{}, storage.DefaultMaxHistory, log)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(sessions, sampler, provider, app.SessionConfig{}, log)

	service.Join(ctx, "alice", nil)
	snap, err := service.Start(ctx, "alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(snap.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(snap.Questions))
	}
	for i, q := range snap.Questions {
		if _, err := service.Goto(ctx, "alice", i); err != nil {
			t.Fatalf("goto: %v", err)
		}
		choice := q.CorrectIndex
		if i == 0 {
			choice = (q.CorrectIndex + 1) % len(q.Options)
		}
		if _, err := service.Select(ctx, "alice", choice); err != nil {
			t.Fatalf("select: %v", err)
		}
	}
	snap, err = service.Submit(ctx, "alice")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if snap.Result == nil || snap.Result.Score != 4 || snap.Result.Percentage != 80 || !snap.Result.Success {
		t.Fatalf("expected 4/5 success, got %+v", snap.Result)
	}

	// a fresh provider over the same table sees the persisted record
	reread := storage.NewProvider(postgres.NewKV(db), storage.Keys{}, storage.DefaultMaxHistory, log)
	records := reread.History("alice").ReadAll(ctx)
	if len(records) != 1 || records[0].Score != 4 || records[0].TotalQuestions != 5 {
		t.Fatalf("unexpected persisted history: %+v", records)
	}

	if n, err := redisClient.Exists(ctx, "quiz:bank:it").Result(); err != nil || n != 1 {
		t.Fatalf("expected bank cached in redis, exists=%d err=%v", n, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "animation"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/animation?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateAndSeed(t *testing.T, ctx context.Context, db *bun.DB, b domain.Bank) {
	t.Helper()
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := postgres.SeedBank(ctx, db, b); err != nil {
		t.Fatalf("seed bank: %v", err)
	}
}

func sampleBank() domain.Bank {
	questions := make([]domain.Question, 7)
	for i := range questions {
		questions[i] = domain.Question{
			ID:           i + 1,
			Prompt:       fmt.Sprintf("Question %d", i+1),
			Options:      []string{"Cel", "Stop motion", "CGI"},
			CorrectIndex: i % 3,
		}
	}
	return domain.Bank{ID: "it", Title: "Integration", Questions: questions}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
