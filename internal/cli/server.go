package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"animation-quiz/internal/domain"
	pgstore "animation-quiz/internal/infra/postgres"
	"animation-quiz/internal/telemetry"
	transport "animation-quiz/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	log := rt.log

	if rt.db != nil {
		if err := migrateDB(ctx, rt); err != nil {
			return err
		}
		if err := ensureBank(ctx, rt); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = rt.cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	service := rt.service()
	wsHandler := transport.NewWSHandler(service, metrics, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/history", transport.NewHistoryHandler(service))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// ensureBank seeds the configured bank when Postgres does not have it yet.
func ensureBank(ctx context.Context, rt *runtime) error {
	_, err := pgstore.NewBankLoader(rt.pool).LoadBank(ctx, rt.cfg.Quiz.BankID)
	if err == nil || !errors.Is(err, domain.ErrBankNotFound) {
		return err
	}
	b, err := rt.configuredBank()
	if err != nil {
		return err
	}
	rt.log.Info().Str("bank_id", b.ID).Int("questions", len(b.Questions)).Msg("seeding question bank")
	return pgstore.SeedBank(ctx, rt.db, b)
}
