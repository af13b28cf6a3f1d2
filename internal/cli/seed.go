package cli

import (
	"context"
	"fmt"

	pgstore "animation-quiz/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// NewSeedCmd writes the configured question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the configured question bank into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	if rt.db == nil {
		return fmt.Errorf("postgres url not configured")
	}

	b, err := rt.configuredBank()
	if err != nil {
		return err
	}
	if err := pgstore.SeedBank(ctx, rt.db, b); err != nil {
		return err
	}
	rt.log.Info().Str("bank_id", b.ID).Int("questions", len(b.Questions)).Msg("question bank seeded")
	return nil
}
