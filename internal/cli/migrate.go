package cli

import (
	"context"
	"fmt"

	pgmigrations "animation-quiz/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	if rt.db == nil {
		return fmt.Errorf("postgres url not configured")
	}
	return migrateDB(ctx, rt)
}

func migrateDB(ctx context.Context, rt *runtime) error {
	migrator := migrate.NewMigrator(rt.db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		rt.log.Info().Msg("no new migrations")
		return nil
	}
	rt.log.Info().Str("group", group.String()).Msg("migrations applied")
	return nil
}
