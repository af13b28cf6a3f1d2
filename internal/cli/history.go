package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"animation-quiz/internal/domain"
	"github.com/spf13/cobra"
)

// NewHistoryCmd prints a player's persisted results.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var playerID string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print a player's quiz history, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), *configPath, playerID)
		},
	}
	cmd.Flags().StringVar(&playerID, "player", "", "player ID whose history to print")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

func runHistory(ctx context.Context, out io.Writer, configPath, playerID string) error {
	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	records := rt.storage.HistoryStore(playerID).ReadAll(ctx)
	return writeHistory(out, records, rt.cfg.Quiz.PassPercent)
}

func writeHistory(out io.Writer, records []domain.HistoryRecord, passPercent int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "no history")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPLETED\tSCORE\tPERCENT\tPASSED\tID")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d/%d\t%d%%\t%t\t%s\n",
			r.CompletedAt.Local().Format(time.RFC3339),
			r.Score, r.TotalQuestions, r.Percentage,
			r.Percentage >= passPercent, r.ID)
	}
	return w.Flush()
}
