package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sequentlab/sequent/internal/db"
	"github.com/sequentlab/sequent/internal/models"
)

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum number of events to show")
}

var historyCmd = &cobra.Command{
	Use:   "history <label>",
	Short: "Show recorded execution events for a sequence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		if database == nil {
			return fmt.Errorf("no event database configured (set db_path)")
		}
		defer database.Close()

		repo := db.NewEventRepository(database)
		listed, err := repo.ListByEntity(ctx, models.EntityTypeSequence, args[0], historyLimit)
		if err != nil {
			return err
		}

		if len(listed) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no events recorded")
			return nil
		}

		rows := make([][]string, 0, len(listed))
		for _, event := range listed {
			rows = append(rows, []string{
				event.Timestamp.Local().Format(time.RFC3339),
				string(event.Type),
				truncate(string(event.Payload), 64),
			})
		}

		return writeTable(cmd.OutOrStdout(), []string{"TIME", "TYPE", "PAYLOAD"}, rows)
	},
}
