package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sequentlab/sequent/internal/sequence"
)

var listDir string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDir, "dir", "", "sequence directory (default: configured dir and search paths)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sequences",
	RunE: func(cmd *cobra.Command, args []string) error {
		var sequences []*sequence.Sequence
		var err error

		switch {
		case listDir != "":
			sequences, err = sequence.LoadSequencesFromDir(listDir)
		case appConfig.SequenceDir != "":
			sequences, err = sequence.LoadSequencesFromDir(appConfig.SequenceDir)
		default:
			sequences, err = sequence.LoadSequencesFromSearchPaths("")
		}
		if err != nil {
			return err
		}

		if len(sequences) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no sequences found")
			return nil
		}

		rows := make([][]string, 0, len(sequences))
		for _, seq := range sequences {
			rows = append(rows, []string{
				truncate(seq.Label(), 48),
				fmt.Sprintf("%d", seq.Len()),
				formatValid(seq.CheckSyntax()),
			})
		}

		return writeTable(cmd.OutOrStdout(), []string{"LABEL", "STEPS", "SYNTAX"}, rows)
	},
}
