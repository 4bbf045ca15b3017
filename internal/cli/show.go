package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sequentlab/sequent/internal/sequence"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a sequence with its nesting levels",
	Long: `Show renders a sequence one step per line, indented by the nesting
levels the indentation pass assigned. Malformed sequences still render;
the sticky indentation error is printed after the listing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := sequence.LoadSequence(args[0])
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), sequence.Render(seq))

		if msg := seq.IndentationError(); msg != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\nindentation error: %s\n", msg)
		}
		return nil
	},
}
