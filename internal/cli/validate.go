package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sequentlab/sequent/internal/sequence"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a sequence file is well-formed",
	Long: `Validate loads a sequence file and runs the two-phase syntax check:
the indentation pass assigns nesting levels and catches malformed nesting,
then the structural checker verifies each IF/WHILE/TRY construct.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := sequence.LoadSequence(args[0])
		if err != nil {
			return err
		}

		if err := seq.CheckSyntax(); err != nil {
			return fmt.Errorf("sequence %q: %w", seq.Label(), err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "sequence %q is valid (%d steps)\n",
			seq.Label(), seq.Len())
		return nil
	},
}
