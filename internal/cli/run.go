package cli

import (
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sequentlab/sequent/internal/db"
	"github.com/sequentlab/sequent/internal/executor"
	"github.com/sequentlab/sequent/internal/script"
	"github.com/sequentlab/sequent/internal/sequence"
)

var (
	runVars      []string
	runNoEvents  bool
	runStepLimit time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArrayVar(&runVars, "var", nil, "context variable as name=value (repeatable)")
	runCmd.Flags().BoolVar(&runNoEvents, "no-events", false, "do not record execution events")
	runCmd.Flags().DurationVar(&runStepLimit, "step-timeout", 0, "per-step timeout (overrides the default)")
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Validate and execute a sequence",
	Example: `  # Run with two context variables
  sequent run startup.yaml --var target_temp=23.5 --var mode=hot

  # Run without recording events
  sequent run startup.yaml --no-events`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		seq, err := sequence.LoadSequence(args[0])
		if err != nil {
			return err
		}

		vars, err := parseVars(runVars)
		if err != nil {
			return err
		}

		cfg := executor.DefaultConfig()
		if runStepLimit > 0 {
			cfg.StepTimeout = runStepLimit
		}

		var database *db.DB
		if !runNoEvents {
			database, err = openDatabase(ctx)
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
				cfg.EventSink = db.NewEventRepository(database)
			}
		}

		if err := executor.New(cfg).Run(ctx, seq, vars); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "sequence %q completed\n", seq.Label())
		return nil
	},
}

// parseVars turns repeated name=value flags into a script context. Values
// are parsed as int, float, or bool when possible, otherwise kept as text.
func parseVars(pairs []string) (script.Context, error) {
	vars := script.Context{}
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --var %q (want name=value)", pair)
		}
		name = strings.TrimSpace(name)
		if err := script.CheckVariableName(name); err != nil {
			return nil, err
		}
		vars[name] = parseValue(strings.TrimSpace(value))
	}
	return vars, nil
}

func parseValue(text string) any {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(text); err == nil {
		return b
	}
	return text
}
