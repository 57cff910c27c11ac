package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/propfirm/evaluate"
	"github.com/rustyeddy/propfirm/journal"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <account-id> <evaluation-id>",
	Short: "Evaluate an account against its stage rules",
	Long: `Load the evaluation, its rule template and the account's daily
performance since the start date, then judge every rule of the stage.

Examples:
  propfirm evaluate acct-42 ev_01HV3K
  propfirm evaluate acct-42 ev_01HV3K --as-of 2024-03-15 --format org`,
	Args: cobra.ExactArgs(2),
	RunE: runEvaluate,
}

var (
	evaluateAsOf   string
	evaluateFormat string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateAsOf, "as-of", "", "evaluate as of this day (YYYY-MM-DD); defaults to today")
	evaluateCmd.Flags().StringVarP(&evaluateFormat, "format", "f", "json", "output format: json, org or csv")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	switch evaluateFormat {
	case "json", "org", "csv":
	default:
		return fmt.Errorf("unknown format %q (want json, org or csv)", evaluateFormat)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	asOf := time.Now()
	if evaluateAsOf != "" {
		asOf, err = time.ParseInLocation(journal.DayLayout, evaluateAsOf, loc)
		if err != nil {
			return fmt.Errorf("as-of: %w", err)
		}
	}

	ctx := cmd.Context()
	j, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer j.Close()

	reg := prometheus.NewRegistry()
	metrics, err := evaluate.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	svc := evaluate.NewService(j,
		evaluate.WithLogger(logger),
		evaluate.WithLocation(loc),
		evaluate.WithMetrics(metrics),
	)
	rep, evalErr := svc.Evaluate(ctx, args[0], args[1], asOf)

	if cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, reg); err != nil {
			logger.Error().Err(err).Str("path", cfg.Metrics.Textfile).Msg("write metrics textfile")
		}
	}
	if evalErr != nil {
		return evalErr
	}

	out := cmd.OutOrStdout()
	switch evaluateFormat {
	case "org":
		s, err := journal.FormatEvaluationOrg(rep.Evaluation, rep.AsOf, rep.Result)
		if err != nil {
			return fmt.Errorf("format org: %w", err)
		}
		fmt.Fprint(out, s)
		return nil
	case "csv":
		return journal.WriteResultsCSV(out, rep.Result)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep.Result)
}
