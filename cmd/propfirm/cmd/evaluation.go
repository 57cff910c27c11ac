package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propfirm/journal"
	"github.com/rustyeddy/propfirm/pkg/id"
)

var evaluationCmd = &cobra.Command{
	Use:   "evaluation",
	Short: "Manage evaluations",
	Long: `An evaluation ties an account to one stage of a rule template from
a start date onward.

Example:
  propfirm evaluation create --account acct-42 --template tmpl_01HV3K --stage evaluation --start 2024-03-01`,
}

var evaluationCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an active evaluation",
	Args:  cobra.NoArgs,
	RunE:  runEvaluationCreate,
}

var (
	evaluationID       string
	evaluationAccount  string
	evaluationTemplate string
	evaluationStage    string
	evaluationStart    string
)

func init() {
	rootCmd.AddCommand(evaluationCmd)
	evaluationCmd.AddCommand(evaluationCreateCmd)

	evaluationCreateCmd.Flags().StringVar(&evaluationID, "id", "", "evaluation id (generated when empty)")
	evaluationCreateCmd.Flags().StringVar(&evaluationAccount, "account", "", "account id (required)")
	evaluationCreateCmd.Flags().StringVar(&evaluationTemplate, "template", "", "rule template id (required)")
	evaluationCreateCmd.Flags().StringVar(&evaluationStage, "stage", "evaluation", "stage key")
	evaluationCreateCmd.Flags().StringVar(&evaluationStart, "start", "", "start date YYYY-MM-DD (required)")
	evaluationCreateCmd.MarkFlagRequired("account")
	evaluationCreateCmd.MarkFlagRequired("template")
	evaluationCreateCmd.MarkFlagRequired("start")
}

func runEvaluationCreate(cmd *cobra.Command, args []string) error {
	start, err := journal.ParseDay(evaluationStart)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	ctx := cmd.Context()
	j, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer j.Close()

	if _, err := j.GetTemplate(ctx, evaluationTemplate); err != nil {
		return fmt.Errorf("template %s: %w", evaluationTemplate, err)
	}

	ev := journal.Evaluation{
		ID:         evaluationID,
		AccountID:  evaluationAccount,
		TemplateID: evaluationTemplate,
		Stage:      evaluationStage,
		Status:     "active",
		StartDate:  start,
	}
	if ev.ID == "" {
		ev.ID = id.Prefixed("ev")
	}
	if err := j.InsertEvaluation(ctx, ev); err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}
	logger.Info().Str("evaluation_id", ev.ID).Str("account_id", ev.AccountID).Str("stage", ev.Stage).Msg("evaluation created")

	fmt.Fprintln(cmd.OutOrStdout(), ev.ID)
	return nil
}
