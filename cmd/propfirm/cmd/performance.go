package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propfirm/journal"
)

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Load daily performance history",
}

var performanceImportCmd = &cobra.Command{
	Use:   "import <account-id> <file.csv[.xz]>",
	Short: "Import daily rows for an account",
	Long: `Read trading_day,trade_count,net_pnl rows and store them for the
account. Rows for days already present are replaced. Files ending in .xz or
.lzma are decompressed.

Example:
  propfirm performance import acct-42 march.csv.xz`,
	Args: cobra.ExactArgs(2),
	RunE: runPerformanceImport,
}

func init() {
	rootCmd.AddCommand(performanceCmd)
	performanceCmd.AddCommand(performanceImportCmd)
}

func runPerformanceImport(cmd *cobra.Command, args []string) error {
	accountID, path := args[0], args[1]

	rows, err := journal.OpenDailyCSV(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	ctx := cmd.Context()
	j, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.UpsertDailyPerformance(ctx, accountID, rows); err != nil {
		return fmt.Errorf("save performance: %w", err)
	}
	logger.Info().Str("account_id", accountID).Int("rows", len(rows)).Msg("performance imported")

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows for %s\n", len(rows), accountID)
	return nil
}
