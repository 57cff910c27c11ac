package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/propfirm/risk"
)

type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) InsertEvaluation(ctx context.Context, e Evaluation) error {
	var end sql.NullString
	if e.EndDate != nil {
		end = sql.NullString{String: e.EndDate.Format(DayLayout), Valid: true}
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(id, account_id, template_id, stage, status, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, e.TemplateID, e.Stage, e.Status,
		e.StartDate.Format(DayLayout), end,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation %q: %w", e.ID, err)
	}
	return nil
}

func (j *SQLite) UpsertTemplate(ctx context.Context, t RuleTemplate) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO rule_templates (id, owner_id, name, version, config)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			version = excluded.version,
			config = excluded.config`,
		t.ID, t.OwnerID, t.Name, t.Version, string(t.Config),
	)
	if err != nil {
		return fmt.Errorf("upsert template %q: %w", t.ID, err)
	}
	return nil
}

// UpsertDailyPerformance writes rows in one transaction, replacing any
// existing row for the same account and day.
func (j *SQLite) UpsertDailyPerformance(ctx context.Context, accountID string, rows []risk.DailyRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_performance (account_id, trading_day, trade_count, net_pnl)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id, trading_day) DO UPDATE SET
			trade_count = excluded.trade_count,
			net_pnl = excluded.net_pnl`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, accountID, r.TradingDay.Format(DayLayout), r.TradeCount, r.NetPnl.String()); err != nil {
			return fmt.Errorf("upsert %s: %w", r.TradingDay.Format(DayLayout), err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
