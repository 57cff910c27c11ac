package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/propfirm/risk"
)

// GetEvaluation returns a single evaluation by ID.
func (j *SQLite) GetEvaluation(ctx context.Context, id string) (Evaluation, error) {
	var (
		e     Evaluation
		start string
		end   sql.NullString
	)

	row := j.db.QueryRowContext(ctx, `
		SELECT id, account_id, template_id, stage, status, start_date, end_date
		FROM evaluations
		WHERE id = ?`, id)

	err := row.Scan(&e.ID, &e.AccountID, &e.TemplateID, &e.Stage, &e.Status, &start, &end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Evaluation{}, fmt.Errorf("evaluation %q: %w", id, ErrNotFound)
		}
		return Evaluation{}, err
	}

	if e.StartDate, err = ParseDay(start); err != nil {
		return Evaluation{}, fmt.Errorf("evaluation %q start_date: %w", id, err)
	}
	if end.Valid {
		d, err := ParseDay(end.String)
		if err != nil {
			return Evaluation{}, fmt.Errorf("evaluation %q end_date: %w", id, err)
		}
		e.EndDate = &d
	}
	return e, nil
}

// GetTemplate returns a single rule template by ID.
func (j *SQLite) GetTemplate(ctx context.Context, id string) (RuleTemplate, error) {
	var (
		t   RuleTemplate
		cfg string
	)

	row := j.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, version, config
		FROM rule_templates
		WHERE id = ?`, id)

	if err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Version, &cfg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RuleTemplate{}, fmt.Errorf("template %q: %w", id, ErrNotFound)
		}
		return RuleTemplate{}, err
	}
	t.Config = []byte(cfg)
	return t, nil
}

// ListDailyPerformance returns the account's rows with trading_day within
// [from, to], oldest first.
func (j *SQLite) ListDailyPerformance(ctx context.Context, accountID string, from, to time.Time) ([]risk.DailyRow, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT trading_day, trade_count, net_pnl
		FROM daily_performance
		WHERE account_id = ? AND trading_day >= ? AND trading_day <= ?
		ORDER BY trading_day ASC`,
		accountID, from.Format(DayLayout), to.Format(DayLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []risk.DailyRow
	for rows.Next() {
		var (
			day, pnl string
			rec      risk.DailyRow
		)
		if err := rows.Scan(&day, &rec.TradeCount, &pnl); err != nil {
			return nil, err
		}
		if rec.TradingDay, err = ParseDay(day); err != nil {
			return nil, fmt.Errorf("trading_day %q: %w", day, err)
		}
		if rec.NetPnl, err = decimal.NewFromString(pnl); err != nil {
			return nil, fmt.Errorf("net_pnl %q on %s: %w", pnl, day, err)
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
