package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/propfirm/journal"
	"github.com/rustyeddy/propfirm/risk"
)

// Store implements journal.Journal using PostgreSQL.
type Store struct {
	pool *Pool
}

// NewStore creates a Store on an open pool. Close closes the pool.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

// Compile-time interface check.
var _ journal.Journal = (*Store)(nil)

// GetEvaluation retrieves an evaluation by ID. Returns journal.ErrNotFound if none.
func (s *Store) GetEvaluation(ctx context.Context, id string) (journal.Evaluation, error) {
	query := `
		SELECT id, account_id, template_id, stage, status, start_date, end_date
		FROM evaluations
		WHERE id = $1
	`

	var e journal.Evaluation
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.AccountID, &e.TemplateID, &e.Stage, &e.Status, &e.StartDate, &e.EndDate,
	)
	if err != nil {
		if isNotFoundError(err) {
			return journal.Evaluation{}, fmt.Errorf("evaluation %q: %w", id, journal.ErrNotFound)
		}
		return journal.Evaluation{}, fmt.Errorf("get evaluation: %w", err)
	}
	return e, nil
}

// GetTemplate retrieves a rule template by ID. Returns journal.ErrNotFound if none.
func (s *Store) GetTemplate(ctx context.Context, id string) (journal.RuleTemplate, error) {
	query := `
		SELECT id, owner_id, name, version, config::text
		FROM rule_templates
		WHERE id = $1
	`

	var (
		t   journal.RuleTemplate
		cfg string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.OwnerID, &t.Name, &t.Version, &cfg)
	if err != nil {
		if isNotFoundError(err) {
			return journal.RuleTemplate{}, fmt.Errorf("template %q: %w", id, journal.ErrNotFound)
		}
		return journal.RuleTemplate{}, fmt.Errorf("get template: %w", err)
	}
	t.Config = []byte(cfg)
	return t, nil
}

// ListDailyPerformance retrieves rows within [from, to], ordered by trading_day ASC.
func (s *Store) ListDailyPerformance(ctx context.Context, accountID string, from, to time.Time) ([]risk.DailyRow, error) {
	query := `
		SELECT trading_day, trade_count, net_pnl::text
		FROM daily_performance
		WHERE account_id = $1 AND trading_day >= $2::text::date AND trading_day <= $3::text::date
		ORDER BY trading_day ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID, from.Format(journal.DayLayout), to.Format(journal.DayLayout))
	if err != nil {
		return nil, fmt.Errorf("query daily performance: %w", err)
	}
	defer rows.Close()

	var out []risk.DailyRow
	for rows.Next() {
		var (
			r   risk.DailyRow
			pnl string
		)
		if err := rows.Scan(&r.TradingDay, &r.TradeCount, &pnl); err != nil {
			return nil, fmt.Errorf("scan daily performance: %w", err)
		}
		if r.NetPnl, err = decimal.NewFromString(pnl); err != nil {
			return nil, fmt.Errorf("net_pnl %q: %w", pnl, err)
		}
		r.TradingDay = journal.DayOf(r.TradingDay)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily performance: %w", err)
	}
	return out, nil
}

// InsertEvaluation adds a new evaluation.
func (s *Store) InsertEvaluation(ctx context.Context, e journal.Evaluation) error {
	query := `
		INSERT INTO evaluations (id, account_id, template_id, stage, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6::text::date, $7::text::date)
	`

	var end *string
	if e.EndDate != nil {
		d := e.EndDate.Format(journal.DayLayout)
		end = &d
	}
	_, err := s.pool.Exec(ctx, query,
		e.ID, e.AccountID, e.TemplateID, e.Stage, e.Status,
		e.StartDate.Format(journal.DayLayout), end,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

// UpsertTemplate inserts or replaces a rule template.
func (s *Store) UpsertTemplate(ctx context.Context, t journal.RuleTemplate) error {
	query := `
		INSERT INTO rule_templates (id, owner_id, name, version, config)
		VALUES ($1, $2, $3, $4, $5::text::jsonb)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			name = EXCLUDED.name,
			version = EXCLUDED.version,
			config = EXCLUDED.config
	`

	if _, err := s.pool.Exec(ctx, query, t.ID, t.OwnerID, t.Name, t.Version, string(t.Config)); err != nil {
		return fmt.Errorf("upsert template: %w", err)
	}
	return nil
}

// UpsertDailyPerformance writes rows atomically, replacing existing days.
func (s *Store) UpsertDailyPerformance(ctx context.Context, accountID string, rows []risk.DailyRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO daily_performance (account_id, trading_day, trade_count, net_pnl)
		VALUES ($1, $2::text::date, $3, $4::text::numeric)
		ON CONFLICT (account_id, trading_day) DO UPDATE SET
			trade_count = EXCLUDED.trade_count,
			net_pnl = EXCLUDED.net_pnl
	`

	for _, r := range rows {
		_, err := tx.Exec(ctx, query, accountID, r.TradingDay.Format(journal.DayLayout), r.TradeCount, r.NetPnl.String())
		if err != nil {
			return fmt.Errorf("upsert daily performance in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
