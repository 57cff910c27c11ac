package evaluate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/propfirm/journal"
	"github.com/rustyeddy/propfirm/risk"
)

// Report is a rule evaluation together with the inputs it was computed
// from.
type Report struct {
	Evaluation journal.Evaluation
	StageKey   string // stage whose rules were applied; empty when none
	AsOf       time.Time
	Rows       int
	Result     risk.EvaluateRulesResult
}

// Service evaluates an account's stage rules against its daily history.
// It never writes to the store.
type Service struct {
	store   journal.Store
	log     zerolog.Logger
	loc     *time.Location
	now     func() time.Time
	metrics *Metrics
}

type Option func(*Service)

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// WithLocation sets the time zone in which "today" is determined.
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.loc = loc } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithMetrics(m *Metrics) Option { return func(s *Service) { s.metrics = m } }

func NewService(store journal.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zerolog.Nop(),
		loc:   time.UTC,
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// EvaluateRules evaluates as of the service clock.
func (s *Service) EvaluateRules(ctx context.Context, accountID, evaluationID string) (risk.EvaluateRulesResult, error) {
	return s.EvaluateRulesAsOf(ctx, accountID, evaluationID, s.now())
}

// EvaluateRulesAsOf evaluates with daily rows up to and including the
// calendar day of asOf.
func (s *Service) EvaluateRulesAsOf(ctx context.Context, accountID, evaluationID string, asOf time.Time) (risk.EvaluateRulesResult, error) {
	rep, err := s.Evaluate(ctx, accountID, evaluationID, asOf)
	if err != nil {
		return risk.EvaluateRulesResult{}, err
	}
	return rep.Result, nil
}

// Evaluate loads the evaluation, then its template and daily rows
// concurrently, and runs every rule once both reads have completed.
func (s *Service) Evaluate(ctx context.Context, accountID, evaluationID string, asOf time.Time) (rep Report, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(start, rep.Result, err) }()

	log := s.log.With().Str("account_id", accountID).Str("evaluation_id", evaluationID).Logger()
	today := journal.DayOf(asOf.In(s.loc))
	log.Debug().Str("as_of", today.Format(journal.DayLayout)).Msg("evaluating rules")

	ev, err := s.store.GetEvaluation(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			return Report{}, fmt.Errorf("%w: %s", ErrEvaluationNotFound, evaluationID)
		}
		return Report{}, fmt.Errorf("load evaluation %s: %w", evaluationID, err)
	}
	if ev.AccountID != accountID {
		log.Warn().Msg("evaluation requested for foreign account")
		return Report{}, fmt.Errorf("%w: evaluation %s, account %s", ErrAccountMismatch, evaluationID, accountID)
	}

	var (
		tmpl journal.RuleTemplate
		rows []risk.DailyRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.store.GetTemplate(gctx, ev.TemplateID)
		if err != nil {
			if errors.Is(err, journal.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrTemplateNotFound, ev.TemplateID)
			}
			return fmt.Errorf("load template %s: %w", ev.TemplateID, err)
		}
		tmpl = t
		return nil
	})
	g.Go(func() error {
		r, err := s.store.ListDailyPerformance(gctx, accountID, journal.DayOf(ev.StartDate), today)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPerformanceQuery, err)
		}
		rows = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	normalized, diag := risk.ParseTemplate(tmpl.Config)
	if diag != risk.DiagnosticNone {
		log.Warn().Str("template_id", tmpl.ID).Str("diagnostic", string(diag)).
			Int("stages", len(normalized.Stages)).Msg("rule template config was not in stage-list form")
	}

	rules, matched := normalized.StageRules(ev.Stage)
	stageKey := ev.Stage
	if !matched {
		stageKey = ""
		if len(normalized.Stages) > 0 {
			stageKey = normalized.Stages[0].Key
		}
		log.Warn().Str("stage", ev.Stage).Str("fallback_stage", stageKey).Msg("evaluation stage not in template")
	}

	res := risk.EvaluateRules(rules, rows)
	log.Info().Str("stage", stageKey).Int("rows", len(rows)).
		Str("overall_status", string(res.OverallStatus)).Msg("rules evaluated")

	return Report{
		Evaluation: ev,
		StageKey:   stageKey,
		AsOf:       today,
		Rows:       len(rows),
		Result:     res,
	}, nil
}
