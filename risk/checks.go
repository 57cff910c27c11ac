package risk

import "github.com/shopspring/decimal"

type RuleStatus string

const (
	StatusPass      RuleStatus = "pass"
	StatusWarning   RuleStatus = "warning"
	StatusViolation RuleStatus = "violation"
	StatusPending   RuleStatus = "pending"
)

type Direction string

const (
	TowardTarget Direction = "toward_target"
	TowardLimit  Direction = "toward_limit"
)

// RuleResult is the judgment of a single rule. A nil Threshold means the
// rule is not applicable at the current stage.
type RuleResult struct {
	Status    RuleStatus `json:"status"`
	Current   float64    `json:"current"`
	Threshold *float64   `json:"threshold"`
	Progress  int        `json:"progress"`
	Direction Direction  `json:"direction"`
}

// Applicable reports whether the rule had a threshold.
func (r RuleResult) Applicable() bool { return r.Threshold != nil }

func notApplicable() RuleResult {
	return RuleResult{
		Status:    StatusPass,
		Current:   0,
		Threshold: nil,
		Progress:  100,
		Direction: TowardTarget,
	}
}

func ptr(x float64) *float64 { return &x }

// limitResult judges a value that must stay at or above a negative floor,
// warning once it passes warningBand of the way there.
func limitResult(value decimal.Decimal, threshold float64) RuleResult {
	th := fromFloat(threshold)
	status := StatusPass
	switch {
	case value.LessThan(th):
		status = StatusViolation
	case value.LessThan(th.Mul(warningBand)):
		status = StatusWarning
	}
	return RuleResult{
		Status:    status,
		Current:   toFloat(value, 2),
		Threshold: ptr(threshold),
		Progress:  progressOf(value.Abs(), th.Abs(), 0),
		Direction: TowardLimit,
	}
}

// CheckMaxDailyLoss judges the worst single traded day.
func CheckMaxDailyLoss(rules StageRules, rows []DailyRow) RuleResult {
	if rules.MaxDailyLoss == nil {
		return notApplicable()
	}
	worst := decimal.Zero
	seen := false
	for _, r := range rows {
		if !r.Traded() {
			continue
		}
		if !seen || r.NetPnl.LessThan(worst) {
			worst = r.NetPnl
			seen = true
		}
	}
	return limitResult(worst, *rules.MaxDailyLoss)
}

// CheckMaxTrailingDrawdown judges the deepest peak-to-current decline of
// cumulative P/L.
func CheckMaxTrailingDrawdown(rules StageRules, rows []DailyRow) RuleResult {
	if rules.MaxTrailingDrawdown == nil {
		return notApplicable()
	}
	return limitResult(TrailingDrawdown(rows), *rules.MaxTrailingDrawdown)
}

// CheckMinTradingDays counts days with at least one trade.
func CheckMinTradingDays(rules StageRules, rows []DailyRow) RuleResult {
	if rules.MinTradingDays == nil {
		return notApplicable()
	}
	active := 0
	for _, r := range rows {
		if r.Traded() {
			active++
		}
	}
	th := fromFloat(*rules.MinTradingDays)
	days := decimal.NewFromInt(int64(active))

	status := StatusPending
	if days.GreaterThanOrEqual(th) {
		status = StatusPass
	}
	return RuleResult{
		Status:    status,
		Current:   float64(active),
		Threshold: ptr(*rules.MinTradingDays),
		Progress:  progressOf(days, th, 100),
		Direction: TowardTarget,
	}
}

// CheckConsistency caps the share of the profit target that the best
// single day may contribute. Current is the best day as a percent of the
// target, while pass/fail compares against the allowed cap.
func CheckConsistency(rules StageRules, rows []DailyRow) RuleResult {
	if rules.ConsistencyPct == nil || rules.ProfitTarget == nil {
		return notApplicable()
	}
	pct := fromFloat(*rules.ConsistencyPct)
	target := fromFloat(*rules.ProfitTarget)
	maxAllowed := pct.Div(hundred).Mul(decimal.Max(decimal.Zero, target))

	best := decimal.Zero
	found := false
	for _, r := range rows {
		if !r.NetPnl.IsPositive() {
			continue
		}
		if !found || r.NetPnl.GreaterThan(best) {
			best = r.NetPnl
			found = true
		}
	}

	if !found || !maxAllowed.IsPositive() {
		return RuleResult{
			Status:    StatusPending,
			Current:   0,
			Threshold: ptr(*rules.ConsistencyPct),
			Progress:  0,
			Direction: TowardLimit,
		}
	}

	status := StatusPass
	if best.GreaterThan(maxAllowed) {
		status = StatusViolation
	}
	return RuleResult{
		Status:    status,
		Current:   toFloat(best.Div(target).Mul(hundred), 1),
		Threshold: ptr(*rules.ConsistencyPct),
		Progress:  progressOf(best, maxAllowed, 0),
		Direction: TowardLimit,
	}
}

// CheckProfitTarget sums net P/L over every row.
func CheckProfitTarget(rules StageRules, rows []DailyRow) RuleResult {
	if rules.ProfitTarget == nil {
		return notApplicable()
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.NetPnl)
	}
	th := fromFloat(*rules.ProfitTarget)

	status := StatusPending
	if total.GreaterThanOrEqual(th) {
		status = StatusPass
	}
	return RuleResult{
		Status:    status,
		Current:   toFloat(total, 2),
		Threshold: ptr(*rules.ProfitTarget),
		Progress:  progressOf(decimal.Max(decimal.Zero, total), th, 100),
		Direction: TowardTarget,
	}
}

// Results holds one RuleResult per rule kind.
type Results struct {
	MaxDailyLoss        RuleResult `json:"maxDailyLoss"`
	MaxTrailingDrawdown RuleResult `json:"maxTrailingDrawdown"`
	MinTradingDays      RuleResult `json:"minTradingDays"`
	Consistency         RuleResult `json:"consistency"`
	ProfitTarget        RuleResult `json:"profitTarget"`
}

// NamedResult pairs a rule result with its identifiers.
type NamedResult struct {
	Key    string
	Name   string
	Result RuleResult
}

// Named lists the results in display order.
func (r Results) Named() []NamedResult {
	return []NamedResult{
		{"maxDailyLoss", "Max Daily Loss", r.MaxDailyLoss},
		{"maxTrailingDrawdown", "Max Trailing Drawdown", r.MaxTrailingDrawdown},
		{"minTradingDays", "Min Trading Days", r.MinTradingDays},
		{"consistency", "Consistency", r.Consistency},
		{"profitTarget", "Profit Target", r.ProfitTarget},
	}
}

// Check runs all five rules over the same inputs.
func Check(rules StageRules, rows []DailyRow) Results {
	return Results{
		MaxDailyLoss:        CheckMaxDailyLoss(rules, rows),
		MaxTrailingDrawdown: CheckMaxTrailingDrawdown(rules, rows),
		MinTradingDays:      CheckMinTradingDays(rules, rows),
		Consistency:         CheckConsistency(rules, rows),
		ProfitTarget:        CheckProfitTarget(rules, rows),
	}
}
