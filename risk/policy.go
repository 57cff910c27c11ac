package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// StageRules is the rule set active for one program stage. A nil field
// means the rule is not enforced at that stage.
type StageRules struct {
	ProfitTarget        *float64 `json:"profitTarget" yaml:"profitTarget"`               // cumulative net P/L required to pass
	MaxDailyLoss        *float64 `json:"maxDailyLoss" yaml:"maxDailyLoss"`               // negative, floor for a single day
	MaxTrailingDrawdown *float64 `json:"maxTrailingDrawdown" yaml:"maxTrailingDrawdown"` // negative, floor for running - peak
	MinTradingDays      *float64 `json:"minTradingDays" yaml:"minTradingDays"`
	ConsistencyPct      *float64 `json:"consistencyPct" yaml:"consistencyPct"` // percent of ProfitTarget
}

// Stage is one phase of a funding program.
type Stage struct {
	Key   string     `json:"key" yaml:"key"`
	Label string     `json:"label" yaml:"label"`
	Rules StageRules `json:"rules" yaml:"rules"`
}

// Template is the canonical form of a rule template's configuration.
type Template struct {
	Stages []Stage `json:"stages" yaml:"stages"`
}

// StageRules returns the rules for the stage with the given key. When no
// stage matches it falls back to the first stage, and to an all-nil rule
// set when there are no stages. ok reports whether key matched exactly.
func (t Template) StageRules(key string) (rules StageRules, ok bool) {
	for _, s := range t.Stages {
		if s.Key == key {
			return s.Rules, true
		}
	}
	if len(t.Stages) > 0 {
		return t.Stages[0].Rules, false
	}
	return StageRules{}, false
}

// DailyRow is one pre-aggregated trading day for an account.
type DailyRow struct {
	TradingDay time.Time       `json:"tradingDay"`
	TradeCount int             `json:"tradeCount"`
	NetPnl     decimal.Decimal `json:"netPnl"`
}

// Traded reports whether at least one trade happened that day.
func (r DailyRow) Traded() bool {
	return r.TradeCount > 0
}
