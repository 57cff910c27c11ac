package risk

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)

	// warningBand is the share of a limit at which a limit rule starts warning.
	warningBand = decimal.RequireFromString("0.8")
)

// progressOf returns num/den as a whole percent clamped to [0, 100].
// When den is zero the result is 100 for a positive num and whenZero
// otherwise.
func progressOf(num, den decimal.Decimal, whenZero int) int {
	if den.IsZero() {
		if num.IsPositive() {
			return 100
		}
		return whenZero
	}
	p := num.Div(den).Mul(hundred).Round(0).IntPart()
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return int(p)
}

// toFloat rounds d half away from zero to places decimals.
func toFloat(d decimal.Decimal, places int32) float64 {
	f, _ := d.Round(places).Float64()
	return f
}

func fromFloat(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x)
}

// DrawdownTracker keeps the running cumulative P/L and its running peak
// over an ascending scan of daily rows. The peak starts at zero, the
// account's starting balance.
type DrawdownTracker struct {
	running decimal.Decimal
	peak    decimal.Decimal
	worst   decimal.Decimal
}

// Add folds one day's net P/L into the scan and returns that day's
// drawdown (running - peak), which is never positive.
func (t *DrawdownTracker) Add(pnl decimal.Decimal) decimal.Decimal {
	t.running = t.running.Add(pnl)
	t.peak = decimal.Max(t.peak, t.running)
	dd := t.running.Sub(t.peak)
	t.worst = decimal.Min(t.worst, dd)
	return dd
}

// Running is the cumulative P/L so far.
func (t *DrawdownTracker) Running() decimal.Decimal { return t.running }

// Peak is the highest cumulative P/L seen so far.
func (t *DrawdownTracker) Peak() decimal.Decimal { return t.peak }

// Worst is the deepest drawdown seen so far.
func (t *DrawdownTracker) Worst() decimal.Decimal { return t.worst }

// TrailingDrawdown scans every row, traded or not, and returns the worst
// drawdown.
func TrailingDrawdown(rows []DailyRow) decimal.Decimal {
	var t DrawdownTracker
	for _, r := range rows {
		t.Add(r.NetPnl)
	}
	return t.Worst()
}
