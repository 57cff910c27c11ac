package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDrawdownTracker(t *testing.T) {
	t.Parallel()

	var tr DrawdownTracker
	var running, peaks, drawdowns []float64
	for _, p := range []int64{500, -200, 800, -1400} {
		dd := tr.Add(decimal.NewFromInt(p))
		running = append(running, tr.Running().InexactFloat64())
		peaks = append(peaks, tr.Peak().InexactFloat64())
		drawdowns = append(drawdowns, dd.InexactFloat64())
	}

	assert.Equal(t, []float64{500, 300, 1100, -300}, running)
	assert.Equal(t, []float64{500, 500, 1100, 1100}, peaks)
	assert.Equal(t, []float64{0, -200, 0, -1400}, drawdowns)
	assert.Equal(t, -1400.0, tr.Worst().InexactFloat64())
}

func TestTrailingDrawdownLosingStart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-300", TrailingDrawdown(traded(-300, 100)).String())
	assert.True(t, TrailingDrawdown(nil).IsZero())
	assert.True(t, TrailingDrawdown(traded(100, 200, 300)).IsZero())
}

func TestProgressOf(t *testing.T) {
	t.Parallel()

	d := decimal.NewFromFloat
	tests := []struct {
		name     string
		num, den decimal.Decimal
		whenZero int
		want     int
	}{
		{"plain", d(25), d(100), 0, 25},
		{"clamped high", d(300), d(100), 0, 100},
		{"clamped low", d(-5), d(100), 0, 0},
		{"half away from zero", d(0.285), d(1), 0, 29},
		{"zero den positive num", d(1), d(0), 0, 100},
		{"zero den zero num limit", d(0), d(0), 0, 0},
		{"zero den zero num target", d(0), d(0), 100, 100},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, progressOf(tt.num, tt.den, tt.whenZero))
		})
	}
}
