// journal/csv.go
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"github.com/rustyeddy/propfirm/risk"
)

var dailyHeader = []string{"trading_day", "trade_count", "net_pnl"}

var resultHeader = []string{"rule", "status", "current", "threshold", "progress", "direction"}

// OpenDailyCSV reads a daily performance file. Files ending in .xz or
// .lzma are decompressed on the fly.
func OpenDailyCSV(path string) ([]risk.DailyRow, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var r io.Reader = fh
	switch {
	case strings.HasSuffix(path, ".xz"):
		if r, err = xz.NewReader(fh); err != nil {
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
	case strings.HasSuffix(path, ".lzma"):
		if r, err = lzma.NewReader(fh); err != nil {
			return nil, fmt.Errorf("lzma %s: %w", path, err)
		}
	}
	return ReadDailyCSV(r)
}

// ReadDailyCSV parses rows with the header trading_day,trade_count,net_pnl.
func ReadDailyCSV(r io.Reader) ([]risk.DailyRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(dailyHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range dailyHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != h {
			return nil, fmt.Errorf("column %d: want %q, got %q", i+1, h, header[i])
		}
	}

	var out []risk.DailyRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		day, err := ParseDay(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: trading_day: %w", line, err)
		}
		count, err := strconv.Atoi(rec[1])
		if err != nil || count < 0 {
			return nil, fmt.Errorf("line %d: trade_count %q must be a non-negative integer", line, rec[1])
		}
		pnl, err := decimal.NewFromString(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: net_pnl: %w", line, err)
		}
		out = append(out, risk.DailyRow{TradingDay: day, TradeCount: count, NetPnl: pnl})
	}
	return out, nil
}

// WriteResultsCSV writes one line per rule, in display order.
func WriteResultsCSV(w io.Writer, res risk.EvaluateRulesResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return err
	}
	for _, n := range res.Rules.Named() {
		threshold := ""
		if n.Result.Threshold != nil {
			threshold = f(*n.Result.Threshold)
		}
		if err := cw.Write([]string{
			n.Key,
			string(n.Result.Status),
			f(n.Result.Current),
			threshold,
			strconv.Itoa(n.Result.Progress),
			string(n.Result.Direction),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
