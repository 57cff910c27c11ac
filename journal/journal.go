// journal/journal.go
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/propfirm/risk"
)

// DayLayout is the on-disk format of calendar dates.
const DayLayout = "2006-01-02"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Evaluation is one trader's attempt at one stage of one rule template.
type Evaluation struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"accountId"`
	TemplateID string     `json:"templateId"`
	Stage      string     `json:"stage"`
	Status     string     `json:"status"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

// RuleTemplate is a versioned rule configuration owned by a user. Config
// holds the raw JSON as saved, in either the legacy or the stage-list
// shape.
type RuleTemplate struct {
	ID      string
	OwnerID string
	Name    string
	Version int
	Config  []byte
}

// Store is the read side used by rule evaluation.
type Store interface {
	GetEvaluation(ctx context.Context, id string) (Evaluation, error)
	GetTemplate(ctx context.Context, id string) (RuleTemplate, error)

	// ListDailyPerformance returns rows for accountID with trading days in
	// [from, to], ordered by trading day ascending.
	ListDailyPerformance(ctx context.Context, accountID string, from, to time.Time) ([]risk.DailyRow, error)
}

// Writer loads records produced outside the evaluation engine.
type Writer interface {
	InsertEvaluation(ctx context.Context, e Evaluation) error
	UpsertTemplate(ctx context.Context, t RuleTemplate) error
	UpsertDailyPerformance(ctx context.Context, accountID string, rows []risk.DailyRow) error
}

type Journal interface {
	Store
	Writer
	Close() error
}

// DayOf returns the calendar date of t in its own location, as midnight
// UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, time.UTC)
}
