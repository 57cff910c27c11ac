package risk

import "strings"

type OverallStatus string

const (
	OverallViolation OverallStatus = "violation"
	OverallPassed    OverallStatus = "passed"
	OverallWarning   OverallStatus = "warning"
	OverallOnTrack   OverallStatus = "on_track"
)

const (
	summaryViolation = "Rule violation detected — review required"
	summaryPassed    = "All rules satisfied — ready to advance"
	summaryWarning   = "Approaching limit — trade carefully"
	summaryOnTrack   = "On track — keep trading"
)

// EvaluateRulesResult is the full judgment for one evaluation.
type EvaluateRulesResult struct {
	Rules         Results       `json:"rules"`
	OverallStatus OverallStatus `json:"overallStatus"`
	Summary       string        `json:"summary"`
}

// Aggregate folds the five results into one status. A violation anywhere
// wins, then all-pass, then any warning; otherwise the pending rules are
// listed by name.
func Aggregate(r Results) (OverallStatus, string) {
	named := r.Named()

	count := map[RuleStatus]int{}
	var pending []string
	for _, n := range named {
		count[n.Result.Status]++
		if n.Result.Status == StatusPending {
			pending = append(pending, n.Name)
		}
	}

	switch {
	case count[StatusViolation] > 0:
		return OverallViolation, summaryViolation
	case count[StatusPass] == len(named):
		return OverallPassed, summaryPassed
	case count[StatusWarning] > 0:
		return OverallWarning, summaryWarning
	case len(pending) > 0:
		return OverallOnTrack, "In progress — " + strings.Join(pending, ", ") + " pending"
	}
	return OverallOnTrack, summaryOnTrack
}

// EvaluateRules checks every rule and aggregates the outcome.
func EvaluateRules(rules StageRules, rows []DailyRow) EvaluateRulesResult {
	res := Check(rules, rows)
	status, summary := Aggregate(res)
	return EvaluateRulesResult{
		Rules:         res,
		OverallStatus: status,
		Summary:       summary,
	}
}
