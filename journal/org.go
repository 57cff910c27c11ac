package journal

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/rustyeddy/propfirm/risk"
)

var orgFuncs = template.FuncMap{
	"threshold": func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", *p)
	},
	"day": func(t time.Time) string { return t.Format(DayLayout) },
}

var orgTemplate = template.Must(template.New("evaluation").Funcs(orgFuncs).Parse(EvaluationOrgTemplate))

// FormatEvaluationOrg renders a rule evaluation as an Org-mode block. The
// structured facts go in a PROPERTIES drawer so the block is searchable.
func FormatEvaluationOrg(ev Evaluation, asOf time.Time, res risk.EvaluateRulesResult) (string, error) {
	buf := new(bytes.Buffer)
	err := orgTemplate.Execute(buf, struct {
		Evaluation
		AsOf   time.Time
		Result risk.EvaluateRulesResult
		Rules  []risk.NamedResult
	}{ev, asOf, res, res.Rules.Named()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

const EvaluationOrgTemplate = `** EVALUATION: {{.AccountID}} {{.Stage}} ({{.Result.OverallStatus}})
:PROPERTIES:
:EVALUATION_ID: {{.ID}}
:ACCOUNT_ID:    {{.AccountID}}
:TEMPLATE_ID:   {{.TemplateID}}
:STAGE:         {{.Stage}}
:STATUS:        {{.Status}}
:START_DATE:    {{day .StartDate}}
:AS_OF:         {{day .AsOf}}
:OVERALL:       {{.Result.OverallStatus}}
:END:

{{.Result.Summary}}

| Rule | Status | Current | Threshold | Progress |
|------+--------+---------+-----------+----------|
{{- range .Rules }}
| {{.Name}} | {{.Result.Status}} | {{printf "%.2f" .Result.Current}} | {{threshold .Result.Threshold}} | {{.Result.Progress}}% |
{{- end }}
`
