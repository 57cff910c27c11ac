package risk

import (
	"bytes"
	"encoding/json"
	"math"
)

// Diagnostic describes how Normalize had to treat its input. It never
// changes the returned template.
type Diagnostic string

const (
	DiagnosticNone       Diagnostic = "none"
	DiagnosticNotObject  Diagnostic = "not_object" // input was not an object, or was an array
	DiagnosticScaffolded Diagnostic = "scaffolded" // legacy input had no recognized stage keys
)

// legacyStages are the fixed stage keys of the flat configuration shape,
// in output order.
var legacyStages = []struct {
	key   string
	label string
}{
	{"evaluation", "Evaluation"},
	{"pa", "PA"},
	{"funded", "Funded"},
}

// Normalize converts a decoded rule configuration, in either the legacy
// flat shape or the stage-list shape, into a Template.
func Normalize(raw any) Template {
	t, _ := NormalizeWithDiagnostic(raw)
	return t
}

// NormalizeWithDiagnostic is Normalize that also reports how the input
// was interpreted.
func NormalizeWithDiagnostic(raw any) (Template, Diagnostic) {
	switch v := raw.(type) {
	case Template:
		return normalizeTemplate(v), DiagnosticNone
	case *Template:
		if v == nil {
			return Template{Stages: []Stage{}}, DiagnosticNotObject
		}
		return normalizeTemplate(*v), DiagnosticNone
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return Template{Stages: []Stage{}}, DiagnosticNotObject
	}

	if list, ok := obj["stages"].([]any); ok {
		stages := make([]Stage, 0, len(list))
		for _, item := range list {
			stages = append(stages, stageFrom(item))
		}
		return Template{Stages: stages}, DiagnosticNone
	}

	stages := []Stage{}
	for _, ls := range legacyStages {
		v, present := obj[ls.key]
		if !present {
			continue
		}
		rules := StageRules{}
		if m, ok := v.(map[string]any); ok {
			rules.ProfitTarget = number(m["profitTarget"])
			rules.MaxDailyLoss = number(m["maxDailyLoss"])
			rules.MinTradingDays = number(m["minTradingDays"])
			rules.ConsistencyPct = number(m["consistencyPct"])
		}
		stages = append(stages, Stage{Key: ls.key, Label: ls.label, Rules: rules})
	}
	if len(stages) > 0 {
		return Template{Stages: stages}, DiagnosticNone
	}

	for _, ls := range legacyStages {
		stages = append(stages, Stage{Key: ls.key, Label: ls.label})
	}
	return Template{Stages: stages}, DiagnosticScaffolded
}

// ParseTemplate decodes a JSON rule configuration and normalizes it.
// Undecodable input is treated as a non-object.
func ParseTemplate(data []byte) (Template, Diagnostic) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Template{Stages: []Stage{}}, DiagnosticNotObject
	}
	return NormalizeWithDiagnostic(raw)
}

func normalizeTemplate(t Template) Template {
	stages := make([]Stage, 0, len(t.Stages))
	for _, s := range t.Stages {
		s.Rules = StageRules{
			ProfitTarget:        clone(s.Rules.ProfitTarget),
			MaxDailyLoss:        clone(s.Rules.MaxDailyLoss),
			MaxTrailingDrawdown: clone(s.Rules.MaxTrailingDrawdown),
			MinTradingDays:      clone(s.Rules.MinTradingDays),
			ConsistencyPct:      clone(s.Rules.ConsistencyPct),
		}
		stages = append(stages, s)
	}
	return Template{Stages: stages}
}

func clone(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return ptr(*p)
}

func stageFrom(item any) Stage {
	m, ok := item.(map[string]any)
	if !ok {
		return Stage{}
	}
	s := Stage{}
	s.Key, _ = m["key"].(string)
	s.Label, _ = m["label"].(string)

	if r, ok := m["rules"].(map[string]any); ok {
		s.Rules = StageRules{
			ProfitTarget:        number(r["profitTarget"]),
			MaxDailyLoss:        number(r["maxDailyLoss"]),
			MaxTrailingDrawdown: number(r["maxTrailingDrawdown"]),
			MinTradingDays:      number(r["minTradingDays"]),
			ConsistencyPct:      number(r["consistencyPct"]),
		}
	}
	return s
}

// number coerces a decoded JSON or YAML scalar into a rule threshold.
// Anything that is not a finite number is treated as unset.
func number(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return nil
		}
		f = x
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
