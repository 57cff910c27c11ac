package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNormalizeNotObject(t *testing.T) {
	t.Parallel()

	for _, raw := range []any{nil, 42, "stages", []any{map[string]any{"key": "evaluation"}}, true} {
		got, diag := NormalizeWithDiagnostic(raw)
		assert.Equal(t, Template{Stages: []Stage{}}, got)
		assert.Equal(t, DiagnosticNotObject, diag)
	}
}

func TestNormalizeEmptyObjectScaffolds(t *testing.T) {
	t.Parallel()

	got, diag := NormalizeWithDiagnostic(map[string]any{})
	assert.Equal(t, DiagnosticScaffolded, diag)
	require.Len(t, got.Stages, 3)

	keys := []string{got.Stages[0].Key, got.Stages[1].Key, got.Stages[2].Key}
	labels := []string{got.Stages[0].Label, got.Stages[1].Label, got.Stages[2].Label}
	assert.Equal(t, []string{"evaluation", "pa", "funded"}, keys)
	assert.Equal(t, []string{"Evaluation", "PA", "Funded"}, labels)
	for _, s := range got.Stages {
		assert.Equal(t, StageRules{}, s.Rules)
	}

	// unrelated keys do not count as legacy stages
	got, diag = NormalizeWithDiagnostic(decodeJSON(t, `{"challenge": {"profitTarget": 100}}`))
	assert.Equal(t, DiagnosticScaffolded, diag)
	assert.Len(t, got.Stages, 3)
}

func TestNormalizeLegacySubsets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		keys []string
	}{
		{"evaluation only", `{"evaluation": {"profitTarget": 3000}}`, []string{"evaluation"}},
		{"funded and pa", `{"funded": {}, "pa": {"maxDailyLoss": -1000}}`, []string{"pa", "funded"}},
		{"all three", `{"pa": {}, "evaluation": {}, "funded": {}}`, []string{"evaluation", "pa", "funded"}},
		{"null value still present", `{"pa": null}`, []string{"pa"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, diag := NormalizeWithDiagnostic(decodeJSON(t, tt.raw))
			assert.Equal(t, DiagnosticNone, diag)
			require.Len(t, got.Stages, len(tt.keys))
			for i, s := range got.Stages {
				assert.Equal(t, tt.keys[i], s.Key)
				assert.Nil(t, s.Rules.MaxTrailingDrawdown)
			}
		})
	}
}

func TestNormalizeLegacyCopiesRules(t *testing.T) {
	t.Parallel()

	got := Normalize(decodeJSON(t, `{
		"evaluation": {
			"profitTarget": 3000,
			"maxDailyLoss": -1500,
			"minTradingDays": 5,
			"consistencyPct": 30,
			"maxTrailingDrawdown": -2500
		}
	}`))

	require.Len(t, got.Stages, 1)
	r := got.Stages[0].Rules
	assert.Equal(t, 3000.0, *r.ProfitTarget)
	assert.Equal(t, -1500.0, *r.MaxDailyLoss)
	assert.Equal(t, 5.0, *r.MinTradingDays)
	assert.Equal(t, 30.0, *r.ConsistencyPct)
	assert.Nil(t, r.MaxTrailingDrawdown)
}

func TestNormalizeStagesFillsMissingKeys(t *testing.T) {
	t.Parallel()

	got, diag := NormalizeWithDiagnostic(decodeJSON(t, `{
		"stages": [
			{"key": "challenge", "label": "Challenge", "rules": {"profitTarget": 6000, "maxTrailingDrawdown": -2500, "extra": 1}},
			{"key": "funded", "label": "Funded"},
			"junk"
		]
	}`))
	assert.Equal(t, DiagnosticNone, diag)
	require.Len(t, got.Stages, 3)

	c := got.Stages[0]
	assert.Equal(t, "challenge", c.Key)
	assert.Equal(t, "Challenge", c.Label)
	assert.Equal(t, 6000.0, *c.Rules.ProfitTarget)
	assert.Equal(t, -2500.0, *c.Rules.MaxTrailingDrawdown)
	assert.Nil(t, c.Rules.MaxDailyLoss)
	assert.Nil(t, c.Rules.MinTradingDays)
	assert.Nil(t, c.Rules.ConsistencyPct)

	assert.Equal(t, StageRules{}, got.Stages[1].Rules)
	assert.Equal(t, Stage{}, got.Stages[2])
}

func TestNormalizeEmptyStageList(t *testing.T) {
	t.Parallel()

	got, diag := NormalizeWithDiagnostic(decodeJSON(t, `{"stages": []}`))
	assert.Equal(t, DiagnosticNone, diag)
	assert.Empty(t, got.Stages)
}

func TestNormalizeNonNumericThresholds(t *testing.T) {
	t.Parallel()

	got := Normalize(decodeJSON(t, `{"stages": [{"key": "x", "rules": {"profitTarget": "3000", "maxDailyLoss": null, "minTradingDays": true}}]}`))
	assert.Equal(t, StageRules{}, got.Stages[0].Rules)
}

func TestNormalizeIsFixedPoint(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`{}`,
		`{"evaluation": {"profitTarget": 3000, "maxDailyLoss": -1500}, "funded": {"consistencyPct": 40}}`,
		`{"stages": [{"key": "a", "label": "A", "rules": {"maxTrailingDrawdown": -2000}}]}`,
		`[]`,
	}
	for _, in := range inputs {
		once := Normalize(decodeJSON(t, in))

		// typed round trip
		assert.Equal(t, once, Normalize(once))

		// serialized round trip
		data, err := json.Marshal(once)
		require.NoError(t, err)
		twice, diag := ParseTemplate(data)
		assert.Equal(t, once, twice, in)
		assert.Equal(t, DiagnosticNone, diag)
	}
}

func TestNormalizeYAML(t *testing.T) {
	t.Parallel()

	var raw any
	require.NoError(t, yaml.Unmarshal([]byte(`
stages:
  - key: evaluation
    label: Evaluation
    rules:
      profitTarget: 3000
      maxDailyLoss: -1500.5
`), &raw))

	got := Normalize(raw)
	require.Len(t, got.Stages, 1)
	assert.Equal(t, 3000.0, *got.Stages[0].Rules.ProfitTarget)
	assert.Equal(t, -1500.5, *got.Stages[0].Rules.MaxDailyLoss)
}

func TestParseTemplateInvalidJSON(t *testing.T) {
	t.Parallel()

	got, diag := ParseTemplate([]byte(`{not json`))
	assert.Equal(t, DiagnosticNotObject, diag)
	assert.Empty(t, got.Stages)
}

func TestTemplateStageRulesFallback(t *testing.T) {
	t.Parallel()

	tmpl := Template{Stages: []Stage{
		{Key: "evaluation", Rules: StageRules{ProfitTarget: f(3000)}},
		{Key: "funded", Rules: StageRules{ProfitTarget: f(1000)}},
	}}

	r, ok := tmpl.StageRules("funded")
	assert.True(t, ok)
	assert.Equal(t, 1000.0, *r.ProfitTarget)

	r, ok = tmpl.StageRules("missing")
	assert.False(t, ok)
	assert.Equal(t, 3000.0, *r.ProfitTarget)

	r, ok = Template{}.StageRules("evaluation")
	assert.False(t, ok)
	assert.Equal(t, StageRules{}, r)
}
