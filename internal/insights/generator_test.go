package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/metrics"
)

func declineSummary() metrics.ExecutiveSummary {
	return metrics.ExecutiveSummary{
		TotalRevenue:         430,
		YoYGrowth:            metrics.ValidRatio(-0.12),
		TotalOrders:          3,
		AverageOrderValue:    metrics.ValidRatio(143.33),
		OrderGrowth:          metrics.ValidRatio(0.05),
		TopCategory:          "electronics",
		CategoryMarketShare:  metrics.ValidRatio(0.814),
		TopMarket:            "CA",
		ActiveMarkets:        2,
		AverageReviewScore:   metrics.ValidRatio(4.0),
		HighSatisfactionRate: metrics.ValidRatio(0.5),
		AverageDeliveryDays:  metrics.ValidRatio(5.3),
	}
}

func TestGenerateDefaultRules(t *testing.T) {
	g := NewGenerator()
	out := g.Generate(declineSummary(), config.DefaultInsightRules())

	var names []string
	for _, ins := range out {
		names = append(names, ins.Rule)
	}
	// Priority descending: revenue decline first, then concentration, then
	// the narrow footprint note. Order growth is positive, delivery and
	// satisfaction are within bounds.
	assert.Equal(t, []string{"Revenue Decline", "Category Concentration", "Narrow Footprint"}, names)

	first := out[0]
	assert.Equal(t, "critical", first.Severity)
	assert.Equal(t, "yoy_growth", first.Metric)
	assert.InDelta(t, -0.12, first.Value, 0.001)
	assert.Contains(t, first.Message, "12.0%")
}

func TestGenerateSkipsUndefinedMetrics(t *testing.T) {
	sum := declineSummary()
	sum.YoYGrowth = metrics.NotApplicable

	g := NewGenerator()
	out := g.Generate(sum, config.DefaultInsightRules())
	for _, ins := range out {
		assert.NotEqual(t, "Revenue Decline", ins.Rule,
			"rules on not-applicable metrics must be skipped, not fired at zero")
	}
}

func TestGenerateSkipsDisabledRules(t *testing.T) {
	rules := []config.InsightRule{
		{Name: "Always", Metric: "total_revenue", Operator: ">", Threshold: 0,
			Severity: "info", Template: "fires"},
		{Name: "Off", Metric: "total_revenue", Operator: ">", Threshold: 0,
			Severity: "info", Template: "never", Disabled: true},
	}

	out := NewGenerator().Generate(declineSummary(), rules)
	require.Len(t, out, 1)
	assert.Equal(t, "Always", out[0].Rule)
}

func TestGenerateTemplateBindings(t *testing.T) {
	rules := []config.InsightRule{{
		Name: "Summary Fields", Metric: "total_revenue", Operator: ">=", Threshold: 100,
		Severity: "info",
		Template: "{{ top_category }} leads in {{ top_market }}; revenue {{ value | currency }} vs floor {{ threshold | currency }}",
	}}

	out := NewGenerator().Generate(declineSummary(), rules)
	require.Len(t, out, 1)
	assert.Equal(t, "electronics leads in CA; revenue $430 vs floor $100", out[0].Message)
}

func TestGenerateBadTemplateFallsBack(t *testing.T) {
	rules := []config.InsightRule{{
		Name: "Broken", Metric: "total_revenue", Operator: ">", Threshold: 0,
		Severity: "info", Template: "{{ unclosed",
	}}

	out := NewGenerator().Generate(declineSummary(), rules)
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Message, "total_revenue")
}

func TestGeneratePriorityThenNameOrdering(t *testing.T) {
	rules := []config.InsightRule{
		{Name: "B", Metric: "total_revenue", Operator: ">", Threshold: 0, Priority: 10, Template: "b"},
		{Name: "A", Metric: "total_revenue", Operator: ">", Threshold: 0, Priority: 10, Template: "a"},
		{Name: "C", Metric: "total_revenue", Operator: ">", Threshold: 0, Priority: 90, Template: "c"},
	}

	out := NewGenerator().Generate(declineSummary(), rules)
	require.Len(t, out, 3)
	assert.Equal(t, "C", out[0].Rule)
	assert.Equal(t, "A", out[1].Rule)
	assert.Equal(t, "B", out[2].Rule)
}

func TestGenerateRepeatable(t *testing.T) {
	g := NewGenerator()
	sum := declineSummary()
	rules := config.DefaultInsightRules()
	assert.Equal(t, g.Generate(sum, rules), g.Generate(sum, rules))
}

func TestCompareOperators(t *testing.T) {
	cases := []struct {
		value     float64
		operator  string
		threshold float64
		want      bool
	}{
		{1, ">", 0, true},
		{0, ">", 0, false},
		{-1, "<", 0, true},
		{5, ">=", 5, true},
		{5, "<=", 5, true},
		{5, "==", 5, true},
		{5, "!=", 5, false}, // unknown operator never matches
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, compare(tc.value, tc.operator, tc.threshold),
			"%v %s %v", tc.value, tc.operator, tc.threshold)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1.2M", FormatCurrency(1_230_000))
	assert.Equal(t, "$45K", FormatCurrency(45_200))
	assert.Equal(t, "$980", FormatCurrency(980))
	assert.Equal(t, "$-12K", FormatCurrency(-12_000))
}
