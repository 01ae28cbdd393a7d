// Package insights turns an executive summary into human-readable
// recommendations. The rule battery is configuration data (metric name,
// comparison operator, threshold, message template) evaluated in a fixed
// order; the generator holds no business thresholds of its own.
package insights

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/osteele/liquid"

	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/metrics"
	"github.com/ignite/commerce-pulse/internal/pkg/logger"
)

// Insight is one triggered rule, rendered to text.
type Insight struct {
	Rule      string  `json:"rule"`
	Severity  string  `json:"severity"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Message   string  `json:"message"`
}

// Generator renders insight messages through Liquid templates.
type Generator struct {
	engine *liquid.Engine
}

// NewGenerator creates a generator with the reporting filters registered.
func NewGenerator() *Generator {
	engine := liquid.NewEngine()

	// Currency formatting: {{ total_revenue | currency }}
	engine.RegisterFilter("currency", func(v float64) string {
		return FormatCurrency(v)
	})

	// Fraction to percentage: {{ value | percent }} → "12.3%"
	engine.RegisterFilter("percent", func(v float64) string {
		return fmt.Sprintf("%.1f%%", math.Abs(v)*100)
	})

	engine.RegisterFilter("round0", func(v float64) string {
		return fmt.Sprintf("%.0f", v)
	})

	engine.RegisterFilter("round1", func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	})

	return &Generator{engine: engine}
}

// Generate evaluates the rule battery against the summary and returns the
// triggered insights, ordered by priority descending then rule name
// ascending. Rules on undefined or unknown metrics are skipped. Repeatable:
// same summary and rules, same output.
func (g *Generator) Generate(sum metrics.ExecutiveSummary, rules []config.InsightRule) []Insight {
	ordered := make([]config.InsightRule, 0, len(rules))
	for _, r := range rules {
		if !r.Disabled {
			ordered = append(ordered, r)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].Name < ordered[j].Name
	})

	bindings := summaryBindings(sum)

	var out []Insight
	for _, rule := range ordered {
		value, ok := sum.MetricValue(rule.Metric)
		if !ok {
			continue
		}
		if !compare(value, rule.Operator, rule.Threshold) {
			continue
		}

		out = append(out, Insight{
			Rule:      rule.Name,
			Severity:  rule.Severity,
			Metric:    rule.Metric,
			Value:     value,
			Threshold: rule.Threshold,
			Message:   g.render(rule, value, bindings),
		})
	}
	return out
}

func (g *Generator) render(rule config.InsightRule, value float64, summary map[string]interface{}) string {
	bindings := make(map[string]interface{}, len(summary)+3)
	for k, v := range summary {
		bindings[k] = v
	}
	bindings["metric"] = rule.Metric
	bindings["value"] = value
	bindings["threshold"] = rule.Threshold

	msg, err := g.engine.ParseAndRenderString(rule.Template, bindings)
	if err != nil {
		logger.Warn("insight template render failed", "rule", rule.Name, "error", err.Error())
		return fmt.Sprintf("%s: %s is %.2f (threshold %.2f)", rule.Name, rule.Metric, value, rule.Threshold)
	}
	return strings.TrimSpace(msg)
}

// summaryBindings flattens the summary for templating. The JSON round trip
// keeps template names aligned with the rule metric names, and undefined
// ratios become nil, which Liquid renders as empty.
func summaryBindings(sum metrics.ExecutiveSummary) map[string]interface{} {
	data, _ := json.Marshal(sum)
	var m map[string]interface{}
	_ = json.Unmarshal(data, &m)
	return m
}

func compare(value float64, operator string, threshold float64) bool {
	switch operator {
	case ">":
		return value > threshold
	case "<":
		return value < threshold
	case ">=":
		return value >= threshold
	case "<=":
		return value <= threshold
	case "==":
		return value == threshold
	default:
		return false
	}
}

// FormatCurrency renders an amount as compact dollars, matching the
// dashboard's display convention: $1.2M, $45K, $980.
func FormatCurrency(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
