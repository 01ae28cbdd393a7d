package metrics

import "github.com/ignite/commerce-pulse/internal/sales"

// highSatisfactionScore is the review score at which a customer counts as
// highly satisfied.
const highSatisfactionScore = 4.0

// Satisfaction computes review metrics over orders that have a review.
// Orders without one are excluded from the denominator entirely; each order
// participates once regardless of its line-item count.
func Satisfaction(t *sales.Table) SatisfactionMetrics {
	m := SatisfactionMetrics{Distribution: make(map[int]float64)}

	perOrder := make(map[string]float64)
	if t != nil {
		for _, r := range t.Rows {
			if r.ReviewScore == nil {
				continue
			}
			if _, seen := perOrder[r.OrderID]; !seen {
				perOrder[r.OrderID] = *r.ReviewScore
			}
		}
	}

	m.ReviewedOrders = len(perOrder)
	if m.ReviewedOrders == 0 {
		return m
	}

	var sum float64
	var high int
	counts := make(map[int]int)
	for _, score := range perOrder {
		sum += score
		if score >= highSatisfactionScore {
			high++
		}
		// Averaged scores land between integers; bucket to the nearest step
		// of the 1-5 scale for the distribution.
		bucket := int(score + 0.5)
		if bucket < 1 {
			bucket = 1
		}
		if bucket > 5 {
			bucket = 5
		}
		counts[bucket]++
	}

	n := float64(m.ReviewedOrders)
	m.AverageScore = ValidRatio(sum / n)
	m.HighSatisfactionRate = ValidRatio(float64(high) / n)
	for score, count := range counts {
		m.Distribution[score] = float64(count) / n
	}
	return m
}
