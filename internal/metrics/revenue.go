package metrics

import (
	"sort"

	"github.com/ignite/commerce-pulse/internal/sales"
)

// Revenue computes revenue totals and growth. comparison may be nil, in
// which case the growth rate is not applicable. Average order value divides
// revenue by distinct orders, never by line items.
func Revenue(primary, comparison *sales.Table) RevenueMetrics {
	m := RevenueMetrics{
		TotalRevenue: primary.TotalRevenue(),
	}
	if comparison != nil {
		m.ComparisonRevenue = comparison.TotalRevenue()
	}
	m.GrowthRate = growthOf(m.TotalRevenue, m.ComparisonRevenue)
	m.AverageOrderValue = ratioOf(m.TotalRevenue, float64(primary.DistinctOrders()))
	return m
}

// Orders computes distinct-order counts and growth. comparison may be nil.
func Orders(primary, comparison *sales.Table) OrderMetrics {
	m := OrderMetrics{
		OrderCount: primary.DistinctOrders(),
	}
	if comparison != nil {
		m.ComparisonCount = comparison.DistinctOrders()
	}
	m.GrowthRate = growthOf(float64(m.OrderCount), float64(m.ComparisonCount))
	return m
}

// MonthlyTrend returns revenue per month, sorted chronologically.
func MonthlyTrend(t *sales.Table) []MonthPoint {
	if t.Empty() {
		return nil
	}
	type ym struct{ year, month int }
	totals := make(map[ym]float64)
	for _, r := range t.Rows {
		totals[ym{r.Year, r.Month}] += r.Price
	}

	points := make([]MonthPoint, 0, len(totals))
	for k, revenue := range totals {
		points = append(points, MonthPoint{Year: k.year, Month: k.month, Revenue: revenue})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}

// AverageMonthlyGrowth averages month-over-month revenue growth across the
// table's chronological months. Needs at least two months with a positive
// base; otherwise not applicable.
func AverageMonthlyGrowth(t *sales.Table) Ratio {
	points := MonthlyTrend(t)
	if len(points) < 2 {
		return NotApplicable
	}

	var sum float64
	var n int
	for i := 1; i < len(points); i++ {
		base := points[i-1].Revenue
		if base <= 0 {
			continue
		}
		sum += (points[i].Revenue - base) / base
		n++
	}
	if n == 0 {
		return NotApplicable
	}
	return ValidRatio(sum / float64(n))
}
