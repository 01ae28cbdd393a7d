package metrics

import (
	"sort"

	"github.com/ignite/commerce-pulse/internal/sales"
)

// Categories groups revenue by product category. Shares are fractions of
// total revenue and sum to 1 across all categories present. Ordering is
// revenue descending, ties broken by category name ascending.
func Categories(t *sales.Table) CategoryMetrics {
	m := CategoryMetrics{}
	if t.Empty() {
		return m
	}

	totals := make(map[string]float64)
	for _, r := range t.Rows {
		totals[r.Category] += r.Price
	}
	grand := t.TotalRevenue()

	m.Categories = make([]CategorySales, 0, len(totals))
	for category, revenue := range totals {
		share := 0.0
		if grand > 0 {
			share = revenue / grand
		}
		m.Categories = append(m.Categories, CategorySales{
			Category: category,
			Revenue:  revenue,
			Share:    share,
		})
	}
	sort.Slice(m.Categories, func(i, j int) bool {
		if m.Categories[i].Revenue != m.Categories[j].Revenue {
			return m.Categories[i].Revenue > m.Categories[j].Revenue
		}
		return m.Categories[i].Category < m.Categories[j].Category
	})

	m.TopCategory = m.Categories[0].Category
	m.TopShare = ratioOf(m.Categories[0].Revenue, grand)
	return m
}
