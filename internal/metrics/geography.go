package metrics

import (
	"sort"

	"github.com/ignite/commerce-pulse/internal/sales"
)

// Geography groups revenue and distinct orders by customer state. Ordering
// is revenue descending, ties broken by state code ascending. Active markets
// counts states with at least one order.
func Geography(t *sales.Table) GeoMetrics {
	m := GeoMetrics{}
	if t.Empty() {
		return m
	}

	revenue := make(map[string]float64)
	orders := make(map[string]map[string]struct{})
	for _, r := range t.Rows {
		revenue[r.State] += r.Price
		if orders[r.State] == nil {
			orders[r.State] = make(map[string]struct{})
		}
		orders[r.State][r.OrderID] = struct{}{}
	}

	m.States = make([]StateSales, 0, len(revenue))
	for state, rev := range revenue {
		m.States = append(m.States, StateSales{
			State:   state,
			Revenue: rev,
			Orders:  len(orders[state]),
		})
	}
	sort.Slice(m.States, func(i, j int) bool {
		if m.States[i].Revenue != m.States[j].Revenue {
			return m.States[i].Revenue > m.States[j].Revenue
		}
		return m.States[i].State < m.States[j].State
	})

	m.ActiveMarkets = len(m.States)
	m.TopState = m.States[0].State
	return m
}
