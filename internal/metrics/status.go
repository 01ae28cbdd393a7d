package metrics

import "github.com/ignite/commerce-pulse/internal/dataset"

// StatusDistribution returns the share of each order status among orders
// purchased in the given year (all years when year is 0). Operates on the
// raw orders table since canceled and in-flight orders never reach the
// unified sales table.
func StatusDistribution(orders []dataset.Order, year int) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, o := range orders {
		if year != 0 {
			if o.PurchasedAt == nil || o.PurchasedAt.Year() != year {
				continue
			}
		}
		counts[o.Status]++
		total++
	}

	dist := make(map[string]float64, len(counts))
	if total == 0 {
		return dist
	}
	for status, count := range counts {
		dist[status] = float64(count) / float64(total)
	}
	return dist
}
