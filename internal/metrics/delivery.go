package metrics

import (
	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/sales"
)

// Delivery computes delivery speed over delivered orders. Rows without a
// delivery duration are excluded from every figure; each order participates
// once regardless of its line-item count. Bucket thresholds come from
// configuration, not code.
func Delivery(t *sales.Table, buckets []config.DeliveryBucket) DeliveryMetrics {
	m := DeliveryMetrics{}
	if len(buckets) == 0 {
		buckets = config.DefaultDeliveryBuckets()
	}

	// Collapse to one (days, score) pair per delivered order.
	type orderDelivery struct {
		days  int
		score *float64
	}
	perOrder := make(map[string]orderDelivery)
	if t != nil {
		for _, r := range t.Rows {
			if r.DeliveryDays == nil {
				continue
			}
			if _, seen := perOrder[r.OrderID]; !seen {
				perOrder[r.OrderID] = orderDelivery{days: *r.DeliveryDays, score: r.ReviewScore}
			}
		}
	}

	counts := make(map[string]int, len(buckets))
	scoreSums := make(map[string]float64, len(buckets))
	scoreCounts := make(map[string]int, len(buckets))
	var daySum int
	for _, od := range perOrder {
		daySum += od.days
		label := bucketFor(od.days, buckets)
		counts[label]++
		if od.score != nil {
			scoreSums[label] += *od.score
			scoreCounts[label]++
		}
	}

	delivered := len(perOrder)
	m.AverageDays = ratioOf(float64(daySum), float64(delivered))

	m.Buckets = make([]BucketShare, 0, len(buckets))
	for _, b := range buckets {
		share := BucketShare{Label: b.Label, Orders: counts[b.Label]}
		if delivered > 0 {
			share.Percent = float64(share.Orders) / float64(delivered) * 100
		}
		share.AvgScore = ratioOf(scoreSums[b.Label], float64(scoreCounts[b.Label]))
		m.Buckets = append(m.Buckets, share)
	}
	return m
}

// bucketFor places a delivery duration into the first bucket whose MaxDays
// covers it; a MaxDays of 0 marks the open-ended catch-all.
func bucketFor(days int, buckets []config.DeliveryBucket) string {
	for _, b := range buckets {
		if b.MaxDays == 0 || days <= b.MaxDays {
			return b.Label
		}
	}
	return buckets[len(buckets)-1].Label
}
