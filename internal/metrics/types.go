// Package metrics computes descriptive business metrics over a unified
// sales table. Every function is pure and total: identical inputs give
// identical outputs, and empty tables produce zeros and not-applicable
// ratios instead of faults.
package metrics

import "encoding/json"

// Ratio is a numeric result that may be undefined. Growth against a zero
// base, or an average over nothing, is an invalid Ratio rather than zero,
// infinity, or NaN. JSON-encodes as a number or null.
type Ratio struct {
	Value float64
	Valid bool
}

// ValidRatio wraps a defined value.
func ValidRatio(v float64) Ratio { return Ratio{Value: v, Valid: true} }

// NotApplicable is the undefined marker.
var NotApplicable = Ratio{}

// MarshalJSON encodes the value, or null when undefined.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes a number or null.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	if err := json.Unmarshal(data, &r.Value); err != nil {
		return err
	}
	r.Valid = true
	return nil
}

// ratioOf divides num by den, undefined when den is not positive.
func ratioOf(num, den float64) Ratio {
	if den <= 0 {
		return NotApplicable
	}
	return ValidRatio(num / den)
}

// growthOf computes (current-base)/base, undefined when base is not positive.
func growthOf(current, base float64) Ratio {
	if base <= 0 {
		return NotApplicable
	}
	return ValidRatio((current - base) / base)
}

// RevenueMetrics reports revenue for the primary period against an optional
// comparison period.
type RevenueMetrics struct {
	TotalRevenue      float64 `json:"total_revenue"`
	ComparisonRevenue float64 `json:"comparison_revenue"`
	GrowthRate        Ratio   `json:"growth_rate"`
	AverageOrderValue Ratio   `json:"average_order_value"`
}

// OrderMetrics reports distinct-order counts and their growth.
type OrderMetrics struct {
	OrderCount      int   `json:"order_count"`
	ComparisonCount int   `json:"comparison_count"`
	GrowthRate      Ratio `json:"growth_rate"`
}

// CategorySales is one product category's revenue and share of the total.
type CategorySales struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Share    float64 `json:"share"`
}

// CategoryMetrics reports per-category revenue, sorted by revenue descending
// (ties by category name ascending).
type CategoryMetrics struct {
	Categories  []CategorySales `json:"categories"`
	TopCategory string          `json:"top_category"`
	TopShare    Ratio           `json:"top_share"`
}

// StateSales is one state's revenue and distinct-order count.
type StateSales struct {
	State   string  `json:"state"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// GeoMetrics reports per-state sales, sorted by revenue descending
// (ties by state code ascending).
type GeoMetrics struct {
	States        []StateSales `json:"states"`
	ActiveMarkets int          `json:"active_markets"`
	TopState      string       `json:"top_state"`
}

// BucketShare is one delivery speed bucket's slice of delivered orders.
type BucketShare struct {
	Label    string  `json:"label"`
	Orders   int     `json:"orders"`
	Percent  float64 `json:"percent"`
	AvgScore Ratio   `json:"avg_review_score"`
}

// DeliveryMetrics reports delivery speed over delivered orders.
type DeliveryMetrics struct {
	AverageDays Ratio         `json:"average_days"`
	Buckets     []BucketShare `json:"buckets"`
}

// SatisfactionMetrics reports review scores over orders that have one.
type SatisfactionMetrics struct {
	AverageScore         Ratio           `json:"average_score"`
	HighSatisfactionRate Ratio           `json:"high_satisfaction_rate"`
	ReviewedOrders       int             `json:"reviewed_orders"`
	Distribution         map[int]float64 `json:"distribution"` // score (1-5) -> share of reviews
}

// MonthPoint is one month's revenue, for trend charts.
type MonthPoint struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// ExecutiveSummary is the flat report the dashboard and the insight rules
// consume. JSON field names double as rule metric names.
type ExecutiveSummary struct {
	TotalRevenue         float64 `json:"total_revenue"`
	YoYGrowth            Ratio   `json:"yoy_growth"`
	MonthlyAvgGrowth     Ratio   `json:"monthly_avg_growth"`
	TotalOrders          int     `json:"total_orders"`
	AverageOrderValue    Ratio   `json:"average_order_value"`
	OrderGrowth          Ratio   `json:"order_growth"`
	TopCategory          string  `json:"top_category"`
	CategoryMarketShare  Ratio   `json:"category_market_share"`
	TopMarket            string  `json:"top_market"`
	ActiveMarkets        int     `json:"active_markets"`
	AverageReviewScore   Ratio   `json:"average_review_score"`
	HighSatisfactionRate Ratio   `json:"high_satisfaction_rate"`
	AverageDeliveryDays  Ratio   `json:"average_delivery_days"`
}

// MetricValue resolves a rule metric name to its current value. The second
// return is false for unknown names and for not-applicable ratios; rules on
// such metrics are skipped rather than evaluated against a stand-in.
func (s ExecutiveSummary) MetricValue(name string) (float64, bool) {
	ratio := func(r Ratio) (float64, bool) { return r.Value, r.Valid }
	switch name {
	case "total_revenue":
		return s.TotalRevenue, true
	case "yoy_growth":
		return ratio(s.YoYGrowth)
	case "monthly_avg_growth":
		return ratio(s.MonthlyAvgGrowth)
	case "total_orders":
		return float64(s.TotalOrders), true
	case "average_order_value":
		return ratio(s.AverageOrderValue)
	case "order_growth":
		return ratio(s.OrderGrowth)
	case "category_market_share":
		return ratio(s.CategoryMarketShare)
	case "active_markets":
		return float64(s.ActiveMarkets), true
	case "average_review_score":
		return ratio(s.AverageReviewScore)
	case "high_satisfaction_rate":
		return ratio(s.HighSatisfactionRate)
	case "average_delivery_days":
		return ratio(s.AverageDeliveryDays)
	default:
		return 0, false
	}
}
