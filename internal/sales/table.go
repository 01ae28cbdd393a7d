// Package sales joins the six raw tables into one denormalized sales table,
// one row per order item. Tables are built fresh per call and never mutated;
// every filter produces a new table.
package sales

import "time"

// Row is one unified sales record. Nil fields mean the underlying data was
// absent (no review, not yet delivered).
type Row struct {
	OrderID      string
	CustomerID   string
	State        string
	Category     string
	Status       string
	Price        float64
	Freight      float64
	PurchasedAt  time.Time
	DeliveredAt  *time.Time
	DeliveryDays *int
	ReviewScore  *float64
	PaymentTotal *float64
	Year         int
	Month        int
}

// ExclusionStats counts rows dropped during unification. Diagnostics only;
// exposed on the table, logged, never an error.
type ExclusionStats struct {
	MissingOrder    int `json:"missing_order"`
	MissingProduct  int `json:"missing_product"`
	MissingCustomer int `json:"missing_customer"`
	BadPrice        int `json:"bad_price"`
	BadDate         int `json:"bad_date"`
}

// Total returns the number of excluded rows across all reasons.
func (e ExclusionStats) Total() int {
	return e.MissingOrder + e.MissingProduct + e.MissingCustomer + e.BadPrice + e.BadDate
}

// Table is the unified sales table.
type Table struct {
	Rows     []Row
	Excluded ExclusionStats
}

// Empty reports whether the filter combination yielded zero rows.
// An empty table is a valid result, not an error.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// DistinctOrders returns the number of distinct order ids in the table.
// Metrics that count "orders" must use this, never the row count.
func (t *Table) DistinctOrders() int {
	if t == nil {
		return 0
	}
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		seen[r.OrderID] = struct{}{}
	}
	return len(seen)
}

// TotalRevenue sums the item price over every row.
func (t *Table) TotalRevenue() float64 {
	if t == nil {
		return 0
	}
	var sum float64
	for _, r := range t.Rows {
		sum += r.Price
	}
	return sum
}
