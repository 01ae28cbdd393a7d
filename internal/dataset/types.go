package dataset

import "time"

// Order is one row of the orders table. Timestamp fields are nil when the
// source value was absent or unparseable.
type Order struct {
	ID                  string
	CustomerID          string
	Status              string
	PurchasedAt         *time.Time
	ApprovedAt          *time.Time
	DeliveredAt         *time.Time
	EstimatedDeliveryAt *time.Time
}

// OrderItem is one line item of an order. Price and Freight are nil when the
// source value did not parse as a number.
type OrderItem struct {
	OrderID   string
	ProductID string
	Price     *float64
	Freight   *float64
}

// Product is one row of the products table. Category may be empty; the
// unifier maps empty to "unknown".
type Product struct {
	ID       string
	Category string
}

// Customer is one row of the customers table. State is a 2-letter code.
type Customer struct {
	ID    string
	State string
}

// Review is one row of the reviews table. An order may have several reviews.
// Score is nil when absent or outside the 1-5 scale.
type Review struct {
	OrderID string
	Score   *int
}

// Payment is one row of the payments table.
type Payment struct {
	OrderID string
	Value   *float64
}

// LoadStats counts rows and values the loader had to skip or null out.
// Observability only; never an error.
type LoadStats struct {
	SkippedRows map[string]int // table name -> unreadable/incomplete rows
	BadDates    int
	BadNumbers  int
}

// RawTables holds the six loaded tables. Read-only after Load returns;
// multiple analysis runs may share one instance.
type RawTables struct {
	Orders    []Order
	Items     []OrderItem
	Products  []Product
	Customers []Customer
	Reviews   []Review
	Payments  []Payment
	Stats     LoadStats
}
