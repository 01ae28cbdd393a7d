package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"                  // PostgreSQL driver
	_ "github.com/snowflakedb/gosnowflake" // Snowflake driver
)

// SQLSource loads the six tables from a relational warehouse instead of
// flat files. Works against PostgreSQL ("postgres") and Snowflake
// ("snowflake"); both drivers are registered by import.
type SQLSource struct {
	db *sql.DB
}

// NewSQLSource opens a database connection for dataset loading.
func NewSQLSource(driver, dsn string) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s dataset connection: %w", driver, err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &SQLSource{db: db}, nil
}

// NewSQLSourceFromDB wraps an existing connection. Used by tests.
func NewSQLSourceFromDB(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Close closes the database connection.
func (s *SQLSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping tests the database connection.
func (s *SQLSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load reads all six tables. Column names follow the canonical short forms;
// the warehouse views are expected to project them accordingly.
func (s *SQLSource) Load(ctx context.Context) (*RawTables, error) {
	t := &RawTables{Stats: LoadStats{SkippedRows: make(map[string]int)}}

	if err := s.loadOrders(ctx, t); err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, t); err != nil {
		return nil, err
	}
	if err := s.loadProducts(ctx, t); err != nil {
		return nil, err
	}
	if err := s.loadCustomers(ctx, t); err != nil {
		return nil, err
	}
	if err := s.loadReviews(ctx, t); err != nil {
		return nil, err
	}
	if err := s.loadPayments(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLSource) loadOrders(ctx context.Context, t *RawTables) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, customer_id, status, purchased_at, approved_at, delivered_at, estimated_delivery_at FROM orders`)
	if err != nil {
		return fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o Order
		var status sql.NullString
		var purchased, approved, delivered, estimated sql.NullTime
		if err := rows.Scan(&o.ID, &o.CustomerID, &status,
			&purchased, &approved, &delivered, &estimated); err != nil {
			t.Stats.SkippedRows[FileOrders]++
			continue
		}
		o.Status = strings.ToLower(status.String)
		o.PurchasedAt = nullTimePtr(purchased)
		o.ApprovedAt = nullTimePtr(approved)
		o.DeliveredAt = nullTimePtr(delivered)
		o.EstimatedDeliveryAt = nullTimePtr(estimated)
		t.Orders = append(t.Orders, o)
	}
	return rows.Err()
}

func (s *SQLSource) loadItems(ctx context.Context, t *RawTables) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, product_id, price, freight FROM order_items`)
	if err != nil {
		return fmt.Errorf("querying order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		var price, freight sql.NullFloat64
		if err := rows.Scan(&it.OrderID, &it.ProductID, &price, &freight); err != nil {
			t.Stats.SkippedRows[FileItems]++
			continue
		}
		it.Price = nullFloatPtr(price)
		it.Freight = nullFloatPtr(freight)
		t.Items = append(t.Items, it)
	}
	return rows.Err()
}

func (s *SQLSource) loadProducts(ctx context.Context, t *RawTables) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, COALESCE(category, '') FROM products`)
	if err != nil {
		return fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Category); err != nil {
			t.Stats.SkippedRows[FileProducts]++
			continue
		}
		p.Category = strings.ToLower(p.Category)
		t.Products = append(t.Products, p)
	}
	return rows.Err()
}

func (s *SQLSource) loadCustomers(ctx context.Context, t *RawTables) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT customer_id, COALESCE(state, '') FROM customers`)
	if err != nil {
		return fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.State); err != nil {
			t.Stats.SkippedRows[FileCustomers]++
			continue
		}
		c.State = strings.ToUpper(c.State)
		t.Customers = append(t.Customers, c)
	}
	return rows.Err()
}

func (s *SQLSource) loadReviews(ctx context.Context, t *RawTables) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, score FROM order_reviews`)
	if err != nil {
		return fmt.Errorf("querying order_reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r Review
		var score sql.NullInt64
		if err := rows.Scan(&r.OrderID, &score); err != nil {
			t.Stats.SkippedRows[FileReviews]++
			continue
		}
		if score.Valid && score.Int64 >= 1 && score.Int64 <= 5 {
			v := int(score.Int64)
			r.Score = &v
		}
		t.Reviews = append(t.Reviews, r)
	}
	return rows.Err()
}

func (s *SQLSource) loadPayments(ctx context.Context, t *RawTables) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, value FROM order_payments`)
	if err != nil {
		return fmt.Errorf("querying order_payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Payment
		var value sql.NullFloat64
		if err := rows.Scan(&p.OrderID, &value); err != nil {
			t.Stats.SkippedRows[FilePayments]++
			continue
		}
		p.Value = nullFloatPtr(value)
		t.Payments = append(t.Payments, p)
	}
	return rows.Err()
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	ts := v.Time
	return &ts
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
