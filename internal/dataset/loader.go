// Package dataset loads the six raw e-commerce tables (orders, order items,
// products, customers, reviews, payments) from a pluggable source into typed
// in-memory slices. Loading coerces types but never transforms beyond that;
// per-row malformed values become nil and are counted, never fatal.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/commerce-pulse/internal/pkg/logger"
)

// File names expected inside a dataset directory or S3 prefix.
const (
	FileOrders    = "orders.csv"
	FileItems     = "order_items.csv"
	FileProducts  = "products.csv"
	FileCustomers = "customers.csv"
	FileReviews   = "order_reviews.csv"
	FilePayments  = "order_payments.csv"
)

// RequiredFiles lists every file a complete dataset must contain.
var RequiredFiles = []string{
	FileOrders, FileItems, FileProducts, FileCustomers, FileReviews, FilePayments,
}

// opener hands out a reader for one dataset file by base name. Implemented
// by DirSource and S3Source; returning a *MissingFileError aborts the load.
type opener func(name string) (io.ReadCloser, error)

// loadTables drives a full load through an opener.
func loadTables(open opener) (*RawTables, error) {
	t := &RawTables{Stats: LoadStats{SkippedRows: make(map[string]int)}}

	type step struct {
		file  string
		parse func(*csvTable, *RawTables) error
	}
	steps := []step{
		{FileOrders, parseOrders},
		{FileItems, parseItems},
		{FileProducts, parseProducts},
		{FileCustomers, parseCustomers},
		{FileReviews, parseReviews},
		{FilePayments, parsePayments},
	}

	for _, s := range steps {
		rc, err := open(s.file)
		if err != nil {
			return nil, err
		}
		table, err := readCSV(s.file, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		if err := s.parse(table, t); err != nil {
			return nil, err
		}
		t.Stats.SkippedRows[s.file] += table.skipped
	}

	logger.Info("dataset loaded",
		"orders", len(t.Orders), "items", len(t.Items),
		"products", len(t.Products), "customers", len(t.Customers),
		"reviews", len(t.Reviews), "payments", len(t.Payments),
		"bad_dates", t.Stats.BadDates, "bad_numbers", t.Stats.BadNumbers)

	return t, nil
}

// csvTable is one parsed file: header row plus data rows.
type csvTable struct {
	file    string
	header  []string
	rows    [][]string
	skipped int
}

// readCSV reads a whole delimited file. Ragged rows are tolerated
// (FieldsPerRecord -1); unreadable lines are skipped and counted.
func readCSV(file string, r io.Reader) (*csvTable, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &MalformedDataError{File: file, Column: "(empty file)"}
		}
		return nil, fmt.Errorf("%s: read header: %w", file, err)
	}

	t := &csvTable{file: file, header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.skipped++
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func parseOrders(src *csvTable, t *RawTables) error {
	m, err := mapColumns(src.file, src.header, orderAliases,
		[]string{"order_id", "customer_id", "status", "purchased_at"})
	if err != nil {
		return err
	}
	for _, row := range src.rows {
		o := Order{
			ID:         m.get(row, "order_id"),
			CustomerID: m.get(row, "customer_id"),
			Status:     strings.ToLower(m.get(row, "status")),
		}
		if o.ID == "" || o.CustomerID == "" {
			src.skipped++
			continue
		}
		o.PurchasedAt = parseTimestamp(m.get(row, "purchased_at"), &t.Stats)
		o.ApprovedAt = parseTimestamp(m.get(row, "approved_at"), &t.Stats)
		o.DeliveredAt = parseTimestamp(m.get(row, "delivered_at"), &t.Stats)
		o.EstimatedDeliveryAt = parseTimestamp(m.get(row, "estimated_delivery_at"), &t.Stats)
		t.Orders = append(t.Orders, o)
	}
	return nil
}

func parseItems(src *csvTable, t *RawTables) error {
	m, err := mapColumns(src.file, src.header, itemAliases,
		[]string{"order_id", "product_id", "price"})
	if err != nil {
		return err
	}
	for _, row := range src.rows {
		it := OrderItem{
			OrderID:   m.get(row, "order_id"),
			ProductID: m.get(row, "product_id"),
		}
		if it.OrderID == "" || it.ProductID == "" {
			src.skipped++
			continue
		}
		it.Price = parseAmount(m.get(row, "price"), &t.Stats)
		it.Freight = parseAmount(m.get(row, "freight"), &t.Stats)
		t.Items = append(t.Items, it)
	}
	return nil
}

func parseProducts(src *csvTable, t *RawTables) error {
	m, err := mapColumns(src.file, src.header, productAliases, []string{"product_id"})
	if err != nil {
		return err
	}
	for _, row := range src.rows {
		p := Product{
			ID:       m.get(row, "product_id"),
			Category: strings.ToLower(m.get(row, "category")),
		}
		if p.ID == "" {
			src.skipped++
			continue
		}
		t.Products = append(t.Products, p)
	}
	return nil
}

func parseCustomers(src *csvTable, t *RawTables) error {
	m, err := mapColumns(src.file, src.header, customerAliases,
		[]string{"customer_id", "state"})
	if err != nil {
		return err
	}
	for _, row := range src.rows {
		c := Customer{
			ID:    m.get(row, "customer_id"),
			State: strings.ToUpper(m.get(row, "state")),
		}
		if c.ID == "" {
			src.skipped++
			continue
		}
		t.Customers = append(t.Customers, c)
	}
	return nil
}

func parseReviews(src *csvTable, t *RawTables) error {
	m, err := mapColumns(src.file, src.header, reviewAliases,
		[]string{"order_id", "score"})
	if err != nil {
		return err
	}
	for _, row := range src.rows {
		r := Review{OrderID: m.get(row, "order_id")}
		if r.OrderID == "" {
			src.skipped++
			continue
		}
		r.Score = parseScore(m.get(row, "score"), &t.Stats)
		t.Reviews = append(t.Reviews, r)
	}
	return nil
}

func parsePayments(src *csvTable, t *RawTables) error {
	m, err := mapColumns(src.file, src.header, paymentAliases,
		[]string{"order_id", "value"})
	if err != nil {
		return err
	}
	for _, row := range src.rows {
		p := Payment{OrderID: m.get(row, "order_id")}
		if p.OrderID == "" {
			src.skipped++
			continue
		}
		p.Value = parseAmount(m.get(row, "value"), &t.Stats)
		t.Payments = append(t.Payments, p)
	}
	return nil
}

// timestampFormats are tried in order when parsing date columns.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseTimestamp(s string, stats *LoadStats) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	stats.BadDates++
	return nil
}

func parseAmount(s string, stats *LoadStats) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		stats.BadNumbers++
		return nil
	}
	return &v
}

func parseScore(s string, stats *LoadStats) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > 5 {
		stats.BadNumbers++
		return nil
	}
	return &v
}

// stripBOM wraps a reader to strip a UTF-8 BOM if present.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	if err != nil || n < 3 {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
