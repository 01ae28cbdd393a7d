package dataset

import "strings"

// Column aliases map lowercase header names to canonical field names.
// Exports from different systems name the same column differently (olist
// dumps use the long "order_purchase_timestamp" style); they all map here.

var orderAliases = map[string]string{
	"order_id":                      "order_id",
	"id":                            "order_id",
	"customer_id":                   "customer_id",
	"order_status":                  "status",
	"status":                        "status",
	"order_purchase_timestamp":      "purchased_at",
	"purchase_timestamp":            "purchased_at",
	"purchased_at":                  "purchased_at",
	"order_approved_at":             "approved_at",
	"approved_at":                   "approved_at",
	"order_delivered_customer_date": "delivered_at",
	"delivered_at":                  "delivered_at",
	"delivered_customer_date":       "delivered_at",
	"order_estimated_delivery_date": "estimated_delivery_at",
	"estimated_delivery_date":       "estimated_delivery_at",
}

var itemAliases = map[string]string{
	"order_id":      "order_id",
	"product_id":    "product_id",
	"price":         "price",
	"item_price":    "price",
	"freight_value": "freight",
	"freight":       "freight",
	"shipping_cost": "freight",
}

var productAliases = map[string]string{
	"product_id":            "product_id",
	"id":                    "product_id",
	"product_category_name": "category",
	"category":              "category",
	"category_name":         "category",
}

var customerAliases = map[string]string{
	"customer_id":    "customer_id",
	"id":             "customer_id",
	"customer_state": "state",
	"state":          "state",
}

var reviewAliases = map[string]string{
	"order_id":     "order_id",
	"review_score": "score",
	"score":        "score",
	"rating":       "score",
}

var paymentAliases = map[string]string{
	"order_id":      "order_id",
	"payment_value": "value",
	"value":         "value",
	"amount":        "value",
}

// columnMapping holds resolved canonical field -> column index for one file.
type columnMapping map[string]int

// mapColumns resolves a header row against an alias table and verifies the
// required canonical fields are all present. Returns a MalformedDataError
// naming the first missing required column.
func mapColumns(file string, header []string, aliases map[string]string, required []string) (columnMapping, error) {
	m := make(columnMapping, len(header))
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		normalized = strings.Trim(normalized, "\"'")
		if field, ok := aliases[normalized]; ok {
			if _, seen := m[field]; !seen {
				m[field] = i
			}
		}
	}
	for _, field := range required {
		if _, ok := m[field]; !ok {
			return nil, &MalformedDataError{File: file, Column: field}
		}
	}
	return m, nil
}

// get returns the trimmed cell for a canonical field, or "" when the field
// is unmapped or the row is short.
func (m columnMapping) get(row []string, field string) string {
	idx, ok := m[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
