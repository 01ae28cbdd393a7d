package sales

import (
	"github.com/ignite/commerce-pulse/internal/dataset"
	"github.com/ignite/commerce-pulse/internal/pkg/logger"
)

// DefaultStatus is the order status analyses normally restrict to.
// The Unify filter itself treats an empty status as "include all"; callers
// that want the conventional view pass this explicitly.
const DefaultStatus = "delivered"

// Filter restricts the unified table. Zero values mean "include all";
// Month is honored only when Year is set.
type Filter struct {
	Status string
	Year   int
	Month  int
}

// Options tunes unification behavior.
type Options struct {
	// ReviewAggregation picks how multiple reviews per order collapse into
	// one score: "average" (default, non-null scores only) or "first".
	ReviewAggregation string
}

// Unify joins orders, items, products and customers, left-joins reviews and
// payments, applies the filter, and computes derived columns. Items whose
// order, product, or customer is missing are dropped and counted, never
// cross-producted. A filter matching nothing yields an empty table.
func Unify(tables *dataset.RawTables, f Filter) *Table {
	return UnifyWithOptions(tables, f, Options{})
}

// UnifyWithOptions is Unify with explicit options.
func UnifyWithOptions(tables *dataset.RawTables, f Filter, opts Options) *Table {
	t := &Table{}
	if tables == nil {
		return t
	}

	orders := make(map[string]*dataset.Order, len(tables.Orders))
	for i := range tables.Orders {
		orders[tables.Orders[i].ID] = &tables.Orders[i]
	}
	categories := make(map[string]string, len(tables.Products))
	for _, p := range tables.Products {
		categories[p.ID] = p.Category
	}
	states := make(map[string]string, len(tables.Customers))
	for _, c := range tables.Customers {
		states[c.ID] = c.State
	}
	scores := collapseReviews(tables.Reviews, opts.ReviewAggregation)
	payments := sumPayments(tables.Payments)

	for _, item := range tables.Items {
		order, ok := orders[item.OrderID]
		if !ok {
			t.Excluded.MissingOrder++
			continue
		}

		// Filter order: status, then year, then month (month needs year).
		if f.Status != "" && order.Status != f.Status {
			continue
		}
		if order.PurchasedAt == nil {
			t.Excluded.BadDate++
			continue
		}
		year, month := order.PurchasedAt.Year(), int(order.PurchasedAt.Month())
		if f.Year != 0 {
			if year != f.Year {
				continue
			}
			if f.Month != 0 && month != f.Month {
				continue
			}
		}

		category, ok := categories[item.ProductID]
		if !ok {
			t.Excluded.MissingProduct++
			continue
		}
		if category == "" {
			category = "unknown"
		}
		state, ok := states[order.CustomerID]
		if !ok {
			t.Excluded.MissingCustomer++
			continue
		}
		if item.Price == nil {
			t.Excluded.BadPrice++
			continue
		}

		row := Row{
			OrderID:     order.ID,
			CustomerID:  order.CustomerID,
			State:       state,
			Category:    category,
			Status:      order.Status,
			Price:       *item.Price,
			PurchasedAt: *order.PurchasedAt,
			Year:        year,
			Month:       month,
		}
		if item.Freight != nil {
			row.Freight = *item.Freight
		}
		if order.DeliveredAt != nil {
			delivered := *order.DeliveredAt
			row.DeliveredAt = &delivered
			if days := int(delivered.Sub(*order.PurchasedAt).Hours() / 24); days >= 0 {
				row.DeliveryDays = &days
			} else {
				// delivered before purchase violates the order invariant
				t.Excluded.BadDate++
				continue
			}
		}
		if score, ok := scores[order.ID]; ok {
			s := score
			row.ReviewScore = &s
		}
		if total, ok := payments[order.ID]; ok {
			v := total
			row.PaymentTotal = &v
		}

		t.Rows = append(t.Rows, row)
	}

	if n := t.Excluded.Total(); n > 0 {
		logger.Warn("unify excluded rows",
			"total", n,
			"missing_order", t.Excluded.MissingOrder,
			"missing_product", t.Excluded.MissingProduct,
			"missing_customer", t.Excluded.MissingCustomer,
			"bad_price", t.Excluded.BadPrice,
			"bad_date", t.Excluded.BadDate)
	}

	return t
}

// collapseReviews reduces possibly-multiple reviews per order to one score.
func collapseReviews(reviews []dataset.Review, mode string) map[string]float64 {
	if mode == "first" {
		first := make(map[string]float64)
		for _, r := range reviews {
			if r.Score == nil {
				continue
			}
			if _, ok := first[r.OrderID]; !ok {
				first[r.OrderID] = float64(*r.Score)
			}
		}
		return first
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range reviews {
		if r.Score == nil {
			continue
		}
		sums[r.OrderID] += float64(*r.Score)
		counts[r.OrderID]++
	}
	avg := make(map[string]float64, len(sums))
	for id, sum := range sums {
		avg[id] = sum / float64(counts[id])
	}
	return avg
}

// sumPayments totals payment values per order.
func sumPayments(payments []dataset.Payment) map[string]float64 {
	totals := make(map[string]float64)
	for _, p := range payments {
		if p.Value == nil {
			continue
		}
		totals[p.OrderID] += *p.Value
	}
	return totals
}
