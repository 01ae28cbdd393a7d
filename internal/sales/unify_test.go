package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/commerce-pulse/internal/dataset"
)

func ts(year, month, day int) *time.Time {
	t := time.Date(year, time.Month(month), day, 10, 0, 0, 0, time.UTC)
	return &t
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func fixtureTables() *dataset.RawTables {
	return &dataset.RawTables{
		Orders: []dataset.Order{
			{ID: "o1", CustomerID: "c1", Status: "delivered",
				PurchasedAt: ts(2023, 5, 10), DeliveredAt: ts(2023, 5, 13)},
			{ID: "o2", CustomerID: "c2", Status: "delivered",
				PurchasedAt: ts(2023, 6, 1), DeliveredAt: ts(2023, 6, 9)},
			{ID: "o3", CustomerID: "c1", Status: "canceled",
				PurchasedAt: ts(2023, 5, 20)},
			{ID: "o4", CustomerID: "c1", Status: "delivered",
				PurchasedAt: ts(2022, 5, 10), DeliveredAt: ts(2022, 5, 12)},
		},
		Items: []dataset.OrderItem{
			{OrderID: "o1", ProductID: "p1", Price: floatPtr(100), Freight: floatPtr(10)},
			{OrderID: "o1", ProductID: "p2", Price: floatPtr(50)},
			{OrderID: "o2", ProductID: "p1", Price: floatPtr(200)},
			{OrderID: "o3", ProductID: "p1", Price: floatPtr(75)},
			{OrderID: "o4", ProductID: "p1", Price: floatPtr(60)},
		},
		Products: []dataset.Product{
			{ID: "p1", Category: "electronics"},
			{ID: "p2", Category: ""},
		},
		Customers: []dataset.Customer{
			{ID: "c1", State: "CA"},
			{ID: "c2", State: "NY"},
		},
		Reviews: []dataset.Review{
			{OrderID: "o1", Score: intPtr(5)},
			{OrderID: "o1", Score: intPtr(3)},
			{OrderID: "o2", Score: intPtr(4)},
		},
		Payments: []dataset.Payment{
			{OrderID: "o1", Value: floatPtr(120)},
			{OrderID: "o1", Value: floatPtr(40)},
		},
	}
}

func TestUnifyDefaultStatus(t *testing.T) {
	table := Unify(fixtureTables(), Filter{Status: DefaultStatus})

	require.Len(t, table.Rows, 4, "canceled o3 is filtered out")
	for _, r := range table.Rows {
		assert.Equal(t, "delivered", r.Status)
	}
	assert.Equal(t, 3, table.DistinctOrders())
	assert.InDelta(t, 410.0, table.TotalRevenue(), 0.001)
}

func TestUnifyEmptyStatusIncludesAll(t *testing.T) {
	table := Unify(fixtureTables(), Filter{})
	assert.Equal(t, 4, table.DistinctOrders(), "empty status keeps canceled orders")
}

func TestUnifyYearFilter(t *testing.T) {
	table := Unify(fixtureTables(), Filter{Status: DefaultStatus, Year: 2023})
	assert.Equal(t, 2, table.DistinctOrders())
	for _, r := range table.Rows {
		assert.Equal(t, 2023, r.Year)
	}
}

func TestUnifyMonthFilterNeedsYear(t *testing.T) {
	withYear := Unify(fixtureTables(), Filter{Status: DefaultStatus, Year: 2023, Month: 5})
	assert.Equal(t, 1, withYear.DistinctOrders())
	for _, r := range withYear.Rows {
		assert.Equal(t, 5, r.Month)
	}

	// Month alone is ignored.
	monthOnly := Unify(fixtureTables(), Filter{Status: DefaultStatus, Month: 5})
	assert.Equal(t, 3, monthOnly.DistinctOrders())
}

func TestUnifyNoMatchYieldsEmptyTable(t *testing.T) {
	table := Unify(fixtureTables(), Filter{Status: "shipped"})
	assert.True(t, table.Empty())
	assert.Zero(t, table.TotalRevenue())
	assert.Zero(t, table.DistinctOrders())
}

func TestUnifyDerivedColumns(t *testing.T) {
	table := Unify(fixtureTables(), Filter{Status: DefaultStatus, Year: 2023})

	var o1Rows []Row
	for _, r := range table.Rows {
		if r.OrderID == "o1" {
			o1Rows = append(o1Rows, r)
		}
	}
	require.Len(t, o1Rows, 2)

	first := o1Rows[0]
	assert.Equal(t, "CA", first.State)
	require.NotNil(t, first.DeliveryDays)
	assert.Equal(t, 3, *first.DeliveryDays)

	// Two reviews (5 and 3) collapse to their average.
	require.NotNil(t, first.ReviewScore)
	assert.InDelta(t, 4.0, *first.ReviewScore, 0.001)

	// Two payments sum per order, repeated on each line item.
	require.NotNil(t, first.PaymentTotal)
	assert.InDelta(t, 160.0, *first.PaymentTotal, 0.001)

	// p2 has no category.
	assert.Equal(t, "unknown", o1Rows[1].Category)
}

func TestUnifyFirstReviewAggregation(t *testing.T) {
	table := UnifyWithOptions(fixtureTables(), Filter{Status: DefaultStatus, Year: 2023},
		Options{ReviewAggregation: "first"})

	for _, r := range table.Rows {
		if r.OrderID == "o1" {
			require.NotNil(t, r.ReviewScore)
			assert.Equal(t, 5.0, *r.ReviewScore)
		}
	}
}

func TestUnifyExclusions(t *testing.T) {
	tables := fixtureTables()
	tables.Items = append(tables.Items,
		dataset.OrderItem{OrderID: "ghost", ProductID: "p1", Price: floatPtr(10)},
		dataset.OrderItem{OrderID: "o1", ProductID: "ghost", Price: floatPtr(10)},
		dataset.OrderItem{OrderID: "o1", ProductID: "p1", Price: nil},
	)
	tables.Orders = append(tables.Orders, dataset.Order{
		ID: "o5", CustomerID: "ghost", Status: "delivered", PurchasedAt: ts(2023, 7, 1),
	})
	tables.Items = append(tables.Items,
		dataset.OrderItem{OrderID: "o5", ProductID: "p1", Price: floatPtr(10)})

	table := Unify(tables, Filter{Status: DefaultStatus})

	assert.Equal(t, 1, table.Excluded.MissingOrder)
	assert.Equal(t, 1, table.Excluded.MissingProduct)
	assert.Equal(t, 1, table.Excluded.MissingCustomer)
	assert.Equal(t, 1, table.Excluded.BadPrice)
	assert.Equal(t, 4, table.Excluded.Total())
	assert.Equal(t, 3, table.DistinctOrders(), "exclusions never cross-product")
}

func TestUnifyRejectsNegativeDeliveryInterval(t *testing.T) {
	tables := &dataset.RawTables{
		Orders: []dataset.Order{
			{ID: "o1", CustomerID: "c1", Status: "delivered",
				PurchasedAt: ts(2023, 5, 10), DeliveredAt: ts(2023, 5, 1)},
		},
		Items:     []dataset.OrderItem{{OrderID: "o1", ProductID: "p1", Price: floatPtr(10)}},
		Products:  []dataset.Product{{ID: "p1", Category: "toys"}},
		Customers: []dataset.Customer{{ID: "c1", State: "CA"}},
	}

	table := Unify(tables, Filter{Status: DefaultStatus})
	assert.True(t, table.Empty())
	assert.Equal(t, 1, table.Excluded.BadDate)
}

func TestUnifyNilPurchaseDateExcluded(t *testing.T) {
	tables := &dataset.RawTables{
		Orders:    []dataset.Order{{ID: "o1", CustomerID: "c1", Status: "delivered"}},
		Items:     []dataset.OrderItem{{OrderID: "o1", ProductID: "p1", Price: floatPtr(10)}},
		Products:  []dataset.Product{{ID: "p1", Category: "toys"}},
		Customers: []dataset.Customer{{ID: "c1", State: "CA"}},
	}

	table := Unify(tables, Filter{Status: DefaultStatus})
	assert.True(t, table.Empty())
	assert.Equal(t, 1, table.Excluded.BadDate)
}

func TestUnifyNilTables(t *testing.T) {
	table := Unify(nil, Filter{})
	assert.True(t, table.Empty())
}
