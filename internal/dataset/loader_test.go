package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDataset materializes a complete dataset directory, then applies
// overrides (empty value removes the file).
func writeDataset(t *testing.T, overrides map[string]string) string {
	t.Helper()

	files := map[string]string{
		FileOrders: "order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date\n" +
			"o1,c1,delivered,2023-05-10 12:00:00,2023-05-13 09:00:00\n" +
			"o2,c2,DELIVERED,2023-06-01 08:00:00,\n" +
			"o3,c1,canceled,not-a-date,\n",
		FileItems: "order_id,product_id,price,freight_value\n" +
			"o1,p1,100.50,10.00\n" +
			"o1,p2,50,\n" +
			"o2,p1,abc,5\n",
		FileProducts: "product_id,product_category_name\n" +
			"p1,Electronics\n" +
			"p2,\n",
		FileCustomers: "customer_id,customer_state\n" +
			"c1,ca\n" +
			"c2,ny\n",
		FileReviews: "order_id,review_score\n" +
			"o1,5\n" +
			"o1,9\n" +
			"o2,4\n",
		FilePayments: "order_id,payment_value\n" +
			"o1,120.00\n" +
			"o1,40\n",
	}
	for name, content := range overrides {
		if content == "" {
			delete(files, name)
		} else {
			files[name] = content
		}
	}

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadCompleteDataset(t *testing.T) {
	dir := writeDataset(t, nil)

	tables, err := Load(dir)
	require.NoError(t, err)

	require.Len(t, tables.Orders, 3)
	o1 := tables.Orders[0]
	assert.Equal(t, "o1", o1.ID)
	assert.Equal(t, "delivered", o1.Status)
	require.NotNil(t, o1.PurchasedAt)
	assert.Equal(t, 2023, o1.PurchasedAt.Year())
	require.NotNil(t, o1.DeliveredAt)

	assert.Equal(t, "delivered", tables.Orders[1].Status, "status is lowercased")
	assert.Nil(t, tables.Orders[1].DeliveredAt)
	assert.Nil(t, tables.Orders[2].PurchasedAt, "unparseable date becomes nil")
	assert.Equal(t, 1, tables.Stats.BadDates)

	require.Len(t, tables.Items, 3)
	require.NotNil(t, tables.Items[0].Price)
	assert.InDelta(t, 100.50, *tables.Items[0].Price, 0.001)
	assert.Nil(t, tables.Items[1].Freight, "empty cell is nil, not zero")
	assert.Nil(t, tables.Items[2].Price, "non-numeric price becomes nil")

	require.Len(t, tables.Products, 2)
	assert.Equal(t, "electronics", tables.Products[0].Category)
	assert.Equal(t, "", tables.Products[1].Category)

	require.Len(t, tables.Customers, 2)
	assert.Equal(t, "CA", tables.Customers[0].State, "state is uppercased")

	require.Len(t, tables.Reviews, 3)
	require.NotNil(t, tables.Reviews[0].Score)
	assert.Equal(t, 5, *tables.Reviews[0].Score)
	assert.Nil(t, tables.Reviews[1].Score, "score outside 1-5 becomes nil")

	require.Len(t, tables.Payments, 2)
	assert.Equal(t, 2, tables.Stats.BadNumbers, "bad price and bad score counted")
}

func TestLoadMissingFile(t *testing.T) {
	dir := writeDataset(t, map[string]string{FileReviews: ""})

	_, err := Load(dir)
	require.Error(t, err)
	var missing *MissingFileError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, FileReviews, missing.File)
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		FileItems: "order_id,product_id\no1,p1\n",
	})

	_, err := Load(dir)
	require.Error(t, err)
	var malformed *MalformedDataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, FileItems, malformed.File)
	assert.Equal(t, "price", malformed.Column)
}

func TestLoadEmptyFile(t *testing.T) {
	dir := writeDataset(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FilePayments), nil, 0o644))
	_, err := Load(dir)
	var malformed *MalformedDataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, FilePayments, malformed.File)
}

func TestLoadCanonicalHeaders(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		FileOrders: "id,customer_id,status,purchased_at\no1,c1,delivered,2023-05-10\n",
		FileItems:  "order_id,product_id,item_price,shipping_cost\no1,p1,10,1\n",
	})

	tables, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, tables.Orders, 1)
	require.NotNil(t, tables.Orders[0].PurchasedAt, "date-only timestamps parse")
	require.Len(t, tables.Items, 1)
	require.NotNil(t, tables.Items[0].Price)
	assert.Equal(t, 10.0, *tables.Items[0].Price)
}

func TestLoadStripsBOM(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		FileCustomers: "\xEF\xBB\xBFcustomer_id,customer_state\nc1,ca\nc2,ny\n",
	})

	tables, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, tables.Customers, 2)
	assert.Equal(t, "c1", tables.Customers[0].ID)
}

func TestLoadSkipsRowsWithoutIDs(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		FileProducts: "product_id,category\np1,toys\n,orphan\n",
	})

	tables, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, tables.Products, 1)
	assert.Equal(t, 1, tables.Stats.SkippedRows[FileProducts])
}

func TestDirSourceImplementsSource(t *testing.T) {
	var _ Source = DirSource{}
	var _ Source = (*S3Source)(nil)
	var _ Source = (*SQLSource)(nil)
}

func TestDirSourceMissingDirectory(t *testing.T) {
	_, err := DirSource{Dir: filepath.Join(t.TempDir(), "nope")}.Load(context.Background())
	var missing *MissingFileError
	assert.True(t, errors.As(err, &missing))
}
