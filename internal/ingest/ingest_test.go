package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	input := "product_id, Date ,Quantity Sold,UnitPrice\n" +
		"1,2026-01-05,3,19.99\n" +
		"2,2026-01-06,2.0,\n" +
		"x,2026-01-06,2,1\n" +
		"3,not-a-date,2,1\n" +
		"4,2026-01-07,-1,1\n"

	rows, rowErrs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rowErrs, 3)

	assert.Equal(t, int64(1), rows[0].ProductID)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.True(t, rows[0].HasPrice)
	assert.True(t, rows[0].UnitPrice.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 2, rows[1].Quantity)
	assert.False(t, rows[1].HasPrice)

	assert.Equal(t, 4, rowErrs[0].Line)
	assert.Contains(t, rowErrs[1].Error(), "invalid date")
	assert.Contains(t, rowErrs[2].Error(), "invalid quantity")
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader("Date,QuantitySold\n2026-01-01,1\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, _, err = ParseCSV(strings.NewReader("SKU,QuantitySold\nA,1\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, _, err = ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("/tmp/Sales.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFor("sales.json")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func xlsxFixture(t *testing.T) *strings.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"SKU", "Date", "QuantitySold"},
		{"el-001", "2026-02-01", 4},
		{"BK-002", "2026-02-02", 1},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return strings.NewReader(buf.String())
}

func TestParseXLSX(t *testing.T) {
	rows, rowErrs, err := ParseXLSX(xlsxFixture(t))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)
	assert.Equal(t, "el-001", rows[0].SKU)
	assert.Equal(t, 4, rows[0].Quantity)
}

type fakeProducts []domain.Product

func (f fakeProducts) ListAll(context.Context) ([]domain.Product, error) { return f, nil }

type fakeSales struct {
	records []domain.SalesRecord
	err     error
}

func (f *fakeSales) BulkInsert(_ context.Context, records []domain.SalesRecord) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.records = append(f.records, records...)
	return len(records), nil
}

var catalogue = fakeProducts{
	{ID: 1, SKU: "EL-001", UnitPrice: decimal.NewFromInt(500)},
	{ID: 2, SKU: "BK-002", UnitPrice: decimal.NewFromInt(20)},
}

func TestImporter_ResolvesByIDAndSKU(t *testing.T) {
	sales := &fakeSales{}
	imp := NewImporter(catalogue, sales)

	input := "ProductId,SKU,Date,QuantitySold,UnitPrice\n" +
		"1,,2026-01-05,3,450\n" +
		",bk-002,2026-01-05,2,\n" +
		"99,,2026-01-05,1,\n" +
		"1,,bad,1,\n"

	stats, err := imp.Import(context.Background(), strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 2, stats.Skipped)

	require.Len(t, sales.records, 2)
	assert.True(t, sales.records[0].UnitPrice.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, int64(2), sales.records[1].ProductID)
	assert.True(t, sales.records[1].UnitPrice.Equal(decimal.NewFromInt(20)))
}

func TestImporter_XLSX(t *testing.T) {
	sales := &fakeSales{}
	stats, err := NewImporter(catalogue, sales).Import(context.Background(), xlsxFixture(t), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, int64(1), sales.records[0].ProductID)
}

func TestImporter_InsertFailure(t *testing.T) {
	sales := &fakeSales{err: errors.New("db down")}
	_, err := NewImporter(catalogue, sales).Import(context.Background(),
		strings.NewReader("ProductId,Date,QuantitySold\n1,2026-01-05,3\n"), FormatCSV)
	assert.EqualError(t, err, "db down")
}
