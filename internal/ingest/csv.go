// Package ingest imports sales history from CSV and XLSX files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one parsed sales line before product resolution.
type Row struct {
	Line      int
	ProductID int64
	SKU       string
	Date      time.Time
	Quantity  int
	// UnitPrice is zero when the file has no price; the catalogue price is used.
	UnitPrice decimal.Decimal
	HasPrice  bool
}

// RowError describes a line that was skipped.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

var ErrMissingColumn = errors.New("missing required column")

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(s)
}

// ParseCSV reads a sales file with a header row. Columns are matched
// case-insensitively; ProductId or SKU, Date and QuantitySold are required and
// UnitPrice is optional. Malformed lines are returned as RowErrors.
func ParseCSV(r io.Reader) ([]Row, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[normalizeHeader(col)] = i
	}

	_, hasID := colMap["productid"]
	_, hasSKU := colMap["sku"]
	if !hasID && !hasSKU {
		return nil, nil, fmt.Errorf("%w: ProductId or SKU", ErrMissingColumn)
	}
	for _, col := range []string{"date", "quantitysold"} {
		if _, ok := colMap[col]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var (
		rows    []Row
		rowErrs []RowError
		line    = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return rows, rowErrs, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row, err := parseRow(record, colMap)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func parseRow(record []string, colMap map[string]int) (Row, error) {
	getValue := func(col string) string {
		if idx, ok := colMap[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var row Row
	if v := getValue("productid"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return row, fmt.Errorf("invalid product id %q", v)
		}
		row.ProductID = id
	}
	row.SKU = getValue("sku")
	if row.ProductID == 0 && row.SKU == "" {
		return row, errors.New("row has neither product id nor sku")
	}

	date, err := parseDate(getValue("date"))
	if err != nil {
		return row, err
	}
	row.Date = date

	qtyRaw := getValue("quantitysold")
	// spreadsheets often export integers as "3.0"
	qty, err := strconv.ParseFloat(qtyRaw, 64)
	if err != nil || qty < 0 {
		return row, fmt.Errorf("invalid quantity %q", qtyRaw)
	}
	row.Quantity = int(qty)

	if v := getValue("unitprice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil || price.IsNegative() {
			return row, fmt.Errorf("invalid unit price %q", v)
		}
		row.UnitPrice = price
		row.HasPrice = true
	}

	return row, nil
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}
