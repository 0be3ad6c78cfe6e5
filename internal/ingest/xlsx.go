package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXToCSV writes the first sheet of an XLSX workbook as CSV.
func XLSXToCSV(r io.Reader, w io.Writer) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("xlsx workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("error iterating rows in %s: %w", sheet, err)
	}

	cw.Flush()
	return cw.Error()
}

// ParseXLSX converts the first sheet and parses it like a CSV file.
func ParseXLSX(r io.Reader) ([]Row, []RowError, error) {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(XLSXToCSV(r, pw))
	}()
	defer pr.Close()
	return ParseCSV(pr)
}
