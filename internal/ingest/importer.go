package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Format selects the parser for a sales file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: unsupported sales file %s", domain.ErrInvalidInput, filepath.Base(path))
}

type ProductLister interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
}

type SalesWriter interface {
	BulkInsert(ctx context.Context, records []domain.SalesRecord) (int, error)
}

// Stats summarises one import.
type Stats struct {
	Rows     int        `json:"rows"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"-"`
}

type Importer struct {
	products ProductLister
	sales    SalesWriter
}

func NewImporter(products ProductLister, sales SalesWriter) *Importer {
	return &Importer{products: products, sales: sales}
}

// ImportFile opens path and imports it according to its extension.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Stats, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	stats, err := i.Import(ctx, f, format)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	return stats, nil
}

// Import resolves every row to a catalogue product and inserts the sales in
// one transaction. Rows that cannot be parsed or resolved are skipped.
func (i *Importer) Import(ctx context.Context, r io.Reader, format Format) (*Stats, error) {
	var (
		rows    []Row
		rowErrs []RowError
		err     error
	)
	switch format {
	case FormatXLSX:
		rows, rowErrs, err = ParseXLSX(r)
	default:
		rows, rowErrs, err = ParseCSV(r)
	}
	if err != nil {
		return nil, err
	}
	parseErrs := len(rowErrs)

	products, err := i.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Product, len(products))
	bySKU := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
		bySKU[strings.ToUpper(p.SKU)] = p
	}

	records := make([]domain.SalesRecord, 0, len(rows))
	for _, row := range rows {
		p, ok := byID[row.ProductID]
		if !ok && row.SKU != "" {
			p, ok = bySKU[strings.ToUpper(row.SKU)]
		}
		if !ok {
			rowErrs = append(rowErrs, RowError{Line: row.Line, Err: fmt.Errorf("unknown product id=%d sku=%q", row.ProductID, row.SKU)})
			continue
		}

		price := p.UnitPrice
		if row.HasPrice {
			price = row.UnitPrice
		}
		records = append(records, domain.SalesRecord{
			ProductID:    p.ID,
			Date:         row.Date,
			QuantitySold: row.Quantity,
			UnitPrice:    price,
		})
	}

	stats := &Stats{
		Rows:    len(rows) + parseErrs,
		Skipped: len(rowErrs),
		Errors:  rowErrs,
	}
	for _, e := range rowErrs {
		log.Warn().Int("line", e.Line).Err(e.Err).Msg("ingest: skipping sales row")
	}

	if len(records) == 0 {
		return stats, nil
	}
	n, err := i.sales.BulkInsert(ctx, records)
	if err != nil {
		return nil, err
	}
	stats.Imported = n
	log.Info().Int("imported", n).Int("skipped", stats.Skipped).Msg("ingest: sales imported")
	return stats, nil
}
