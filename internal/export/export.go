// Package export renders demand forecasts as CSV.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	ContentType = "text/csv"
	keyPrefix   = "exports"
	dateLayout  = "2006-01-02"
)

var header = []string{"ProductId", "PredictedDate", "PredictedDemand", "Confidence", "ABCCategory"}

// FileName is the download name for an export produced at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("predictions_%s.csv", t.Format("20060102"))
}

// WriteCSV writes forecasts in the given order.
func WriteCSV(w io.Writer, forecasts []domain.DemandForecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, f := range forecasts {
		record := []string{
			strconv.FormatInt(f.ProductID, 10),
			f.PredictedDate.Format(dateLayout),
			strconv.FormatFloat(f.PredictedDemand, 'f', -1, 64),
			strconv.FormatFloat(f.Confidence, 'f', -1, 64),
			string(f.Tier),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Result is a rendered export.
type Result struct {
	FileName string
	Data     []byte
	// Key is the object key when the file was uploaded.
	Key string
}

// Exporter renders forecasts and, when storage is set, uploads them.
type Exporter struct {
	Storage storage.ObjectStorage
	Now     func() time.Time
}

func NewExporter(store storage.ObjectStorage) *Exporter {
	return &Exporter{Storage: store, Now: time.Now}
}

// Export renders forecasts. An upload failure is logged and does not fail
// the export.
func (e *Exporter) Export(ctx context.Context, forecasts []domain.DemandForecast) (*Result, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, forecasts); err != nil {
		return nil, fmt.Errorf("failed to write forecast csv: %w", err)
	}

	res := &Result{FileName: FileName(e.Now()), Data: buf.Bytes()}
	if e.Storage == nil {
		return res, nil
	}

	key := storage.JoinKey(keyPrefix, res.FileName)
	if err := e.Storage.UploadObject(ctx, key, res.Data, ContentType); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("export: upload failed")
		return res, nil
	}
	res.Key = key
	log.Info().Str("key", key).Int("rows", len(forecasts)).Msg("export: forecasts uploaded")
	return res, nil
}
