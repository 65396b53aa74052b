package source

import (
	"context"

	"github.com/okian/evalrecon/internal/domain/csvparse"
	"github.com/okian/evalrecon/internal/domain/mapper"
	"github.com/okian/evalrecon/internal/domain/model"
	"github.com/okian/evalrecon/pkg/metrics"
)

const (
	sheetName    = "csv"
	sheetDataset = "sheet"
)

// Sheet reads the published CSV of the submissions sheet.
type Sheet struct {
	url string
	options
}

// NewSheet creates a CSV-direct adapter for url.
func NewSheet(url string, opts ...Option) *Sheet {
	return &Sheet{url: url, options: buildOptions(opts)}
}

func (s *Sheet) Name() string { return sheetName }

// Load fetches the sheet, drops the header and maps each submission row.
func (s *Sheet) Load(ctx context.Context) (model.Dataset, error) {
	body, err := s.fetch(ctx, sheetName, sheetDataset, s.url, nil)
	if err != nil {
		return model.Dataset{}, err
	}
	rows := csvparse.Parse(string(body), csvparse.WithHeader(true))
	ds := mapper.FromSheet(rows)
	metrics.RecordRows(sheetDataset, len(ds.Attendees), ds.RejectedAttendees)
	return ds, nil
}
