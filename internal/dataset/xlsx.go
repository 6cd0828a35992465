package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource reads its data from a local spreadsheet file instead of the
// CSV export. Useful for offline analysis of a downloaded copy of the sheet.
type WorkbookSource struct {
	path  string
	sheet string
}

// NewWorkbookSource constructs a source for the given workbook path. sheet
// may be empty, in which case the first sheet is used.
func NewWorkbookSource(path, sheet string) *WorkbookSource {
	return &WorkbookSource{path: path, sheet: sheet}
}

// Name identifies the source in snapshots and logs.
func (w *WorkbookSource) Name() string { return "workbook:" + w.path }

// Fetch streams the sheet's rows into the same (headers, records) shape as
// the CSV parser. The first row is the header list; short rows are filled
// with empty trailing fields and extra cells are dropped, matching the CSV
// contract. Rows with every cell blank are skipped, since workbook readers
// surface trailing formatting-only rows the CSV export never emits.
func (w *WorkbookSource) Fetch(ctx context.Context) ([]string, []Record, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, nil, fmt.Errorf("workbook: open %s: %w", w.path, err)
	}
	defer f.Close()

	sheet := w.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	r, err := f.Rows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("workbook: rows of %q: %w", sheet, err)
	}
	defer r.Close()

	var headers []string
	var rows []Record
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		vals, err := r.Columns()
		if err != nil {
			return nil, nil, fmt.Errorf("workbook: read row: %w", err)
		}
		if headers == nil {
			headers = make([]string, len(vals))
			for i, h := range vals {
				headers[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make(Record, len(headers))
		blank := true
		for i, h := range headers {
			v := ""
			if i < len(vals) {
				v = strings.TrimSpace(vals[i])
			}
			if v != "" {
				blank = false
			}
			row[h] = v
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	if err := r.Error(); err != nil {
		return nil, nil, fmt.Errorf("workbook: iterate rows: %w", err)
	}
	if headers == nil {
		return []string{}, []Record{}, nil
	}
	return headers, rows, nil
}
