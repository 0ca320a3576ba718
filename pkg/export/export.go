// Package export renders the compiled catalog to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anidata/anilist-compiler/pkg/flatten"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Prometheus metrics for exports.
var (
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "export_files_total",
		Help: "Export files written by format",
	}, []string{"format"})

	exportRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "export_rows",
		Help: "Rows in the last export by format",
	}, []string{"format"})
)

const sheetName = "anime"

// dedupeByID collapses duplicate ids as a final safety net before rows
// hit the file: the later record wins, keeping the position the id first
// appeared at, mirroring the catalog merge policy.
func dedupeByID(records []flatten.Record) []flatten.Record {
	index := make(map[int]int, len(records))
	out := make([]flatten.Record, 0, len(records))
	for _, r := range records {
		if pos, ok := index[r.ID]; ok {
			out[pos] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// WriteCSV writes the catalog rows as CSV with a header row. Duplicate
// ids are collapsed before writing.
func WriteCSV(w io.Writer, records []flatten.Record) error {
	records = dedupeByID(records)
	cw := csv.NewWriter(w)

	if err := cw.Write(flatten.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(flatten.Columns()))
	for _, r := range records {
		for i, cell := range r.Row() {
			row[i] = cellString(cell)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row id=%d: %w", r.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	exportsTotal.WithLabelValues("csv").Inc()
	exportRows.WithLabelValues("csv").Set(float64(len(records)))
	return nil
}

// WriteCSVFile writes the catalog to a CSV file at path, creating parent
// directories as needed.
func WriteCSVFile(path string, records []flatten.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	start := time.Now()
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}

	log.Info().
		Str("component", "export").
		Str("path", path).
		Int("rows", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Wrote CSV export")
	return nil
}

// WriteXLSXFile writes the catalog to an XLSX workbook at path. All rows
// go on a single sheet with the header in row 1. Duplicate ids are
// collapsed before writing.
func WriteXLSXFile(path string, records []flatten.Record) error {
	records = dedupeByID(records)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, name := range flatten.Columns() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell %d: %w", i+1, err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("write header %s: %w", name, err)
		}
	}

	for rowIdx, r := range records {
		for colIdx, cell := range r.Row() {
			name, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", colIdx+1, rowIdx+2, err)
			}
			if cell == nil {
				continue
			}
			if err := f.SetCellValue(sheetName, name, cell); err != nil {
				return fmt.Errorf("write cell %s id=%d: %w", name, r.ID, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}

	exportsTotal.WithLabelValues("xlsx").Inc()
	exportRows.WithLabelValues("xlsx").Set(float64(len(records)))

	log.Info().
		Str("component", "export").
		Str("path", path).
		Int("rows", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Wrote XLSX export")
	return nil
}

// cellString renders one row cell as CSV text. Absent scalars render as
// empty cells.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
