package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoColumns is returned when a dataset has no headers to lay out.
var ErrNoColumns = errors.New("dataset has no columns")

// Dataset is a table keyed by header name. Missing cells render empty.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, h := range d.Headers {
		out[i] = row[h]
	}
	return out
}

// CSVExporter writes timetables for spreadsheet apps. Excel on Windows only
// detects UTF-8 Thai text behind a byte order mark and expects CRLF rows.
type CSVExporter struct {
	WithBOM bool
	UseCRLF bool
}

// NewCSVExporter returns an exporter tuned for Excel.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{WithBOM: true, UseCRLF: true}
}

// Write streams data to w.
func (e *CSVExporter) Write(w io.Writer, data Dataset) error {
	if len(data.Headers) == 0 {
		return ErrNoColumns
	}
	if e.WithBOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = e.UseCRLF
	if err := cw.Write(data.Headers); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for i, row := range data.Rows {
		if err := cw.Write(data.record(row)); err != nil {
			return fmt.Errorf("csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Render buffers Write.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
