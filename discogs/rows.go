package discogs

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
)

// RowWriter ends records with CRLF but leaves line breaks inside fields as
// they were read.
type RowWriter struct {
	out     *bufio.Writer
	record  bytes.Buffer
	csv     *csv.Writer
	missing string
	rows    int
}

// NewRowWriter writes the header straight away, so an input without releases
// still produces a header-only table.
func NewRowWriter(w io.Writer, missing string) (*RowWriter, error) {
	writer := &RowWriter{
		out:     bufio.NewWriter(w),
		missing: missing,
	}
	writer.csv = csv.NewWriter(&writer.record)

	if err := writer.writeRecord(Header); err != nil {
		return nil, err
	}

	return writer, nil
}

func (w *RowWriter) Write(release *Release) error {
	if err := w.writeRecord(release.Row(w.missing)); err != nil {
		return err
	}

	w.rows++
	return nil
}

func (w *RowWriter) writeRecord(fields []string) error {
	w.record.Reset()

	if err := w.csv.Write(fields); err != nil {
		return err
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}

	line := bytes.TrimSuffix(w.record.Bytes(), []byte("\n"))
	if _, err := w.out.Write(line); err != nil {
		return err
	}
	_, err := w.out.WriteString("\r\n")
	return err
}

func (w *RowWriter) Rows() int {
	return w.rows
}

func (w *RowWriter) Flush() error {
	return w.out.Flush()
}
