package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/kremlit/leadharvest/internal/leads"
)

// utf8BOM makes spreadsheet tools detect the encoding; without it Excel
// mangles non-ASCII business names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSink writes records to a BOM-prefixed UTF-8 CSV file with the nine-field
// header, flushing every flushInterval accepted rows.
type CSVSink struct {
	file          *os.File
	writer        *csv.Writer
	flushInterval int
	pending       int
}

// NewCSVSink creates the file, writes the BOM and header and returns the
// sink. A flushInterval below 1 falls back to the default.
func NewCSVSink(path string, flushInterval int) (*CSVSink, error) {
	if flushInterval < 1 {
		flushInterval = DefaultFlushInterval
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()

		return nil, fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(leads.FieldNames); err != nil {
		file.Close()

		return nil, fmt.Errorf("write header: %w", err)
	}

	writer.Flush()

	return &CSVSink{file: file, writer: writer, flushInterval: flushInterval}, nil
}

func (s *CSVSink) Write(rec leads.Record) error {
	if err := s.writer.Write(rec.Values()); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	s.pending++
	if s.pending >= s.flushInterval {
		return s.Flush()
	}

	return nil
}

func (s *CSVSink) Flush() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return err
	}

	s.pending = 0

	return s.file.Sync()
}

func (s *CSVSink) Close() error {
	s.writer.Flush()

	if err := s.writer.Error(); err != nil {
		s.file.Close()

		return err
	}

	return s.file.Close()
}
