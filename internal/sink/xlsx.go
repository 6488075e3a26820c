package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kremlit/leadharvest/internal/leads"
)

const xlsxSheet = "Leads"

// XLSXSink writes records to an Excel workbook. Rows accumulate in memory;
// Flush saves the workbook to disk so a crash loses at most one flush
// interval of rows.
type XLSXSink struct {
	path          string
	file          *excelize.File
	flushInterval int
	row           int
	pending       int
}

// NewXLSXSink creates a workbook with the nine-field header row.
func NewXLSXSink(path string, flushInterval int) (*XLSXSink, error) {
	if flushInterval < 1 {
		flushInterval = DefaultFlushInterval
	}

	f := excelize.NewFile()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	f.SetActiveSheet(index)

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	header := make([]interface{}, 0, len(leads.FieldNames))
	for _, name := range leads.FieldNames {
		header = append(header, name)
	}

	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	s := &XLSXSink{path: path, file: f, flushInterval: flushInterval, row: 1}

	if err := s.Flush(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *XLSXSink) Write(rec leads.Record) error {
	s.row++

	values := rec.Values()
	row := make([]interface{}, 0, len(values))

	for _, v := range values {
		row = append(row, v)
	}

	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}

	if err := s.file.SetSheetRow(xlsxSheet, cell, &row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	s.pending++
	if s.pending >= s.flushInterval {
		return s.Flush()
	}

	return nil
}

func (s *XLSXSink) Flush() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	s.pending = 0

	return nil
}

func (s *XLSXSink) Close() error {
	if err := s.Flush(); err != nil {
		s.file.Close()

		return err
	}

	return s.file.Close()
}
