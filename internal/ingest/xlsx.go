package ingest

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/lox/weatherscope/internal/dataset"
)

// exportSheet is the sheet name used for both reading and writing
// spreadsheet tables.
const exportSheet = "Observations"

// ReadXLSX reads the first sheet of a spreadsheet as an observation table.
// The first row is the header.
func ReadXLSX(r io.Reader, source string) (dataset.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "open spreadsheet", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "no sheets in spreadsheet"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "read sheet", Err: err}
	}
	if len(rows) < 2 {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "empty dataset"}
	}

	header := rows[0]
	columns := make([][]string, len(header))
	for i := range header {
		columns[i] = make([]string, 0, len(rows)-1)
	}
	for _, row := range rows[1:] {
		for i := range header {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			columns[i] = append(columns[i], v)
		}
	}

	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New(columns[i], series.String, name)
	}
	df := dataframe.New(cols...)
	if err := df.Error(); err != nil {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "assemble sheet", Err: err}
	}
	return buildTable(df, source)
}

// WriteXLSX writes the table (header row first, timestamps restored as a
// date column) to a spreadsheet at path.
func WriteXLSX(t dataset.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	times := t.Times()
	records := t.Records()
	for rowIdx, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if rowIdx == 0 {
			if err := f.SetSheetRow(exportSheet, cell, &[]interface{}{string(dataset.ColDate)}); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
		} else {
			date := times[rowIdx-1].Format("2006-01-02 15:04:05.000 -0700")
			if err := f.SetSheetRow(exportSheet, cell, &[]interface{}{date}); err != nil {
				return fmt.Errorf("write row %d: %w", rowIdx, err)
			}
		}
		row := make([]interface{}, len(record))
		for i, v := range record {
			row[i] = v
		}
		cell, err = excelize.CoordinatesToCellName(2, rowIdx+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", rowIdx, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}
