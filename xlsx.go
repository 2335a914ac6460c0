package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// xlsxSheetName is the sheet exported records are written to.
const xlsxSheetName = "Catalog"

// readXLSXRecords returns the cells of the first sheet of an XLSX workbook.
// Only the first sheet is read; catalogs never span several sheets.
func readXLSXRecords(data []byte) ([][]string, error) {
	xlsxFile, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, errors.New("no sheets found in Excel file")
	}

	rows, err := xlsxFile.GetRows(sheetNames[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetNames[0], err)
	}
	return rows, nil
}

// writeXLSX writes header and rows to w as a single-sheet workbook.
func writeXLSX(w io.Writer, header []string, rows [][]string) error {
	xlsxFile := excelize.NewFile()
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	defaultSheet := xlsxFile.GetSheetName(0)
	if err := xlsxFile.SetSheetName(defaultSheet, xlsxSheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := setXLSXRow(xlsxFile, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setXLSXRow(xlsxFile, i+2, row); err != nil {
			return err
		}
	}

	if err := xlsxFile.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func setXLSXRow(xlsxFile *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := xlsxFile.SetSheetRow(xlsxSheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
