package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// WriteSheetCSV writes the sheet as CSV with a header row.
func WriteSheetCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sheet.Columns); err != nil {
		return fmt.Errorf("error writing header for sheet %q: %w", sheet.Name, err)
	}
	for i, row := range sheet.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing row %d of sheet %q: %w", i+1, sheet.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error flushing sheet %q: %w", sheet.Name, err)
	}
	return nil
}

// ReadSheetCSV parses a CSV produced by WriteSheetCSV back into a sheet.
// The sheet name is supplied by the caller since CSV carries no metadata.
func ReadSheetCSV(r io.Reader, name string) (Sheet, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return Sheet{Name: name, Columns: []string{}, Rows: [][]string{}}, nil
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("error reading header of sheet %q: %w", name, err)
	}

	sheet := Sheet{Name: name, Columns: header, Rows: [][]string{}}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("error reading sheet %q: %w", name, err)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// WriteZip bundles every sheet of the report into a zip archive, one CSV
// file per sheet.
func WriteZip(w io.Writer, report *Report) error {
	zw := zip.NewWriter(w)

	for _, sheet := range report.Sheets {
		f, err := zw.Create(sheetFileName(sheet.Name))
		if err != nil {
			return fmt.Errorf("error creating archive entry for sheet %q: %w", sheet.Name, err)
		}
		if err := WriteSheetCSV(f, sheet); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("error finalizing report archive: %w", err)
	}
	return nil
}

// sheetFileName turns a sheet name into a filesystem-friendly CSV name,
// e.g. "Page Performance" becomes "page_performance.csv".
func sheetFileName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " / ", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s + ".csv"
}
