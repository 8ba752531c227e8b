package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// RequiredColumns lists the nine columns the input file must contain.
// Column names are fixed by contract with the data producer.
var RequiredColumns = []string{
	"date", "page", "device", "country",
	"sessions", "users", "bounce_rate",
	"conversions", "avg_session_duration",
}

// FieldError describes an invalid value at the load boundary. Loading fails
// on the first invalid field; metrics must never be computed on bad data.
type FieldError struct {
	Row    int // 1-based data row number (header not counted)
	Column string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Reason)
}

// MissingColumnsError reports required columns absent from the header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// ReadRecords parses and validates traffic records from CSV. dateFormat is a
// Go reference-time layout (the default contract is "02-01-2006 15:04").
func ReadRecords(r io.Reader, dateFormat string) ([]TrafficRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input is empty: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	var result []TrafficRecord
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row+1, err)
		}
		row++

		rec, err := parseRow(fields, index, dateFormat, row)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	return result, nil
}

// LoadFile reads and validates a CSV data file from disk.
func LoadFile(path, dateFormat string) ([]TrafficRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	recs, err := ReadRecords(f, dateFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid data file %s: %w", path, err)
	}
	return recs, nil
}

// WriteRecords serializes records back to the input CSV format, rendering
// timestamps with dateFormat.
func WriteRecords(w io.Writer, recs []TrafficRecord, dateFormat string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(RequiredColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range recs {
		row := []string{
			rec.Timestamp.Format(dateFormat),
			rec.Page,
			rec.Device,
			rec.Country,
			strconv.FormatInt(rec.Sessions, 10),
			strconv.FormatInt(rec.Users, 10),
			strconv.FormatFloat(rec.BounceRate, 'f', -1, 64),
			strconv.FormatInt(rec.Conversions, 10),
			strconv.FormatInt(rec.AvgSessionDuration, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}

// WriteRecordsFile writes records to a CSV file on disk.
func WriteRecordsFile(path string, recs []TrafficRecord, dateFormat string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create data file: %w", err)
	}
	defer f.Close()

	if err := WriteRecords(f, recs, dateFormat); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", path, err)
	}
	return f.Close()
}

func parseRow(fields []string, index map[string]int, dateFormat string, row int) (TrafficRecord, error) {
	get := func(col string) (string, error) {
		i := index[col]
		if i >= len(fields) {
			return "", &FieldError{Row: row, Column: col, Reason: "value missing"}
		}
		return strings.TrimSpace(fields[i]), nil
	}

	var rec TrafficRecord

	raw, err := get("date")
	if err != nil {
		return rec, err
	}
	ts, err := time.Parse(dateFormat, raw)
	if err != nil {
		return rec, &FieldError{Row: row, Column: "date", Reason: fmt.Sprintf("cannot parse %q with format %q", raw, dateFormat)}
	}
	rec.Timestamp = ts

	if rec.Page, err = get("page"); err != nil {
		return rec, err
	}
	if rec.Page == "" {
		return rec, &FieldError{Row: row, Column: "page", Reason: "must not be empty"}
	}

	if raw, err = get("device"); err != nil {
		return rec, err
	}
	rec.Device = NormalizeDevice(raw)

	if rec.Country, err = get("country"); err != nil {
		return rec, err
	}
	if rec.Country == "" {
		return rec, &FieldError{Row: row, Column: "country", Reason: "must not be empty"}
	}

	if rec.Sessions, err = parseCount(get, "sessions", row); err != nil {
		return rec, err
	}
	if rec.Users, err = parseCount(get, "users", row); err != nil {
		return rec, err
	}
	if rec.Conversions, err = parseCount(get, "conversions", row); err != nil {
		return rec, err
	}
	if rec.AvgSessionDuration, err = parseCount(get, "avg_session_duration", row); err != nil {
		return rec, err
	}

	if raw, err = get("bounce_rate"); err != nil {
		return rec, err
	}
	bounce, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(bounce) || math.IsInf(bounce, 0) {
		return rec, &FieldError{Row: row, Column: "bounce_rate", Reason: fmt.Sprintf("not a number: %q", raw)}
	}
	// Out-of-domain bounce rates indicate an upstream data defect and are
	// rejected rather than clamped.
	if bounce < 0 || bounce > 1 {
		return rec, &FieldError{Row: row, Column: "bounce_rate", Reason: fmt.Sprintf("must be within [0,1], got %v", bounce)}
	}
	rec.BounceRate = bounce

	rec.Derive()
	return rec, nil
}

func parseCount(get func(string) (string, error), col string, row int) (int64, error) {
	raw, err := get(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &FieldError{Row: row, Column: col, Reason: fmt.Sprintf("not an integer: %q", raw)}
	}
	if n < 0 {
		return 0, &FieldError{Row: row, Column: col, Reason: fmt.Sprintf("must be non-negative, got %d", n)}
	}
	return n, nil
}
