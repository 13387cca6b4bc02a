package ingest

import (
	"fmt"
	"io"
	"strings"

	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
)

// MissingWarehousesError rejects a unified file in which some warehouse
// produced no rows at all, which usually means the column layout moved.
// It reaches callers wrapped in a ParseError.
type MissingWarehousesError struct {
	Warehouses []metadata.Warehouse
}

func (e *MissingWarehousesError) Error() string {
	return fmt.Sprintf("no rows for %s; check the CSV structure", metadata.JoinWarehouses(e.Warehouses))
}

// UnifiedParser reads the combined semicolon export holding every
// warehouse side by side.
type UnifiedParser struct {
	Month metadata.Month
}

func (p UnifiedParser) Parse(file string, r io.Reader) ([]Row, Report, error) {
	var report Report

	records, err := readRecords(file, r, ';')
	if err != nil {
		return nil, report, err
	}
	if len(records) <= unifiedHeaderRows {
		return nil, report, &custom_error.ParseError{File: file, Message: "file contains no data rows"}
	}

	perWarehouse := map[metadata.Warehouse]int{}
	var rows []Row

	for _, rec := range records[unifiedHeaderRows:] {
		if len(rec.fields) < unifiedMinColumns {
			report.drop(file, rec.line, "row has %d columns, need %d", len(rec.fields), unifiedMinColumns)
			continue
		}

		name := strings.TrimSpace(rec.fields[0])
		if name == "" {
			report.drop(file, rec.line, "missing product name")
			continue
		}

		for _, wh := range metadata.Warehouses() {
			cols := unifiedColumns[wh]
			theoRaw, actRaw := rec.fields[cols.Theoretical], rec.fields[cols.Actual]
			if strings.TrimSpace(theoRaw) == "" || strings.TrimSpace(actRaw) == "" {
				continue
			}

			theoretical, err := parseQuantity(theoRaw)
			if err != nil {
				report.warn(file, rec.line, "%s: invalid theoretical value %q for %q", wh, theoRaw, name)
				continue
			}
			actual, err := parseQuantity(actRaw)
			if err != nil {
				report.warn(file, rec.line, "%s: invalid actual value %q for %q", wh, actRaw, name)
				continue
			}

			perWarehouse[wh]++
			rows = append(rows, Row{
				ProductName: name,
				Warehouse:   wh,
				Theoretical: clampTheoretical(&report, file, rec.line, name, theoretical),
				Actual:      actual,
				Month:       p.Month,
				File:        file,
				Line:        rec.line,
			})
		}
	}

	var missing []metadata.Warehouse
	for _, wh := range metadata.Warehouses() {
		if perWarehouse[wh] == 0 {
			missing = append(missing, wh)
		}
	}
	if len(missing) > 0 {
		return nil, report, &custom_error.ParseError{
			File:    file,
			Message: "missing warehouse data",
			Err:     &MissingWarehousesError{Warehouses: missing},
		}
	}

	return rows, report, nil
}
