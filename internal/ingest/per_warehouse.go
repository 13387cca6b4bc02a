package ingest

import (
	"io"
	"strings"

	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
)

// PerWarehouseParser reads the export of a single warehouse: two header
// rows, then one product per row at the columns given by Layout.
type PerWarehouseParser struct {
	Layout    ColumnLayout
	Warehouse metadata.Warehouse
	Month     metadata.Month
}

func (p PerWarehouseParser) Parse(file string, r io.Reader) ([]Row, Report, error) {
	var report Report

	records, err := readRecords(file, r, 0)
	if err != nil {
		return nil, report, err
	}
	if len(records) <= perWarehouseHeaderRows {
		return nil, report, &custom_error.ParseError{File: file, Message: "expected two header rows followed by data"}
	}

	minColumns := max(perWarehouseMinColumns, p.Layout.maxIndex()+1)
	rows := make([]Row, 0, len(records)-perWarehouseHeaderRows)

	for _, rec := range records[perWarehouseHeaderRows:] {
		if len(rec.fields) < minColumns {
			report.drop(file, rec.line, "row has %d columns, need %d", len(rec.fields), minColumns)
			continue
		}

		name := strings.TrimSpace(rec.fields[p.Layout.Name])
		if name == "" {
			report.drop(file, rec.line, "missing product name")
			continue
		}

		theoretical, err := parseCount(rec.fields[p.Layout.Theoretical])
		if err != nil {
			report.drop(file, rec.line, "invalid theoretical value %q for %q", rec.fields[p.Layout.Theoretical], name)
			continue
		}
		actual, err := parseCount(rec.fields[p.Layout.Actual])
		if err != nil {
			report.drop(file, rec.line, "invalid actual value %q for %q", rec.fields[p.Layout.Actual], name)
			continue
		}

		rows = append(rows, Row{
			ProductName: name,
			Warehouse:   p.Warehouse,
			Theoretical: clampTheoretical(&report, file, rec.line, name, theoretical),
			Actual:      actual,
			Month:       p.Month,
			File:        file,
			Line:        rec.line,
		})
	}

	return rows, report, nil
}
