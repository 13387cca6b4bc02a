// Package ingest turns monthly stock-count CSV exports into snapshot rows.
package ingest

import (
	"fmt"
	"io"

	"leltar/pkg/metadata"

	"github.com/shopspring/decimal"
)

const (
	FormatPerWarehouse = "per-warehouse"
	FormatUnified      = "unified"
)

// Row is one parsed (product, warehouse) count. ProductName is the trimmed
// spelling found in the file.
type Row struct {
	ProductName string
	Warehouse   metadata.Warehouse
	Theoretical decimal.Decimal
	Actual      decimal.Decimal
	Month       metadata.Month
	File        string
	Line        int
}

type Warning struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Line == 0 {
		return fmt.Sprintf("%s: %s", w.File, w.Message)
	}
	return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
}

// Report collects the row-level problems of one ingestion pass. None of them
// stop the upload.
type Report struct {
	Warnings []Warning `json:"warnings"`
	Dropped  int       `json:"dropped"`
	Clamped  int       `json:"clamped"`
}

func (r *Report) warn(file string, line int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{File: file, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) drop(file string, line int, format string, args ...any) {
	r.Dropped++
	r.warn(file, line, format, args...)
}

func (r *Report) merge(other Report) {
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Dropped += other.Dropped
	r.Clamped += other.Clamped
}

// Parser reads one file. A returned error means the file as a whole is
// unusable; row problems go into the Report.
type Parser interface {
	Parse(file string, r io.Reader) ([]Row, Report, error)
}

// clampTheoretical replaces a negative theoretical count with zero.
func clampTheoretical(report *Report, file string, line int, name string, value decimal.Decimal) decimal.Decimal {
	if !value.IsNegative() {
		return value
	}
	report.Clamped++
	report.warn(file, line, "negative theoretical value %s for %q set to 0", value, name)
	return decimal.Zero
}
