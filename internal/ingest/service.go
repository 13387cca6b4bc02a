package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"leltar/internal/catalog"
	"leltar/internal/metrics"
	"leltar/internal/snapshots"
	"leltar/pkg/auditlog"
	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source is one uploaded file. Warehouse is the operator's raw assignment
// and only matters for per-warehouse uploads.
type Source struct {
	Name      string
	Reader    io.Reader
	Warehouse string
}

type Result struct {
	Upload models.MonthUpload `json:"upload"`
	Report Report             `json:"report"`
}

type Service struct {
	resolver *catalog.Resolver
	store    *snapshots.Store
	layout   ColumnLayout
	auditLog *auditlog.Auditlog
	metrics  *metrics.Recorder
	logger   *zap.Logger
	actor    string
	now      func() time.Time
}

func NewService(
	resolver *catalog.Resolver,
	store *snapshots.Store,
	layout ColumnLayout,
	a *auditlog.Auditlog,
	recorder *metrics.Recorder,
	logger *zap.Logger,
	actor string,
) *Service {
	return &Service{
		resolver: resolver,
		store:    store,
		layout:   layout,
		auditLog: a,
		metrics:  recorder,
		logger:   logger,
		actor:    actor,
		now:      time.Now,
	}
}

// UploadPerWarehouse replaces month with the six per-warehouse exports.
// Every file is parsed before the catalog or the month is touched.
func (s *Service) UploadPerWarehouse(ctx context.Context, month metadata.Month, sources []Source) (*Result, error) {
	result, err := s.uploadPerWarehouse(ctx, month, sources)
	s.metrics.Upload(FormatPerWarehouse, err)
	return result, err
}

func (s *Service) uploadPerWarehouse(ctx context.Context, month metadata.Month, sources []Source) (*Result, error) {
	if err := s.validateMonth(month); err != nil {
		return nil, err
	}

	expected := len(metadata.Warehouses())
	if len(sources) != expected {
		return nil, custom_error.NewValidationError("files",
			fmt.Sprintf("expected %d files, one per warehouse, got %d", expected, len(sources)))
	}

	assigned := map[metadata.Warehouse]string{}
	parsers := make([]PerWarehouseParser, len(sources))
	for i, src := range sources {
		wh, err := metadata.NewWarehouse(src.Warehouse)
		if err != nil {
			return nil, custom_error.NewValidationError("warehouses",
				fmt.Sprintf("file %s: %s", src.Name, err.Error()))
		}
		if other, dup := assigned[wh]; dup {
			return nil, custom_error.NewValidationError("warehouses",
				fmt.Sprintf("%s is assigned to both %s and %s", wh, other, src.Name))
		}
		assigned[wh] = src.Name
		parsers[i] = PerWarehouseParser{Layout: s.layout, Warehouse: wh, Month: month}
	}

	var (
		rows   []Row
		report Report
	)
	for i, src := range sources {
		parsed, fileReport, err := parsers[i].Parse(src.Name, src.Reader)
		report.merge(fileReport)
		if err != nil {
			return nil, err
		}
		rows = append(rows, parsed...)
	}

	return s.ingest(ctx, month, FormatPerWarehouse, rows, report)
}

// UploadUnified replaces month with the combined export.
func (s *Service) UploadUnified(ctx context.Context, month metadata.Month, source Source) (*Result, error) {
	result, err := s.uploadUnified(ctx, month, source)
	s.metrics.Upload(FormatUnified, err)
	return result, err
}

func (s *Service) uploadUnified(ctx context.Context, month metadata.Month, source Source) (*Result, error) {
	if err := s.validateMonth(month); err != nil {
		return nil, err
	}

	rows, report, err := UnifiedParser{Month: month}.Parse(source.Name, source.Reader)
	if err != nil {
		return nil, err
	}

	return s.ingest(ctx, month, FormatUnified, rows, report)
}

func (s *Service) validateMonth(month metadata.Month) error {
	if month.IsZero() {
		return custom_error.NewValidationError("month", "month is required")
	}
	if month.After(metadata.MonthOf(s.now())) {
		return custom_error.NewValidationError("month", fmt.Sprintf("%s is in the future", month))
	}
	return nil
}

func (s *Service) ingest(ctx context.Context, month metadata.Month, format string, rows []Row, report Report) (*Result, error) {
	uploadID := uuid.NewString()
	logger := s.logger.With(
		zap.String("upload_id", uploadID),
		zap.String("month", month.String()),
		zap.String("format", format),
	)

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.ProductName
	}
	ids, err := s.resolver.Resolve(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	snapshotRows := make([]models.Snapshot, 0, len(rows))
	seen := map[models.SnapshotKey]int{}
	for _, row := range rows {
		productID, ok := ids[catalog.NormalizeName(row.ProductName)]
		if !ok {
			report.warn(row.File, row.Line, "product %q could not be mapped to the catalog, row skipped", row.ProductName)
			continue
		}

		snapshot := models.Snapshot{
			ProductID:   productID,
			Warehouse:   row.Warehouse,
			Month:       month.Start(),
			Theoretical: row.Theoretical,
			Actual:      row.Actual,
		}
		if i, dup := seen[snapshot.Key()]; dup {
			report.warn(row.File, row.Line, "%q appears again for %s, keeping this row", row.ProductName, row.Warehouse)
			snapshotRows[i] = snapshot
			continue
		}
		seen[snapshot.Key()] = len(snapshotRows)
		snapshotRows = append(snapshotRows, snapshot)
	}

	if len(snapshotRows) == 0 {
		return nil, custom_error.NewValidationError("file", "no valid stock data")
	}

	if err := s.store.ReplaceMonth(ctx, month, snapshotRows); err != nil {
		var partial *custom_error.PartialFailureError
		if errors.As(err, &partial) {
			s.metrics.PartialFailure("replace_month")
		}
		return nil, err
	}

	perWarehouse := map[metadata.Warehouse]int{}
	for _, row := range snapshotRows {
		perWarehouse[row.Warehouse]++
	}
	for wh, n := range perWarehouse {
		s.metrics.RowsIngested(string(wh), n)
	}
	s.metrics.RowsDropped(format, report.Dropped)
	s.metrics.RowsClamped(report.Clamped)

	for _, w := range report.Warnings {
		logger.Warn("Row warning", zap.String("warning", w.String()))
	}

	upload := models.MonthUpload{
		UploadID: uploadID,
		Month:    month,
		Format:   format,
		Rows:     len(snapshotRows),
		Warnings: len(report.Warnings),
	}
	s.auditLog.Log(ctx, "upload", s.actor, map[string]interface{}{
		"upload_id": uploadID,
		"format":    format,
		"rows":      upload.Rows,
		"dropped":   report.Dropped,
		"warnings":  upload.Warnings,
	}, &upload)

	logger.Info("Month replaced", zap.Int("rows", upload.Rows), zap.Int("warnings", upload.Warnings))

	return &Result{Upload: upload, Report: report}, nil
}
