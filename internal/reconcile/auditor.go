// Package reconcile inspects a month for the traces that interrupted,
// non-transactional write sequences leave behind.
package reconcile

import (
	"context"
	"fmt"

	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"go.uber.org/zap"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Kind string

const (
	KindEmptyWarehouse      Kind = "empty_warehouse"
	KindTransferNoSnapshots Kind = "transfer_without_snapshots"
	KindTransferMissingCell Kind = "transfer_missing_cell"
	KindNegativeTheoretical Kind = "negative_theoretical"
)

type Finding struct {
	Kind       Kind                `json:"kind"`
	Severity   Severity            `json:"severity"`
	Warehouse  *metadata.Warehouse `json:"warehouse,omitempty"`
	ProductID  *int64              `json:"product_id,omitempty"`
	TransferID *int64              `json:"transfer_id,omitempty"`
	Message    string              `json:"message"`
}

type Report struct {
	Month     metadata.Month             `json:"month"`
	Rows      map[metadata.Warehouse]int `json:"rows"`
	Transfers int                        `json:"transfers"`
	Findings  []Finding                  `json:"findings"`
}

// Clean reports whether nothing at warning level or above was found.
func (r Report) Clean() bool {
	for _, f := range r.Findings {
		if f.Severity != SeverityInfo {
			return false
		}
	}
	return true
}

type SnapshotReader interface {
	ReadMonth(ctx context.Context, month metadata.Month) ([]models.Snapshot, error)
	CountByWarehouse(ctx context.Context, month metadata.Month) (map[metadata.Warehouse]int, error)
}

type TransferReader interface {
	GetTransfers(ctx context.Context, q models.TransferQuery) ([]models.Transfer, error)
}

type Auditor struct {
	snapshots SnapshotReader
	transfers TransferReader
	logger    *zap.Logger
}

func NewAuditor(snapshots SnapshotReader, transfers TransferReader, logger *zap.Logger) *Auditor {
	return &Auditor{snapshots: snapshots, transfers: transfers, logger: logger}
}

func (a *Auditor) Audit(ctx context.Context, month metadata.Month) (*Report, error) {
	counts, err := a.snapshots.CountByWarehouse(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("count snapshots: %w", err)
	}
	rows, err := a.snapshots.ReadMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}
	transfers, err := a.transfers.GetTransfers(ctx, models.TransferQuery{Month: &month})
	if err != nil {
		return nil, fmt.Errorf("read transfers: %w", err)
	}

	report := &Report{
		Month:     month,
		Rows:      map[metadata.Warehouse]int{},
		Transfers: len(transfers),
		Findings:  []Finding{},
	}
	total := 0
	for _, wh := range metadata.Warehouses() {
		report.Rows[wh] = counts[wh]
		total += counts[wh]
	}

	if total > 0 {
		for _, wh := range metadata.Warehouses() {
			if counts[wh] == 0 {
				report.Findings = append(report.Findings, Finding{
					Kind:      KindEmptyWarehouse,
					Severity:  SeverityWarning,
					Warehouse: &wh,
					Message:   fmt.Sprintf("%s has no rows while other warehouses do", wh),
				})
			}
		}
	}

	cells := map[models.SnapshotKey]models.Snapshot{}
	products := map[int64]struct{}{}
	for _, s := range rows {
		cells[s.Key()] = s
		products[s.ProductID] = struct{}{}
		if s.Theoretical.IsNegative() {
			report.Findings = append(report.Findings, Finding{
				Kind:      KindNegativeTheoretical,
				Severity:  SeverityWarning,
				Warehouse: &s.Warehouse,
				ProductID: &s.ProductID,
				Message:   fmt.Sprintf("theoretical quantity is %s", s.Theoretical),
			})
		}
	}

	for _, t := range transfers {
		if _, ok := products[t.ProductID]; !ok {
			report.Findings = append(report.Findings, Finding{
				Kind:       KindTransferNoSnapshots,
				Severity:   SeverityWarning,
				ProductID:  &t.ProductID,
				TransferID: &t.ID,
				Message:    "transfer references a product with no snapshot rows this month",
			})
			continue
		}
		for _, wh := range []metadata.Warehouse{t.FromWarehouse, t.ToWarehouse} {
			if _, ok := cells[models.SnapshotKey{ProductID: t.ProductID, Warehouse: wh}]; ok {
				continue
			}
			report.Findings = append(report.Findings, Finding{
				Kind:       KindTransferMissingCell,
				Severity:   SeverityError,
				Warehouse:  &wh,
				ProductID:  &t.ProductID,
				TransferID: &t.ID,
				Message:    fmt.Sprintf("no %s snapshot for a transferred product; the transfer may have stopped midway", wh),
			})
		}
	}

	if total == 0 && len(transfers) == 0 {
		report.Findings = append(report.Findings, Finding{
			Kind:     KindEmptyWarehouse,
			Severity: SeverityInfo,
			Message:  "month has no data",
		})
	}

	a.logger.Info("Month audited",
		zap.String("month", month.String()),
		zap.Int("rows", total),
		zap.Int("transfers", len(transfers)),
		zap.Int("findings", len(report.Findings)),
	)

	return report, nil
}
