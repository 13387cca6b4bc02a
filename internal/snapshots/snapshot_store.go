package snapshots

import (
	"context"
	"errors"
	"fmt"

	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	insertChunkSize = 500
	DefaultPageSize = 1000
)

// Cell is the read-or-default view of one snapshot row.
type Cell struct {
	ID          int64
	Theoretical decimal.Decimal
	Actual      decimal.Decimal
	Exists      bool
}

// Store owns month-scoped snapshot writes. None of its multi-statement
// operations run inside a transaction: a failure midway leaves the
// statements that already ran in place and is reported as a
// PartialFailureError.
type Store struct {
	repo     Repository
	logger   *zap.Logger
	pageSize uint
}

func NewStore(repo Repository, logger *zap.Logger, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{repo: repo, logger: logger, pageSize: uint(pageSize)}
}

// ReplaceMonth deletes every snapshot of month and inserts rows in chunks.
// Rows must not repeat a (product, warehouse) key.
func (s *Store) ReplaceMonth(ctx context.Context, month metadata.Month, rows []models.Snapshot) error {
	deleted, err := s.repo.DeleteMonth(ctx, month)
	if err != nil {
		return fmt.Errorf("failed to clear month %s: %w", month, err)
	}
	s.logger.Info("Cleared month snapshots", zap.String("month", month.String()), zap.Int64("deleted", deleted))

	for start := 0; start < len(rows); start += insertChunkSize {
		end := min(start+insertChunkSize, len(rows))
		chunk := make([]models.Snapshot, end-start)
		for i, row := range rows[start:end] {
			row.Month = month.Start()
			chunk[i] = row
		}

		if err := s.repo.InsertSnapshots(ctx, chunk); err != nil {
			completed := []string{fmt.Sprintf("deleted %d rows", deleted)}
			if start > 0 {
				completed = append(completed, fmt.Sprintf("inserted %d of %d rows", start, len(rows)))
			}
			s.logger.Error("Month replacement stopped after delete",
				zap.String("month", month.String()),
				zap.Int("inserted", start),
				zap.Int("total", len(rows)),
				zap.Error(err),
			)
			return &custom_error.PartialFailureError{
				Operation: "replace month",
				Month:     month.String(),
				Completed: completed,
				Failed:    fmt.Sprintf("insert rows %d-%d", start+1, end),
				Err:       err,
			}
		}
	}

	return nil
}

// ReadMonth pages through the month ordered by id until a short page.
func (s *Store) ReadMonth(ctx context.Context, month metadata.Month) ([]models.Snapshot, error) {
	var all []models.Snapshot
	var offset uint

	for {
		page, err := s.repo.GetMonthPage(ctx, month, offset, s.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if uint(len(page)) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	return all, nil
}

func (s *Store) ReadOrCreateCell(ctx context.Context, month metadata.Month, warehouse metadata.Warehouse, productID int64) (Cell, error) {
	snapshot, err := s.repo.GetCell(ctx, month, warehouse, productID)
	if err != nil {
		return Cell{}, err
	}
	if snapshot == nil {
		return Cell{Theoretical: decimal.Zero, Actual: decimal.Zero}, nil
	}

	return Cell{
		ID:          snapshot.ID,
		Theoretical: snapshot.Theoretical,
		Actual:      snapshot.Actual,
		Exists:      true,
	}, nil
}

// ApplyDelta adds delta to the theoretical quantity of one cell, creating
// the cell with actual = 0 when it does not exist yet. The read and the
// write are separate statements, so concurrent callers on the same cell
// can lose an update.
func (s *Store) ApplyDelta(ctx context.Context, month metadata.Month, warehouse metadata.Warehouse, productID int64, delta decimal.Decimal) error {
	cell, err := s.ReadOrCreateCell(ctx, month, warehouse, productID)
	if err != nil {
		return err
	}

	if cell.Exists {
		return s.repo.UpdateTheoretical(ctx, cell.ID, cell.Theoretical.Add(delta))
	}

	err = s.repo.InsertSnapshots(ctx, []models.Snapshot{{
		ProductID:   productID,
		Warehouse:   warehouse,
		Month:       month.Start(),
		Theoretical: delta,
		Actual:      decimal.Zero,
	}})
	if err != nil && custom_error.IsUniqueViolation(err) {
		// Someone created the cell between our read and insert.
		cell, err = s.ReadOrCreateCell(ctx, month, warehouse, productID)
		if err != nil {
			return err
		}
		if !cell.Exists {
			return errors.New("snapshot cell vanished after unique violation")
		}
		return s.repo.UpdateTheoretical(ctx, cell.ID, cell.Theoretical.Add(delta))
	}

	return err
}

// PurgeMonth removes every snapshot of month and reports how many rows went.
func (s *Store) PurgeMonth(ctx context.Context, month metadata.Month) (int64, error) {
	deleted, err := s.repo.DeleteMonth(ctx, month)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Purged month snapshots", zap.String("month", month.String()), zap.Int64("deleted", deleted))
	return deleted, nil
}

func (s *Store) CountByWarehouse(ctx context.Context, month metadata.Month) (map[metadata.Warehouse]int, error) {
	return s.repo.CountByWarehouse(ctx, month)
}
