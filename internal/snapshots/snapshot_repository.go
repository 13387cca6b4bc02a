package snapshots

import (
	"context"
	"fmt"
	"time"

	"leltar/internal/repository"
	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

type Repository interface {
	DeleteMonth(ctx context.Context, month metadata.Month) (int64, error)
	InsertSnapshots(ctx context.Context, rows []models.Snapshot) error
	GetMonthPage(ctx context.Context, month metadata.Month, offset, limit uint) ([]models.Snapshot, error)
	GetCell(ctx context.Context, month metadata.Month, warehouse metadata.Warehouse, productID int64) (*models.Snapshot, error)
	UpdateTheoretical(ctx context.Context, id int64, theoretical decimal.Decimal) error
	CountByWarehouse(ctx context.Context, month metadata.Month) (map[metadata.Warehouse]int, error)
}

type SnapshotRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *SnapshotRepository {
	return &SnapshotRepository{repository: r}
}

func (r *SnapshotRepository) DeleteMonth(ctx context.Context, month metadata.Month) (int64, error) {
	result, err := r.repository.GoquDBWrapper.
		Delete("stock_snapshots").
		Where(goqu.Ex{"month": monthDate(month)}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete snapshots of %s: %w", month, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	return deleted, nil
}

func (r *SnapshotRepository) InsertSnapshots(ctx context.Context, rows []models.Snapshot) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		records = append(records, goqu.Record{
			"month":       monthDate(metadata.MonthOf(row.Month)),
			"warehouse":   string(row.Warehouse),
			"product_id":  row.ProductID,
			"theoretical": row.Theoretical,
			"actual":      row.Actual,
		})
	}

	_, err := r.repository.GoquDBWrapper.
		Insert("stock_snapshots").
		Rows(records...).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to insert stock snapshots", err)
	}

	return nil
}

func (r *SnapshotRepository) GetMonthPage(ctx context.Context, month metadata.Month, offset, limit uint) ([]models.Snapshot, error) {
	page := []models.Snapshot{}
	query := r.snapshotQuery().
		Where(goqu.Ex{"month": monthDate(month)}).
		Order(goqu.C("id").Asc()).
		Offset(offset).
		Limit(limit)

	if err := query.Executor().ScanStructsContext(ctx, &page); err != nil {
		return nil, fmt.Errorf("unable to select snapshots from database: %w", err)
	}

	return page, nil
}

func (r *SnapshotRepository) GetCell(ctx context.Context, month metadata.Month, warehouse metadata.Warehouse, productID int64) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	query := r.snapshotQuery().
		Where(goqu.Ex{
			"month":      monthDate(month),
			"warehouse":  string(warehouse),
			"product_id": productID,
		}).
		Limit(1)

	found, err := query.Executor().ScanStructContext(ctx, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("unable to select snapshot cell: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &snapshot, nil
}

func (r *SnapshotRepository) UpdateTheoretical(ctx context.Context, id int64, theoretical decimal.Decimal) error {
	result, err := r.repository.GoquDBWrapper.
		Update("stock_snapshots").
		Set(goqu.Record{"theoretical": theoretical}).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update snapshot %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "snapshot", ID: id}
	}

	return nil
}

func (r *SnapshotRepository) CountByWarehouse(ctx context.Context, month metadata.Month) (map[metadata.Warehouse]int, error) {
	var counts []struct {
		Warehouse string `db:"warehouse"`
		Rows      int    `db:"rows"`
	}
	query := r.repository.GoquDBWrapper.
		From("stock_snapshots").
		Select(goqu.C("warehouse"), goqu.COUNT("*").As("rows")).
		Where(goqu.Ex{"month": monthDate(month)}).
		GroupBy("warehouse")

	if err := query.Executor().ScanStructsContext(ctx, &counts); err != nil {
		return nil, fmt.Errorf("unable to count snapshots: %w", err)
	}

	out := make(map[metadata.Warehouse]int, len(counts))
	for _, c := range counts {
		out[metadata.Warehouse(c.Warehouse)] = c.Rows
	}

	return out, nil
}

func (r *SnapshotRepository) snapshotQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From("stock_snapshots").
		Select("id", "product_id", "warehouse", "month", "theoretical", "actual")
}

// monthDate renders the month key as a DATE literal so the comparison does
// not depend on the session time zone.
func monthDate(month metadata.Month) string {
	return month.Start().Format(time.DateOnly)
}
