package transfers

import (
	"context"
	"fmt"

	"leltar/internal/repository"
	custom_error "leltar/pkg/errors"
	"leltar/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type Repository interface {
	InsertTransfer(ctx context.Context, t models.Transfer) (int64, error)
	InsertTransfers(ctx context.Context, rows []models.Transfer) (int, error)
	GetTransfer(ctx context.Context, id int64) (*models.Transfer, error)
	DeleteTransfer(ctx context.Context, id int64) (bool, error)
	GetTransfers(ctx context.Context, q models.TransferQuery) ([]models.Transfer, error)
}

type TransferRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *TransferRepository {
	return &TransferRepository{repository: r}
}

func transferRecord(t models.Transfer) goqu.Record {
	return goqu.Record{
		"ts":         t.Timestamp,
		"from_wh":    string(t.FromWarehouse),
		"to_wh":      string(t.ToWarehouse),
		"product_id": t.ProductID,
		"qty":        t.Quantity,
		"user":       t.User,
	}
}

func (r *TransferRepository) InsertTransfer(ctx context.Context, t models.Transfer) (int64, error) {
	var id int64
	_, err := r.repository.GoquDBWrapper.
		Insert("transfers").
		Rows(transferRecord(t)).
		Returning("id").
		Executor().
		ScanValContext(ctx, &id)
	if err != nil {
		return 0, custom_error.FromDB("failed to insert transfer", err)
	}

	return id, nil
}

func (r *TransferRepository) InsertTransfers(ctx context.Context, rows []models.Transfer) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	records := make([]interface{}, len(rows))
	for i, t := range rows {
		records[i] = transferRecord(t)
	}

	result, err := r.repository.GoquDBWrapper.
		Insert("transfers").
		Rows(records...).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return 0, custom_error.FromDB("failed to import transfers", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	return int(inserted), nil
}

func (r *TransferRepository) GetTransfer(ctx context.Context, id int64) (*models.Transfer, error) {
	var transfer models.Transfer
	found, err := r.transferQuery().
		Where(goqu.I("t.id").Eq(id)).
		Executor().
		ScanStructContext(ctx, &transfer)
	if err != nil {
		return nil, fmt.Errorf("unable to select transfer %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &transfer, nil
}

func (r *TransferRepository) DeleteTransfer(ctx context.Context, id int64) (bool, error) {
	result, err := r.repository.GoquDBWrapper.
		Delete("transfers").
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete transfer %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to retrieve rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *TransferRepository) GetTransfers(ctx context.Context, q models.TransferQuery) ([]models.Transfer, error) {
	qb := repository.NewQueryBuilder()
	if q.ProductID != nil {
		qb.AddCondition("product_id", *q.ProductID)
	}
	if q.Month != nil {
		qb.AddRange("ts", q.Month.Start(), q.Month.Next().Start())
	}
	if q.Warehouse != nil {
		qb.AddAnyOf([]string{"from_wh", "to_wh"}, string(*q.Warehouse))
	}

	query := r.transferQuery().Where(qb.Build(transferColumns)...)

	if q.NewestFirst {
		query = query.Order(goqu.I("t.ts").Desc(), goqu.I("t.id").Desc())
	} else {
		query = query.Order(goqu.I("t.ts").Asc(), goqu.I("t.id").Asc())
	}

	transfers := []models.Transfer{}
	if err := query.Executor().ScanStructsContext(ctx, &transfers); err != nil {
		return nil, fmt.Errorf("unable to select transfers: %w", err)
	}

	return transfers, nil
}

var transferColumns = map[string]string{
	"product_id": "t.product_id",
	"ts":         "t.ts",
	"from_wh":    "t.from_wh",
	"to_wh":      "t.to_wh",
}

func (r *TransferRepository) transferQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("transfers").As("t")).
		Join(goqu.T("products").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("t.product_id")))).
		Select(
			goqu.I("t.id").As("id"),
			goqu.I("t.ts").As("ts"),
			goqu.I("t.from_wh").As("from_wh"),
			goqu.I("t.to_wh").As("to_wh"),
			goqu.I("t.product_id").As("product_id"),
			goqu.I("t.qty").As("qty"),
			goqu.I("t.user").As("user"),
			goqu.I("p.name").As("product_name"),
		)
}
