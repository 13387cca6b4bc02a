package transfers

import (
	"context"
	"fmt"

	"leltar/internal/metrics"
	"leltar/internal/snapshots"
	"leltar/pkg/auditlog"
	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"go.uber.org/zap"
)

// TransferService moves theoretical stock between warehouses and keeps the
// ledger. The ledger write and the two snapshot updates are independent
// statements; a failure between them is returned as a PartialFailureError
// and the reconciliation audit can find the leftovers.
type TransferService struct {
	repo     Repository
	store    *snapshots.Store
	auditLog *auditlog.Auditlog
	metrics  *metrics.Recorder
	logger   *zap.Logger
	actor    string
}

func NewService(repo Repository, store *snapshots.Store, a *auditlog.Auditlog, recorder *metrics.Recorder, logger *zap.Logger, actor string) *TransferService {
	return &TransferService{
		repo:     repo,
		store:    store,
		auditLog: a,
		metrics:  recorder,
		logger:   logger,
		actor:    actor,
	}
}

func (c Command) validate() error {
	if !c.From.IsValid() {
		return custom_error.NewValidationError("from_wh", fmt.Sprintf("unknown warehouse %q", c.From))
	}
	if !c.To.IsValid() {
		return custom_error.NewValidationError("to_wh", fmt.Sprintf("unknown warehouse %q", c.To))
	}
	if c.From == c.To {
		return custom_error.NewValidationError("to_wh", "source and destination warehouse must differ")
	}
	if c.ProductID <= 0 {
		return custom_error.NewValidationError("product_id", "product is required")
	}
	if !c.Quantity.IsPositive() {
		return custom_error.NewValidationError("qty", "quantity must be greater than zero")
	}
	if err := metadata.CheckQuantity(c.Quantity); err != nil {
		return custom_error.NewValidationError("qty", err.Error())
	}
	if c.Month.IsZero() {
		return custom_error.NewValidationError("month", "month is required")
	}
	return nil
}

// Execute records the transfer, then takes qty from the source cell and adds
// it to the destination cell of the month.
func (s *TransferService) Execute(ctx context.Context, cmd Command) (*models.Transfer, error) {
	transfer, err := s.execute(ctx, cmd)
	s.metrics.Transfer("execute", err)
	return transfer, err
}

func (s *TransferService) execute(ctx context.Context, cmd Command) (*models.Transfer, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	transfer := models.Transfer{
		Timestamp:     cmd.Month.Start(),
		FromWarehouse: cmd.From,
		ToWarehouse:   cmd.To,
		ProductID:     cmd.ProductID,
		Quantity:      cmd.Quantity,
		User:          s.actor,
	}

	id, err := s.repo.InsertTransfer(ctx, transfer)
	if err != nil {
		return nil, err
	}
	transfer.ID = id

	logger := s.logger.With(
		zap.Int64("transfer_id", id),
		zap.String("month", cmd.Month.String()),
		zap.Int64("product_id", cmd.ProductID),
	)

	if err := s.store.ApplyDelta(ctx, cmd.Month, cmd.From, cmd.ProductID, cmd.Quantity.Neg()); err != nil {
		return nil, s.partialFailure(logger, "transfer", cmd.Month,
			[]string{fmt.Sprintf("recorded transfer %d", id)},
			fmt.Sprintf("decrease %s", cmd.From), err)
	}
	if err := s.store.ApplyDelta(ctx, cmd.Month, cmd.To, cmd.ProductID, cmd.Quantity); err != nil {
		return nil, s.partialFailure(logger, "transfer", cmd.Month,
			[]string{fmt.Sprintf("recorded transfer %d", id), fmt.Sprintf("decreased %s", cmd.From)},
			fmt.Sprintf("increase %s", cmd.To), err)
	}

	s.auditLog.Log(ctx, "transfer", s.actor, map[string]interface{}{
		"from_wh":    transfer.FromWarehouse,
		"to_wh":      transfer.ToWarehouse,
		"product_id": transfer.ProductID,
		"qty":        transfer.Quantity,
		"month":      cmd.Month,
	}, &transfer)

	logger.Info("Transfer executed",
		zap.String("from_wh", string(cmd.From)),
		zap.String("to_wh", string(cmd.To)),
		zap.String("qty", cmd.Quantity.String()),
	)

	return &transfer, nil
}

// Undo deletes a ledger entry and reverses its effect on the month the entry
// belongs to.
func (s *TransferService) Undo(ctx context.Context, id int64) (*models.Transfer, error) {
	transfer, err := s.undo(ctx, id)
	s.metrics.Transfer("undo", err)
	return transfer, err
}

func (s *TransferService) undo(ctx context.Context, id int64) (*models.Transfer, error) {
	transfer, err := s.repo.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, &custom_error.NotFoundError{Resource: "transfer", ID: id}
	}

	deleted, err := s.repo.DeleteTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, &custom_error.NotFoundError{Resource: "transfer", ID: id}
	}

	month := transfer.Month()
	logger := s.logger.With(
		zap.Int64("transfer_id", id),
		zap.String("month", month.String()),
		zap.Int64("product_id", transfer.ProductID),
	)

	if err := s.store.ApplyDelta(ctx, month, transfer.FromWarehouse, transfer.ProductID, transfer.Quantity); err != nil {
		return nil, s.partialFailure(logger, "undo transfer", month,
			[]string{fmt.Sprintf("deleted transfer %d", id)},
			fmt.Sprintf("restore %s", transfer.FromWarehouse), err)
	}
	if err := s.store.ApplyDelta(ctx, month, transfer.ToWarehouse, transfer.ProductID, transfer.Quantity.Neg()); err != nil {
		return nil, s.partialFailure(logger, "undo transfer", month,
			[]string{fmt.Sprintf("deleted transfer %d", id), fmt.Sprintf("restored %s", transfer.FromWarehouse)},
			fmt.Sprintf("reduce %s", transfer.ToWarehouse), err)
	}

	s.auditLog.Log(ctx, "undo", s.actor, map[string]interface{}{
		"from_wh":    transfer.FromWarehouse,
		"to_wh":      transfer.ToWarehouse,
		"product_id": transfer.ProductID,
		"qty":        transfer.Quantity,
		"month":      month,
	}, transfer)

	logger.Info("Transfer undone")

	return transfer, nil
}

// List returns the month's ledger, oldest first.
func (s *TransferService) List(ctx context.Context, month metadata.Month) ([]models.Transfer, error) {
	return s.repo.GetTransfers(ctx, models.TransferQuery{Month: &month})
}

func (s *TransferService) partialFailure(logger *zap.Logger, operation string, month metadata.Month, completed []string, failed string, err error) error {
	s.metrics.PartialFailure(operation)
	logger.Error("Transfer stopped midway, snapshot needs manual correction",
		zap.Strings("completed", completed),
		zap.String("failed", failed),
		zap.Error(err),
	)
	return &custom_error.PartialFailureError{
		Operation: operation,
		Month:     month.String(),
		Completed: completed,
		Failed:    failed,
		Err:       err,
	}
}
