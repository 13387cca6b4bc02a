package report

import (
	"context"
	"io"

	"leltar/internal/snapshots"
	"leltar/pkg/metadata"
	"leltar/pkg/models"
)

type GridSource interface {
	Grid(ctx context.Context, month metadata.Month) (snapshots.Grid, error)
}

type TransferLister interface {
	List(ctx context.Context, month metadata.Month) ([]models.Transfer, error)
}

type Service struct {
	grids     GridSource
	transfers TransferLister
}

func NewService(grids GridSource, transfers TransferLister) *Service {
	return &Service{grids: grids, transfers: transfers}
}

func (s *Service) MonthReport(ctx context.Context, w io.Writer, month metadata.Month) error {
	grid, err := s.grids.Grid(ctx, month)
	if err != nil {
		return err
	}
	transfers, err := s.transfers.List(ctx, month)
	if err != nil {
		return err
	}
	return Write(w, grid, transfers)
}
