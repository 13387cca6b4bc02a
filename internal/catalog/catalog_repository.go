package catalog

import (
	"context"
	"fmt"

	"leltar/internal/repository"
	custom_error "leltar/pkg/errors"
	"leltar/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type CreateKind int

const (
	Created CreateKind = iota + 1
	Conflict
)

func (k CreateKind) String() string {
	switch k {
	case Created:
		return "created"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// CreateResult is the outcome of a bulk product insert. A Conflict means the
// statement hit the unique name index and inserted nothing.
type CreateResult struct {
	Kind     CreateKind
	Products []models.Product
}

type Repository interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	CreateProducts(ctx context.Context, names []string) (CreateResult, error)
}

type ProductRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ProductRepository {
	return &ProductRepository{repository: r}
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	query := r.repository.GoquDBWrapper.
		From("products").
		Select("id", "name").
		Order(goqu.C("id").Asc())

	if err := query.Executor().ScanStructsContext(ctx, &products); err != nil {
		return nil, fmt.Errorf("unable to select products from database: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) CreateProducts(ctx context.Context, names []string) (CreateResult, error) {
	if len(names) == 0 {
		return CreateResult{Kind: Created}, nil
	}

	rows := make([]interface{}, 0, len(names))
	for _, name := range names {
		rows = append(rows, goqu.Record{"name": name})
	}

	created := []models.Product{}
	query := r.repository.GoquDBWrapper.
		Insert("products").
		Rows(rows...).
		Returning("id", "name")

	if err := query.Executor().ScanStructsContext(ctx, &created); err != nil {
		wrapped := custom_error.FromDB("failed to insert products", err)
		if custom_error.IsUniqueViolation(wrapped) {
			return CreateResult{Kind: Conflict}, nil
		}
		return CreateResult{}, wrapped
	}

	return CreateResult{Kind: Created, Products: created}, nil
}
