package snapshots

import (
	"context"
	"sort"

	"leltar/internal/catalog"
	"leltar/pkg/discrepancy"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type GridCell struct {
	Theoretical decimal.Decimal `json:"theoretical"`
	Actual      decimal.Decimal `json:"actual"`
	Difference  decimal.Decimal `json:"difference"`
	Highlight   bool            `json:"highlight"`
}

type GridRow struct {
	ProductID int64                           `json:"product_id"`
	Name      string                          `json:"name"`
	Cells     map[metadata.Warehouse]GridCell `json:"cells"`
}

// Grid is the month view handed to the UI: every catalog product, and for
// each only the warehouses that hold a snapshot.
type Grid struct {
	Month      metadata.Month       `json:"month"`
	Warehouses []metadata.Warehouse `json:"warehouses"`
	Rows       []GridRow            `json:"rows"`
}

// BuildGrid joins products with the month's snapshots. Rows are sorted by
// product name using Hungarian collation.
func BuildGrid(month metadata.Month, products []models.Product, snapshots []models.Snapshot) Grid {
	byProduct := make(map[int64]map[metadata.Warehouse]GridCell, len(products))
	for _, s := range snapshots {
		cells, ok := byProduct[s.ProductID]
		if !ok {
			cells = map[metadata.Warehouse]GridCell{}
			byProduct[s.ProductID] = cells
		}
		result := discrepancy.Evaluate(s.Theoretical, s.Actual)
		cells[s.Warehouse] = GridCell{
			Theoretical: s.Theoretical,
			Actual:      s.Actual,
			Difference:  result.Difference,
			Highlight:   result.Highlight,
		}
	}

	rows := make([]GridRow, 0, len(products))
	for _, p := range products {
		cells := byProduct[p.ID]
		if cells == nil {
			cells = map[metadata.Warehouse]GridCell{}
		}
		rows = append(rows, GridRow{ProductID: p.ID, Name: p.Name, Cells: cells})
	}

	collator := collate.New(language.Hungarian, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := collator.CompareString(rows[i].Name, rows[j].Name); c != 0 {
			return c < 0
		}
		return rows[i].ProductID < rows[j].ProductID
	})

	return Grid{
		Month:      month,
		Warehouses: metadata.Warehouses(),
		Rows:       rows,
	}
}

// GridService reads the catalog and a month and assembles the grid.
type GridService struct {
	store *Store
	state *catalog.State
}

func NewGridService(store *Store, state *catalog.State) *GridService {
	return &GridService{store: store, state: state}
}

func (g *GridService) Grid(ctx context.Context, month metadata.Month) (Grid, error) {
	if err := g.state.Refresh(ctx); err != nil {
		return Grid{}, err
	}
	products, err := g.state.Products()
	if err != nil {
		return Grid{}, err
	}

	snapshots, err := g.store.ReadMonth(ctx, month)
	if err != nil {
		return Grid{}, err
	}

	return BuildGrid(month, products, snapshots), nil
}
