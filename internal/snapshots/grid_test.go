package snapshots

import (
	"testing"

	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGrid(t *testing.T) {
	month := mustMonth(t, "2024-05")
	products := []models.Product{
		{ID: 1, Name: "Zsemle"},
		{ID: 2, Name: "alma"},
		{ID: 3, Name: "Csoki"},
		{ID: 4, Name: "Cukor"},
	}
	snapshots := []models.Snapshot{
		snapshot(1, metadata.WarehouseCentral, 100, 95),
		snapshot(1, metadata.WarehouseDrinks, 50, 30),
		snapshot(3, metadata.WarehouseGalopp, -2, 0),
	}

	grid := BuildGrid(month, products, snapshots)

	assert.Equal(t, metadata.Warehouses(), grid.Warehouses)
	require.Len(t, grid.Rows, 4, "every catalog product is listed")

	names := make([]string, len(grid.Rows))
	for i, row := range grid.Rows {
		names[i] = row.Name
	}
	// cs is a separate letter after c in Hungarian.
	assert.Equal(t, []string{"alma", "Cukor", "Csoki", "Zsemle"}, names)

	zsemle := grid.Rows[3]
	require.Len(t, zsemle.Cells, 2)
	central := zsemle.Cells[metadata.WarehouseCentral]
	assert.True(t, central.Difference.Equal(decimal.NewFromInt(-5)))
	assert.False(t, central.Highlight)
	assert.True(t, zsemle.Cells[metadata.WarehouseDrinks].Highlight)

	assert.Empty(t, grid.Rows[0].Cells, "products without snapshots have no cells")
	assert.True(t, grid.Rows[2].Cells[metadata.WarehouseGalopp].Highlight)
}
