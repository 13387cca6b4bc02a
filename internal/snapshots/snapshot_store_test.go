package snapshots

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"leltar/internal/testutil"
	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustMonth(t *testing.T, value string) metadata.Month {
	t.Helper()
	month, err := metadata.ParseMonth(value)
	require.NoError(t, err)
	return month
}

func snapshot(productID int64, wh metadata.Warehouse, theoretical, actual int64) models.Snapshot {
	return models.Snapshot{
		ProductID:   productID,
		Warehouse:   wh,
		Theoretical: decimal.NewFromInt(theoretical),
		Actual:      decimal.NewFromInt(actual),
	}
}

func TestReplaceMonthTwiceKeepsOnlySecondSet(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	bread := db.SeedProduct("Kenyér")
	milk := db.SeedProduct("Tej")
	store := NewStore(db, zap.NewNop(), 0)
	may := mustMonth(t, "2024-05")
	june := mustMonth(t, "2024-06")

	require.NoError(t, store.ReplaceMonth(ctx, june, []models.Snapshot{snapshot(bread, metadata.WarehouseGalopp, 1, 1)}))
	require.NoError(t, store.ReplaceMonth(ctx, may, []models.Snapshot{
		snapshot(bread, metadata.WarehouseCentral, 10, 9),
		snapshot(milk, metadata.WarehouseCentral, 5, 5),
	}))
	require.NoError(t, store.ReplaceMonth(ctx, may, []models.Snapshot{
		snapshot(milk, metadata.WarehouseDrinks, 7, 6),
	}))

	rows, err := store.ReadMonth(ctx, may)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, milk, rows[0].ProductID)
	assert.Equal(t, metadata.WarehouseDrinks, rows[0].Warehouse)
	assert.Equal(t, may.Start(), rows[0].Month)

	other, err := store.ReadMonth(ctx, june)
	require.NoError(t, err)
	assert.Len(t, other, 1, "other months are untouched")
}

func TestReplaceMonthInsertsInChunks(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	store := NewStore(db, zap.NewNop(), 0)
	month := mustMonth(t, "2024-05")

	var rows []models.Snapshot
	for i := 0; i < 1200; i++ {
		id := db.SeedProduct(fmt.Sprintf("Termék %d", i))
		rows = append(rows, snapshot(id, metadata.WarehouseMobil1, int64(i), int64(i)))
	}

	require.NoError(t, store.ReplaceMonth(ctx, month, rows))
	assert.Equal(t, 3, db.Calls("InsertSnapshots"))
	assert.Len(t, db.Snapshots(month), 1200)
}

func TestReplaceMonthReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	store := NewStore(db, zap.NewNop(), 0)
	month := mustMonth(t, "2024-05")

	var rows []models.Snapshot
	for i := 0; i < 600; i++ {
		id := db.SeedProduct(fmt.Sprintf("Termék %d", i))
		rows = append(rows, snapshot(id, metadata.WarehouseMazsa, 1, 1))
	}
	require.NoError(t, store.ReplaceMonth(ctx, month, rows[:10]))

	db.FailOn("InsertSnapshots", 1, errors.New("connection reset"))
	err := store.ReplaceMonth(ctx, month, rows)

	var partial *custom_error.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "2024-05", partial.Month)
	assert.Contains(t, partial.Failed, "501-600")
	assert.Len(t, db.Snapshots(month), 500, "first chunk stays, old rows are gone")
}

func TestReplaceMonthDeleteFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	id := db.SeedProduct("Kenyér")
	store := NewStore(db, zap.NewNop(), 0)
	month := mustMonth(t, "2024-05")

	db.FailOn("DeleteMonth", 0, errors.New("timeout"))
	err := store.ReplaceMonth(ctx, month, []models.Snapshot{snapshot(id, metadata.WarehouseUgeto, 1, 1)})

	require.Error(t, err)
	var partial *custom_error.PartialFailureError
	assert.False(t, errors.As(err, &partial))
	assert.Equal(t, 0, db.Calls("InsertSnapshots"))
}

func TestReadMonthPaginates(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	store := NewStore(db, zap.NewNop(), 2)
	month := mustMonth(t, "2024-05")

	var rows []models.Snapshot
	for i := 0; i < 5; i++ {
		id := db.SeedProduct(fmt.Sprintf("Termék %d", i))
		rows = append(rows, snapshot(id, metadata.WarehouseGalopp, 1, 1))
	}
	require.NoError(t, store.ReplaceMonth(ctx, month, rows))

	got, err := store.ReadMonth(ctx, month)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, 3, db.Calls("GetMonthPage"))
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}
}

func TestReadMonthStopsOnEmptyPage(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	store := NewStore(db, zap.NewNop(), 2)
	month := mustMonth(t, "2024-05")

	var rows []models.Snapshot
	for i := 0; i < 4; i++ {
		id := db.SeedProduct(fmt.Sprintf("Termék %d", i))
		rows = append(rows, snapshot(id, metadata.WarehouseGalopp, 1, 1))
	}
	require.NoError(t, store.ReplaceMonth(ctx, month, rows))

	got, err := store.ReadMonth(ctx, month)
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, 3, db.Calls("GetMonthPage"))
}

func TestReadOrCreateCellDefaults(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	id := db.SeedProduct("Kenyér")
	store := NewStore(db, zap.NewNop(), 0)
	month := mustMonth(t, "2024-05")

	cell, err := store.ReadOrCreateCell(ctx, month, metadata.WarehouseCentral, id)
	require.NoError(t, err)
	assert.False(t, cell.Exists)
	assert.True(t, cell.Theoretical.IsZero())
	assert.True(t, cell.Actual.IsZero())
	assert.Equal(t, 0, db.Calls("InsertSnapshots"), "reading never writes")
}

func TestApplyDelta(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	id := db.SeedProduct("Teszt Termék")
	store := NewStore(db, zap.NewNop(), 0)
	month := mustMonth(t, "2024-05")
	require.NoError(t, store.ReplaceMonth(ctx, month, []models.Snapshot{snapshot(id, metadata.WarehouseCentral, 100, 95)}))

	require.NoError(t, store.ApplyDelta(ctx, month, metadata.WarehouseCentral, id, decimal.NewFromInt(-10)))
	require.NoError(t, store.ApplyDelta(ctx, month, metadata.WarehouseDrinks, id, decimal.NewFromInt(10)))

	central, ok := db.Cell(month, metadata.WarehouseCentral, id)
	require.True(t, ok)
	assert.True(t, central.Theoretical.Equal(decimal.NewFromInt(90)))
	assert.True(t, central.Actual.Equal(decimal.NewFromInt(95)), "actual is never touched")

	drinks, ok := db.Cell(month, metadata.WarehouseDrinks, id)
	require.True(t, ok)
	assert.True(t, drinks.Theoretical.Equal(decimal.NewFromInt(10)))
	assert.True(t, drinks.Actual.IsZero())
}

func TestPurgeMonth(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	id := db.SeedProduct("Kenyér")
	store := NewStore(db, zap.NewNop(), 0)
	month := mustMonth(t, "2024-05")
	require.NoError(t, store.ReplaceMonth(ctx, month, []models.Snapshot{
		snapshot(id, metadata.WarehouseCentral, 1, 1),
		snapshot(id, metadata.WarehouseGalopp, 1, 1),
	}))

	deleted, err := store.PurgeMonth(ctx, month)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
	assert.Empty(t, db.Snapshots(month))
}
