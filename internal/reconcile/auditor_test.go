package reconcile

import (
	"context"
	"testing"

	"leltar/internal/snapshots"
	"leltar/internal/testutil"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func kinds(report *Report) map[Kind]int {
	out := map[Kind]int{}
	for _, f := range report.Findings {
		out[f.Kind]++
	}
	return out
}

func TestAuditFindsPartialWrites(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewMemStore()
	bread := db.SeedProduct("Kenyér")
	milk := db.SeedProduct("Tej")
	ghost := db.SeedProduct("Szellem")
	store := snapshots.NewStore(db, zap.NewNop(), 0)
	month, err := metadata.ParseMonth("2024-05")
	require.NoError(t, err)

	var rows []models.Snapshot
	for _, wh := range metadata.Warehouses() {
		if wh == metadata.WarehouseMazsa {
			continue
		}
		rows = append(rows, models.Snapshot{
			ProductID: bread, Warehouse: wh,
			Theoretical: decimal.NewFromInt(5), Actual: decimal.NewFromInt(5),
		})
	}
	rows = append(rows, models.Snapshot{
		ProductID: milk, Warehouse: metadata.WarehouseDrinks,
		Theoretical: decimal.NewFromInt(-3), Actual: decimal.Zero,
	})
	require.NoError(t, store.ReplaceMonth(ctx, month, rows))

	_, err = db.InsertTransfers(ctx, []models.Transfer{
		{Timestamp: month.Start(), FromWarehouse: metadata.WarehouseCentral, ToWarehouse: metadata.WarehouseGalopp, ProductID: bread, Quantity: decimal.NewFromInt(1), User: "admin"},
		{Timestamp: month.Start(), FromWarehouse: metadata.WarehouseDrinks, ToWarehouse: metadata.WarehouseUgeto, ProductID: milk, Quantity: decimal.NewFromInt(1), User: "admin"},
		{Timestamp: month.Start(), FromWarehouse: metadata.WarehouseGalopp, ToWarehouse: metadata.WarehouseMobil1, ProductID: ghost, Quantity: decimal.NewFromInt(1), User: "admin"},
	})
	require.NoError(t, err)

	report, err := NewAuditor(store, db, zap.NewNop()).Audit(ctx, month)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Transfers)
	assert.Equal(t, 0, report.Rows[metadata.WarehouseMazsa])
	assert.Equal(t, 2, report.Rows[metadata.WarehouseDrinks])
	assert.Equal(t, map[Kind]int{
		KindEmptyWarehouse:      1,
		KindNegativeTheoretical: 1,
		KindTransferMissingCell: 1,
		KindTransferNoSnapshots: 1,
	}, kinds(report))
	assert.False(t, report.Clean())

	for _, f := range report.Findings {
		if f.Kind == KindTransferMissingCell {
			require.NotNil(t, f.Warehouse)
			assert.Equal(t, metadata.WarehouseUgeto, *f.Warehouse)
			assert.Equal(t, milk, *f.ProductID)
		}
	}
}

func TestAuditEmptyMonth(t *testing.T) {
	db := testutil.NewMemStore()
	store := snapshots.NewStore(db, zap.NewNop(), 0)
	month, err := metadata.ParseMonth("2023-01")
	require.NoError(t, err)

	report, err := NewAuditor(store, db, zap.NewNop()).Audit(context.Background(), month)
	require.NoError(t, err)

	assert.True(t, report.Clean())
	require.Len(t, report.Findings, 1)
	assert.Equal(t, SeverityInfo, report.Findings[0].Severity)
}
