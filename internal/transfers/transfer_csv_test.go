package transfers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Execute(ctx, f.move(10))
	require.NoError(t, err)
	cmd := f.move(2)
	cmd.Quantity = decimal.RequireFromString("2.5")
	second, err := f.service.Execute(ctx, cmd)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := f.service.Export(ctx, &buf, &f.month)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := strings.Join([]string{
		"id,ts,from_wh,to_wh,product_id,qty,user",
		fmt.Sprintf("%d,2024-05-01T00:00:00Z,Központi raktár,Ital raktár,%d,10,admin", first.ID, f.product),
		fmt.Sprintf("%d,2024-05-01T00:00:00Z,Központi raktár,Ital raktár,%d,2.5,admin", second.ID, f.product),
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestExportWholeLedgerNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	may, err := f.service.Execute(ctx, f.move(1))
	require.NoError(t, err)
	cmd := f.move(1)
	cmd.Month = mustMonth(t, "2024-06")
	june, err := f.service.Execute(ctx, cmd)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = f.service.Export(ctx, &buf, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], fmt.Sprintf("%d,", june.ID)))
	assert.True(t, strings.HasPrefix(lines[2], fmt.Sprintf("%d,", may.ID)))
}

func TestImportAppendsWithoutTouchingSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := strings.Join([]string{
		"user,qty,product_id,to_wh,from_wh,ts,id",
		fmt.Sprintf("kata,3,%d,galopp,Központi raktár,2024-05-01T00:00:00Z,17", f.product),
		fmt.Sprintf(",1.5,%d,Mázsa,Mobil1,2024-05-01T00:00:00+02:00,18", f.product),
	}, "\n")

	n, err := f.service.Import(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ledger := f.db.Transfers()
	require.Len(t, ledger, 2)
	assert.NotEqual(t, int64(17), ledger[0].ID, "imported ids are discarded")
	assert.Equal(t, metadata.WarehouseGalopp, ledger[0].ToWarehouse)
	assert.Equal(t, "kata", ledger[0].User)
	assert.Equal(t, "admin", ledger[1].User)
	assert.True(t, ledger[1].Quantity.Equal(decimal.RequireFromString("1.5")))

	assert.True(t, f.theoretical(t, metadata.WarehouseCentral).Equal(decimal.NewFromInt(100)))
	_, ok := f.db.Cell(f.month, metadata.WarehouseGalopp, f.product)
	assert.False(t, ok)
}

func TestImportRejectsInvalidRows(t *testing.T) {
	f := newFixture(t)

	input := strings.Join([]string{
		"id,ts,from_wh,to_wh,product_id,qty,user",
		fmt.Sprintf("1,2024-05-01T00:00:00Z,Galopp,Ügető,%d,4,admin", f.product),
		fmt.Sprintf("2,2024-05-01T00:00:00Z,Galopp,Galopp,%d,4,admin", f.product),
		fmt.Sprintf("3,2024-05-01T00:00:00Z,Galopp,Ügető,%d,0,admin", f.product),
		fmt.Sprintf("4,tegnap,Galopp,Ügető,%d,1,admin", f.product),
		fmt.Sprintf("5,2024-05-01T00:00:00Z,Galopp,Ügető,%d,1.0005,admin", f.product),
		fmt.Sprintf("6,2024-05-01T00:00:00Z,Galopp,Ügető,%d,100000000000,admin", f.product),
	}, "\n")

	_, err := f.service.Import(context.Background(), strings.NewReader(input))

	var validationErr *custom_error.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "line 3")
	assert.Contains(t, validationErr.Message, "line 4")
	assert.Contains(t, validationErr.Message, "line 5")
	assert.Contains(t, validationErr.Message, "line 6")
	assert.Contains(t, validationErr.Message, "line 7")
	assert.Equal(t, 0, f.db.Calls("InsertTransfers"))
}

func TestImportRequiresHeader(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Import(context.Background(), strings.NewReader("2024-05-01T00:00:00Z,Galopp,Ügető,1,4\n"))

	var validationErr *custom_error.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "missing columns")
}
