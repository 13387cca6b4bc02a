package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"leltar/pkg/metadata"
)

// ColumnLayout holds zero based column indices of a per-warehouse export.
type ColumnLayout struct {
	Name        int
	Theoretical int
	Actual      int
}

var (
	LayoutV11 = ColumnLayout{Name: 0, Theoretical: 3, Actual: 4}
	LayoutV13 = ColumnLayout{Name: 0, Theoretical: 2, Actual: 3}
)

func (l ColumnLayout) String() string {
	return fmt.Sprintf("%d,%d,%d", l.Name, l.Theoretical, l.Actual)
}

func (l ColumnLayout) maxIndex() int {
	return max(l.Name, l.Theoretical, l.Actual)
}

// ParseColumnLayout accepts "v1.1", "v1.3" or an explicit "name,theoretical,actual"
// index triple.
func ParseColumnLayout(value string) (ColumnLayout, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "v1.3":
		return LayoutV13, nil
	case "v1.1":
		return LayoutV11, nil
	}

	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return ColumnLayout{}, fmt.Errorf("invalid column layout %q: want v1.1, v1.3 or name,theoretical,actual", value)
	}
	var idx [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return ColumnLayout{}, fmt.Errorf("invalid column index %q in layout %q", part, value)
		}
		idx[i] = n
	}
	if idx[0] == idx[1] || idx[0] == idx[2] || idx[1] == idx[2] {
		return ColumnLayout{}, fmt.Errorf("column layout %q reuses a column", value)
	}

	return ColumnLayout{Name: idx[0], Theoretical: idx[1], Actual: idx[2]}, nil
}

type columnPair struct {
	Theoretical int
	Actual      int
}

// unifiedColumns lists where each warehouse sits in the combined export.
// The product name is always column 0.
var unifiedColumns = map[metadata.Warehouse]columnPair{
	metadata.WarehouseDrinks:  {Theoretical: 12, Actual: 13},
	metadata.WarehouseGalopp:  {Theoretical: 22, Actual: 23},
	metadata.WarehouseMobil1:  {Theoretical: 32, Actual: 33},
	metadata.WarehouseCentral: {Theoretical: 42, Actual: 43},
	metadata.WarehouseUgeto:   {Theoretical: 52, Actual: 53},
	metadata.WarehouseMazsa:   {Theoretical: 62, Actual: 63},
}

const (
	perWarehouseMinColumns = 5
	perWarehouseHeaderRows = 2
	unifiedMinColumns      = 64
	unifiedHeaderRows      = 1
)
