package metadata

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type Warehouse string

const (
	WarehouseCentral Warehouse = "Központi raktár"
	WarehouseDrinks  Warehouse = "Ital raktár"
	WarehouseGalopp  Warehouse = "Galopp"
	WarehouseUgeto   Warehouse = "Ügető"
	WarehouseMazsa   Warehouse = "Mázsa"
	WarehouseMobil1  Warehouse = "Mobil1"
)

var warehouses = []Warehouse{
	WarehouseCentral,
	WarehouseDrinks,
	WarehouseGalopp,
	WarehouseUgeto,
	WarehouseMazsa,
	WarehouseMobil1,
}

// Warehouses returns the fixed warehouse set in display order.
func Warehouses() []Warehouse {
	out := make([]Warehouse, len(warehouses))
	copy(out, warehouses)
	return out
}

func (w Warehouse) IsValid() bool {
	for _, known := range warehouses {
		if w == known {
			return true
		}
	}
	return false
}

// NewWarehouse resolves user input to the canonical warehouse spelling.
// Matching ignores surrounding whitespace, letter case and Unicode composition
// (file names and form values coming from macOS are often NFD encoded).
func NewWarehouse(value string) (Warehouse, error) {
	normalized := norm.NFC.String(strings.TrimSpace(value))
	for _, known := range warehouses {
		if strings.EqualFold(normalized, string(known)) {
			return known, nil
		}
	}

	return Warehouse(normalized), fmt.Errorf(
		"unknown warehouse %q, valid values are: %s",
		value, JoinWarehouses(warehouses),
	)
}

func (w Warehouse) String() string {
	return string(w)
}

func JoinWarehouses(list []Warehouse) string {
	names := make([]string, len(list))
	for i, w := range list {
		names[i] = string(w)
	}
	return strings.Join(names, ", ")
}
