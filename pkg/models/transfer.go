package models

import (
	"time"

	"leltar/pkg/metadata"

	"github.com/shopspring/decimal"
)

// Transfer is one ledger entry moving theoretical stock between warehouses.
// Timestamp holds the first instant of the month the transfer applies to.
type Transfer struct {
	ID            int64              `json:"id" db:"id" goqu:"skipinsert"`
	Timestamp     time.Time          `json:"ts" db:"ts"`
	FromWarehouse metadata.Warehouse `json:"from_wh" db:"from_wh"`
	ToWarehouse   metadata.Warehouse `json:"to_wh" db:"to_wh"`
	ProductID     int64              `json:"product_id" db:"product_id"`
	Quantity      decimal.Decimal    `json:"qty" db:"qty"`
	User          string             `json:"user" db:"user"`
	ProductName   string             `json:"product_name,omitempty" db:"product_name" goqu:"skipinsert"`
}

func (t *Transfer) Month() metadata.Month {
	return metadata.MonthOf(t.Timestamp)
}

func (t *Transfer) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "transfer",
	}
}

// TransferQuery filters ledger reads. A nil Month selects the whole ledger.
type TransferQuery struct {
	Month       *metadata.Month
	ProductID   *int64
	Warehouse   *metadata.Warehouse
	NewestFirst bool
}
