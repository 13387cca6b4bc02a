package models

import (
	"time"

	"leltar/pkg/metadata"

	"github.com/shopspring/decimal"
)

// Snapshot is one product's recorded and counted quantity at one warehouse
// for one month. (ProductID, Warehouse, Month) is unique.
type Snapshot struct {
	ID          int64              `json:"id" db:"id" goqu:"skipinsert"`
	ProductID   int64              `json:"product_id" db:"product_id"`
	Warehouse   metadata.Warehouse `json:"warehouse" db:"warehouse"`
	Month       time.Time          `json:"month" db:"month"`
	Theoretical decimal.Decimal    `json:"theoretical" db:"theoretical"`
	Actual      decimal.Decimal    `json:"actual" db:"actual"`
}

type SnapshotKey struct {
	ProductID int64
	Warehouse metadata.Warehouse
}

func (s Snapshot) Key() SnapshotKey {
	return SnapshotKey{ProductID: s.ProductID, Warehouse: s.Warehouse}
}

// MonthUpload describes one successful month replacement.
type MonthUpload struct {
	UploadID string         `json:"upload_id"`
	Month    metadata.Month `json:"month"`
	Format   string         `json:"format"`
	Rows     int            `json:"rows"`
	Warnings int            `json:"warnings"`
}

func (m *MonthUpload) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.Month.Key(),
		ResourceType: "stock_month",
	}
}

// StockMonth identifies a month in the audit log when no upload is involved.
type StockMonth struct {
	Month metadata.Month `json:"month"`
}

func (m *StockMonth) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.Month.Key(),
		ResourceType: "stock_month",
	}
}
