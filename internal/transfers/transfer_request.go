package transfers

import (
	"leltar/pkg/metadata"

	"github.com/shopspring/decimal"
)

// TransferRequest is the body of POST /months/:month/transfers.
type TransferRequest struct {
	FromWarehouse string          `json:"from_wh" binding:"required,warehouse"`
	ToWarehouse   string          `json:"to_wh" binding:"required,warehouse,nefield=FromWarehouse"`
	ProductID     int64           `json:"product_id" binding:"required,gt=0"`
	Quantity      decimal.Decimal `json:"qty"`
}

// Command is a validated transfer ready to execute.
type Command struct {
	From      metadata.Warehouse
	To        metadata.Warehouse
	ProductID int64
	Quantity  decimal.Decimal
	Month     metadata.Month
}
