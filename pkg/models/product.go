package models

type Product struct {
	ID   int64  `json:"id" db:"id" goqu:"skipinsert"`
	Name string `json:"name" db:"name"`
}
