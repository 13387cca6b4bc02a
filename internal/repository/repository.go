package repository

import (
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register postgres dialect
)

// Repository shares one goqu database between the table repositories.
//
// Statements are executed one by one. Nothing in this service opens a
// multi-statement transaction: sequences such as delete+insert of a month or
// ledger insert+two snapshot updates are independent writes and callers
// report partial completion instead of rolling back.
type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}
