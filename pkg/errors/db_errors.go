package custom_error

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgreSQL error codes the services branch on.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNumericOutOfRange   = "22003"
)

type CustomError interface {
	Error() string
}

// pgError keeps the statement context and the SQLSTATE of a driver error.
type pgError struct {
	message    string
	constraint string
	code       string
}

func (e pgError) Error() string {
	if e.constraint != "" {
		return fmt.Sprintf("%s: constraint %s (code: %s)", e.message, e.constraint, e.code)
	}
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// Constraint names the violated constraint when the driver reported one.
func (e pgError) Constraint() string {
	return e.constraint
}

type UniqueViolationError struct{ pgError }

type ForeignKeyViolationError struct{ pgError }

// NumericRangeError is a value that does not fit its NUMERIC column.
type NumericRangeError struct{ pgError }

func WrapDBError(message, code string) CustomError {
	return wrap(pgError{message: message, code: code})
}

func wrap(e pgError) CustomError {
	switch e.code {
	case codeUniqueViolation:
		return &UniqueViolationError{e}
	case codeForeignKeyViolation:
		e.message = "referenced record does not exist: " + e.message
		return &ForeignKeyViolationError{e}
	case codeNumericOutOfRange:
		return &NumericRangeError{e}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", e.code, e.message)
	}
}

// FromDB converts driver errors carrying a PostgreSQL code into the typed
// errors above. Other errors are wrapped with message as context.
func FromDB(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch code := string(pqErr.Code); code {
		case codeUniqueViolation, codeForeignKeyViolation, codeNumericOutOfRange:
			return wrap(pgError{message: message, constraint: pqErr.Constraint, code: code})
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}

func IsUniqueViolation(err error) bool {
	var target *UniqueViolationError
	return errors.As(err, &target)
}
